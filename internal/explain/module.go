package explain

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dop251/goja"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

// Module is one explainer loaded from the module store. Its manifest
// declares which cookies it can explain via regex patterns matched
// against the cookie name.
type Module struct {
	// Name of the module.
	Name string `json:"name"`
	// Version of the module.
	Version string `json:"version"`
	// Description of the module.
	Description string `json:"description"`
	// Matches is an array of regex patterns for cookie names this
	// module can explain.
	Matches []string `json:"matches"`
	// main file for the module (default: main.js)
	Entrypoint string `json:"entrypoint,omitempty"`

	// module path (*/explainers/{module_dir}/)
	modulePath string
	// module exclusive js runtime
	runtime *Runtime
	// compiled Matches patterns
	patterns []*regexp.Regexp
	l        *log.Logger
}

// OpenModule creates a module object by reading its manifest.
func OpenModule(l *log.Logger, path string) (*Module, error) {
	manifestPath := filepath.Join(path, "manifest.json")
	file, err := os.Open(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrInvalidModule
		}
		return nil, err
	}
	defer file.Close()

	m := Module{
		l:          l,
		modulePath: strings.TrimSuffix(path, "/"),
	}
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, err
	}
	if m.Entrypoint == "" {
		m.Entrypoint = defModuleEntry
	}
	for _, pattern := range m.Matches {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, re)
	}
	return &m, nil
}

// Load allocates a runtime for the module, runs its entrypoint and
// verifies the explain symbol exists. Each module gets its own runtime.
func (m *Module) Load() error {
	var err error
	m.runtime, err = NewRuntime(m.l, m.modulePath)
	if err != nil {
		return err
	}
	entryPath := filepath.Join(m.modulePath, m.Entrypoint)
	file, err := os.Open(entryPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrEntrypointNotFound
		}
		return err
	}
	defer file.Close()
	b, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if _, err = m.runtime.RunString(string(b)); err != nil {
		return err
	}
	if m.runtime.Get(explainCallback) == nil {
		return ErrExplainNotDefined
	}
	return nil
}

// MatchesCookie reports whether any of the module's patterns match the
// cookie name.
func (m *Module) MatchesCookie(name string) bool {
	for _, re := range m.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Explain invokes the module's explain function with the cookie data
// and returns its text.
func (m *Module) Explain(c *wardlib.Cookie, categories []wardlib.Category) (string, error) {
	fn, ok := goja.AssertFunction(m.runtime.Get(explainCallback))
	if !ok {
		return "", ErrExplainNotDefined
	}
	payload := m.runtime.ToValue(map[string]any{
		"name":       c.Name,
		"domain":     c.Domain,
		"value":      c.Value,
		"categories": categories,
	})
	v, err := fn(goja.Undefined(), payload)
	if err != nil {
		return "", err
	}
	text, ok := v.Export().(string)
	if !ok {
		return "", ErrInvalidReturnType
	}
	return text, nil
}
