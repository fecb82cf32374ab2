// Package explain loads JavaScript explainer modules and produces
// cookie explanations with them. Each module lives in its own directory
// under the explainers store with a manifest.json describing which
// cookie names it handles.
package explain

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/cookieward/cookieward/pkg/wardlib"
)

type Engine struct {
	// inherited logger from the main daemon
	l *log.Logger
	// msPath is the module storage path
	// ( the */explainers/* directory)
	msPath string
	// modules is a list of loaded modules
	modules []*Module
}

// NewEngine scans the explainer store and loads every module it finds.
// A module that fails to open or load is skipped with a warning so one
// broken explainer cannot take the daemon down.
func NewEngine(l *log.Logger) (*Engine, error) {
	msPath := filepath.Join(wardlib.ConfigDir, moduleStoreDir)
	if err := os.MkdirAll(msPath, 0755); err != nil {
		return nil, err
	}
	e := &Engine{
		l:      l,
		msPath: msPath,
	}
	entries, err := os.ReadDir(msPath)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		modPath := filepath.Join(msPath, entry.Name())
		m, err := OpenModule(l, modPath)
		if err != nil {
			l.Println("skipping explainer", entry.Name(), ":", err)
			continue
		}
		if err := m.Load(); err != nil {
			l.Println("skipping explainer", m.Name, ":", err)
			continue
		}
		e.modules = append(e.modules, m)
		l.Println("loaded explainer:", m.Name, m.Version)
	}
	return e, nil
}

// AddModule loads a module from a directory outside the store without
// copying it. Used for explainer development.
func (e *Engine) AddModule(path string) (*Module, error) {
	m, err := OpenModule(e.l, path)
	if err != nil {
		return nil, err
	}
	if err := m.Load(); err != nil {
		return nil, err
	}
	e.modules = append(e.modules, m)
	return m, nil
}

// Modules returns the loaded modules.
func (e *Engine) Modules() []*Module {
	return e.modules
}

// Explain finds the first module whose patterns match the cookie name
// and asks it for an explanation. ErrNoMatchFound is returned when no
// module handles the cookie; the caller falls back to the built-in
// text.
func (e *Engine) Explain(_ context.Context, c *wardlib.Cookie, categories []wardlib.Category) (string, error) {
	for _, m := range e.modules {
		if m.MatchesCookie(c.Name) {
			e.l.Println("explaining", c.Name, "with", m.Name)
			return m.Explain(c, categories)
		}
	}
	return "", ErrNoMatchFound
}
