package explain

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
	requirePkg "github.com/dop251/goja_nodejs/require"
)

// Runtime is a per-module JavaScript runtime. Modules are isolated from
// each other; nothing is shared between runtimes.
type Runtime struct {
	*requirePkg.RequireModule
	*goja.Runtime
	l *log.Logger
}

func NewRuntime(l *log.Logger, wd string) (*Runtime, error) {
	registry := new(requirePkg.Registry)
	runtime := goja.New()
	reqM := registry.Enable(runtime)

	r := &Runtime{
		Runtime:       runtime,
		RequireModule: reqM,
		l:             l,
	}
	if err := runtime.Set("print", r.print); err != nil {
		return nil, err
	}
	if err := runtime.Set("require", r.require(wd)); err != nil {
		return nil, err
	}
	return r, nil
}

// print routes module output through the daemon log instead of stdout.
func (r *Runtime) print(call goja.FunctionCall) goja.Value {
	parts := make([]string, 0, len(call.Arguments))
	for _, v := range call.Arguments {
		parts = append(parts, v.String())
	}
	r.l.Println("explainer:", strings.Join(parts, " "))
	return nil
}

// require resolves module imports relative to the module's own
// directory so modules cannot read code outside their store entry.
func (r *Runtime) require(wd string) func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		modName := call.Arguments[0].String()
		modPath := filepath.Join(wd, modName)
		v, err := r.RequireModule.Require(modPath)
		if err != nil {
			r.l.Println("require: failed to import module:", modName)
			return nil
		}
		return v
	}
}
