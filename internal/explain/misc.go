package explain

import "errors"

const (
	// defModuleEntry is the default entrypoint file of an explainer
	// module.
	defModuleEntry = "main.js"

	// explainCallback is the symbol an explainer module must define.
	explainCallback = "explain"

	// moduleStoreDir is the directory under the config dir that holds
	// explainer modules, one subdirectory per module.
	moduleStoreDir = "explainers"
)

var (
	ErrInvalidModule      = errors.New("invalid explainer module")
	ErrEntrypointNotFound = errors.New("entrypoint not found")
	ErrExplainNotDefined  = errors.New("explain function not defined")
	ErrInvalidReturnType  = errors.New("invalid return type")
	ErrNoMatchFound       = errors.New("no explainer module matches")
)
