package store

import "errors"

var (
	ErrResolution   = errors.New("failed to resolve threshold register")
	ErrUnknownScope = errors.New("unknown register scope")
	ErrBadName      = errors.New("invalid register name")
)

// Scope is the sharing policy applied when a register is resolved.
type Scope string

var (
	// ScopeProcess gives every resolution its own fresh, unset register.
	ScopeProcess Scope = "process"
	// ScopePrivate shares one register per name among all hooks resolved
	// through the same Resolver.
	ScopePrivate Scope = "private"
	// ScopeGlobal pins one register per name in the Resolver's namespace
	// directory, shared across resolvers and across processes.
	ScopeGlobal Scope = "global"
)

// ParseScope converts a config string into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeProcess, ScopePrivate, ScopeGlobal:
		return Scope(s), nil
	default:
		return "", ErrUnknownScope
	}
}
