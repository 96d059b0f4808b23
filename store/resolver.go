package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Resolver resolves (name, scope) pairs to threshold registers.
//
// Resolution is idempotent: repeated calls with the same (name, scope)
// return handles to the same underlying storage, except under
// ScopeProcess, where every call deliberately yields a fresh register.
type Resolver struct {
	logger    *zap.SugaredLogger
	namespace string

	mu      sync.Mutex
	private map[string]*Register
	global  map[string]*Register
}

// NewResolver returns a resolver whose global-scope registers are pinned
// under the namespace directory. The directory is created lazily on the
// first global resolution.
func NewResolver(logger *zap.SugaredLogger, namespace string) *Resolver {
	return &Resolver{
		logger:    logger,
		namespace: namespace,
		private:   make(map[string]*Register),
		global:    make(map[string]*Register),
	}
}

// Namespace returns the directory backing global-scope registers.
func (r *Resolver) Namespace() string { return r.namespace }

// Resolve returns the register identified by (name, scope), creating it
// unset if it does not exist. Failures to reach the backing namespace
// wrap ErrResolution and are fatal to the caller's attachment; they are
// never retried here.
func (r *Resolver) Resolve(name string, scope Scope) (*Register, error) {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return nil, fmt.Errorf("%w: %q", ErrBadName, name)
	}

	switch scope {
	case ScopeProcess:
		return newHeapRegister(name, scope), nil
	case ScopePrivate:
		return r.resolvePrivate(name), nil
	case ScopeGlobal:
		return r.resolveGlobal(name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}

func (r *Resolver) resolvePrivate(name string) *Register {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.private[name]; ok {
		return reg
	}

	reg := newHeapRegister(name, ScopePrivate)
	r.private[name] = reg

	return reg
}

func (r *Resolver) resolveGlobal(name string) (*Register, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.global[name]; ok {
		return reg, nil
	}

	reg, err := openGlobal(r.namespace, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in namespace %s: %w", ErrResolution, name, r.namespace, err)
	}

	r.logger.Infow("pinned global register", "name", name, "namespace", r.namespace)

	r.global[name] = reg

	return reg, nil
}

// Unpin removes a global register's backing object from the namespace.
// Handles already resolved against it are unmapped; later resolutions
// create a fresh unset register.
func (r *Resolver) Unpin(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.global[name]; ok {
		if err := reg.Close(); err != nil {
			return fmt.Errorf("failed to unmap register %q: %w", name, err)
		}

		delete(r.global, name)
	}

	if err := os.Remove(filepath.Join(r.namespace, name)); err != nil {
		return fmt.Errorf("failed to unpin register %q: %w", name, err)
	}

	return nil
}

// Close unmaps every global register resolved so far. Pinned objects
// survive for later processes to resolve.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, reg := range r.global {
		if err := reg.Close(); err != nil {
			return fmt.Errorf("failed to unmap register %q: %w", name, err)
		}

		delete(r.global, name)
	}

	return nil
}
