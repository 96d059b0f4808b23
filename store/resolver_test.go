package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keymash/dropfilter/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newResolver(t *testing.T, namespace string) *store.Resolver {
	t.Helper()

	r := store.NewResolver(zap.NewNop().Sugar(), namespace)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func TestResolveScopes(t *testing.T) {
	tests := []struct {
		name  string
		scope store.Scope
		// shared reports whether two resolutions of the same name through
		// one resolver must observe each other's writes.
		shared bool
	}{
		{name: "process scope is always fresh", scope: store.ScopeProcess, shared: false},
		{name: "private scope shares within a resolver", scope: store.ScopePrivate, shared: true},
		{name: "global scope shares within a resolver", scope: store.ScopeGlobal, shared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, t.TempDir())

			a, err := r.Resolve("thresh", tt.scope)
			require.NoError(t, err)

			b, err := r.Resolve("thresh", tt.scope)
			require.NoError(t, err)

			a.Store(1234)

			got, ok := b.Load()
			if tt.shared {
				require.True(t, ok)
				require.Equal(t, uint32(1234), got)
			} else {
				require.False(t, ok)
			}
		})
	}
}

func TestGlobalScopeSharedAcrossResolvers(t *testing.T) {
	namespace := t.TempDir()

	r1 := newResolver(t, namespace)
	r2 := newResolver(t, namespace)

	a, err := r1.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	b, err := r2.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	a.Store(429496730)

	got, ok := b.Load()
	require.True(t, ok)
	require.Equal(t, uint32(429496730), got)

	// writes travel the other way too
	b.Store(7)

	got, ok = a.Load()
	require.True(t, ok)
	require.Equal(t, uint32(7), got)
}

func TestGlobalScopeSurvivesResolverTeardown(t *testing.T) {
	namespace := t.TempDir()

	r1 := store.NewResolver(zap.NewNop().Sugar(), namespace)

	reg, err := r1.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	reg.Store(99)
	require.NoError(t, r1.Close())

	r2 := newResolver(t, namespace)

	reg, err = r2.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	got, ok := reg.Load()
	require.True(t, ok)
	require.Equal(t, uint32(99), got)
}

func TestGlobalScopeDistinctNamesNeverAlias(t *testing.T) {
	r := newResolver(t, t.TempDir())

	a, err := r.Resolve("ingress-thresh", store.ScopeGlobal)
	require.NoError(t, err)

	b, err := r.Resolve("egress-thresh", store.ScopeGlobal)
	require.NoError(t, err)

	a.Store(1)

	_, ok := b.Load()
	require.False(t, ok)
}

func TestProcessScopeIgnoresOtherScopes(t *testing.T) {
	r := newResolver(t, t.TempDir())

	g, err := r.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	g.Store(500)

	p, err := r.Resolve("thresh", store.ScopeProcess)
	require.NoError(t, err)

	_, ok := p.Load()
	require.False(t, ok)
}

func TestResolveInaccessibleNamespace(t *testing.T) {
	// a plain file where the namespace directory should be makes every
	// global resolution fail hard
	namespace := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(namespace, []byte("x"), 0o644))

	r := newResolver(t, namespace)

	_, err := r.Resolve("thresh", store.ScopeGlobal)
	require.ErrorIs(t, err, store.ErrResolution)
}

func TestResolveRejectsBadNames(t *testing.T) {
	r := newResolver(t, t.TempDir())

	for _, name := range []string{"", "a/b"} {
		_, err := r.Resolve(name, store.ScopeGlobal)
		require.ErrorIs(t, err, store.ErrBadName)
	}
}

func TestResolveRejectsUnknownScope(t *testing.T) {
	r := newResolver(t, t.TempDir())

	_, err := r.Resolve("thresh", store.Scope("galactic"))
	require.ErrorIs(t, err, store.ErrUnknownScope)
}

func TestUnpin(t *testing.T) {
	namespace := t.TempDir()
	r := newResolver(t, namespace)

	reg, err := r.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	reg.Store(42)
	require.NoError(t, r.Unpin("thresh"))

	_, err = os.Stat(filepath.Join(namespace, "thresh"))
	require.ErrorIs(t, err, os.ErrNotExist)

	// a fresh resolution recreates the register unset
	reg, err = r.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	_, ok := reg.Load()
	require.False(t, ok)
}

func TestUnpinMissingRegister(t *testing.T) {
	r := newResolver(t, t.TempDir())

	require.Error(t, r.Unpin("never-pinned"))
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in    string
		scope store.Scope
		err   error
	}{
		{in: "process", scope: store.ScopeProcess},
		{in: "private", scope: store.ScopePrivate},
		{in: "global", scope: store.ScopeGlobal},
		{in: "GLOBAL", err: store.ErrUnknownScope},
		{in: "", err: store.ErrUnknownScope},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.ParseScope(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.scope, got)
		})
	}
}
