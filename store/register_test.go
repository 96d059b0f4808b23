package store_test

import (
	"sync"
	"testing"

	"github.com/keymash/dropfilter/store"
	"github.com/stretchr/testify/require"
)

func TestRegisterZeroDistinctFromUnset(t *testing.T) {
	r := newResolver(t, t.TempDir())

	reg, err := r.Resolve("thresh", store.ScopeProcess)
	require.NoError(t, err)

	_, ok := reg.Load()
	require.False(t, ok)

	reg.Store(0)

	got, ok := reg.Load()
	require.True(t, ok)
	require.Equal(t, uint32(0), got)

	reg.Clear()

	_, ok = reg.Load()
	require.False(t, ok)
}

func TestRegisterConcurrentReaders(t *testing.T) {
	r := newResolver(t, t.TempDir())

	reg, err := r.Resolve("thresh", store.ScopeGlobal)
	require.NoError(t, err)

	// readers racing a single writer must only ever see values the writer
	// actually stored
	valid := map[uint32]bool{1: true, 2: true, 3: true}

	var wg sync.WaitGroup

	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-stop:
					return
				default:
				}

				if v, ok := reg.Load(); ok && !valid[v] {
					t.Errorf("read value %d that was never stored", v)
					return
				}
			}
		}()
	}

	for i := 0; i < 10_000; i++ {
		reg.Store(uint32(i%3) + 1)
	}

	close(stop)
	wg.Wait()
}
