package store

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// registerSize is one 64-bit word: 32 value bits plus the set bit.
const registerSize = 8

// openGlobal maps the register pinned at namespace/name, creating it
// unset if absent. The mapping is shared, so atomic loads and stores on
// the word are visible to every process holding the same pin.
func openGlobal(namespace, name string) (*Register, error) {
	if err := os.MkdirAll(namespace, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create namespace: %w", err)
	}

	path := filepath.Join(namespace, name)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open backing object: %w", err)
	}
	defer f.Close()

	if err := f.Truncate(registerSize); err != nil {
		return nil, fmt.Errorf("failed to size backing object: %w", err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, registerSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("failed to map backing object: %w", err)
	}

	return &Register{
		word:   (*uint64)(unsafe.Pointer(&data[0])),
		name:   name,
		scope:  ScopeGlobal,
		munmap: func() error { return unix.Munmap(data) },
	}, nil
}
