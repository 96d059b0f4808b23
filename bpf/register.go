package bpf

import (
	"fmt"
	"path/filepath"

	"github.com/cilium/ebpf"
)

// registerKey is the only key in the single-slot threshold map.
var registerKey = uint32(0)

// PinnedRegister is a control-plane handle to a kernel threshold map.
//
// An array map always holds a value, so unlike a userspace register a
// kernel register cannot be unset: the classifier treats zero as "never
// drop", which is also the value a freshly created map reports.
type PinnedRegister struct {
	m    *ebpf.Map
	name string
}

// OpenPinnedRegister opens the threshold map pinned at pinDir/name.
// It fails if the map was never pinned, or if the bpf filesystem is
// inaccessible; callers treat that as a resolution failure and abort.
func OpenPinnedRegister(pinDir, name string) (*PinnedRegister, error) {
	path := filepath.Join(pinDir, name)

	m, err := ebpf.LoadPinnedMap(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open pinned register at %s: %w", path, err)
	}

	return &PinnedRegister{m: m, name: name}, nil
}

// Name returns the register's pin name.
func (r *PinnedRegister) Name() string { return r.name }

// Threshold reads the current drop-probability numerator.
func (r *PinnedRegister) Threshold() (uint32, error) {
	var v uint32

	if err := r.m.Lookup(&registerKey, &v); err != nil {
		return 0, fmt.Errorf("failed to read register %q: %w", r.name, err)
	}

	return v, nil
}

// SetThreshold replaces the drop-probability numerator. The kernel
// updates the element atomically, so hooks racing this write observe
// either the previous or the new value.
func (r *PinnedRegister) SetThreshold(v uint32) error {
	if err := r.m.Put(&registerKey, &v); err != nil {
		return fmt.Errorf("failed to write register %q: %w", r.name, err)
	}

	return nil
}

// Unpin removes the register from the bpf filesystem. Already-attached
// classifiers keep their reference; new loads create a fresh map.
func (r *PinnedRegister) Unpin() error {
	if err := r.m.Unpin(); err != nil {
		return fmt.Errorf("failed to unpin register %q: %w", r.name, err)
	}

	return nil
}

// Close releases the handle without unpinning.
func (r *PinnedRegister) Close() error {
	return r.m.Close()
}
