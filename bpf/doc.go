// Package bpf provides an interface for interacting with the kernelspace
// tc classifier build of the drop filter.
//
// LoadProgram loads a compiled classifier object and pins its maps by
// name under the bpf filesystem, so independently loaded objects that
// declare the same map name share one threshold register in the kernel.
// Program.Attach installs the classifier on a tcx ingress or egress hook.
// PinnedRegister gives the control plane read/write access to a pinned
// threshold without reloading or reattaching anything.
//
// This package is intended as an interface to kernelspace, without
// containing decision logic: the verdict is computed by the classifier
// itself. The userspace twin of that logic lives in the filter package.
package bpf
