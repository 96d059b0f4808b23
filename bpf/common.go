package bpf

import (
	"errors"

	"github.com/cilium/ebpf"
)

var (
	ErrUnknownDirection = errors.New("unknown attach direction")
	ErrProgramMissing   = errors.New("program not found in object")
	ErrMapMissing       = errors.New("threshold map not found in object")
)

const (
	// DefaultPinDir is where tc pins by-name maps; loading with this pin
	// path makes kernel registers shared-global across objects.
	DefaultPinDir = "/sys/fs/bpf/tc/globals"
	// DefaultMapName must match the map declared in the classifier
	// object's .maps section.
	DefaultMapName = "drop_threshold"
	// DefaultProgName is the classifier entry point's program name.
	DefaultProgName = "drop_filter"
)

// Direction selects the tc hook point for an attachment.
type Direction string

var (
	Ingress Direction = "ingress"
	Egress  Direction = "egress"
)

// ParseDirection converts a flag value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ingress, Egress:
		return Direction(s), nil
	default:
		return "", ErrUnknownDirection
	}
}

func (d Direction) attachType() (ebpf.AttachType, error) {
	switch d {
	case Ingress:
		return ebpf.AttachTCXIngress, nil
	case Egress:
		return ebpf.AttachTCXEgress, nil
	default:
		return 0, ErrUnknownDirection
	}
}
