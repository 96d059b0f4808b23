package bpf

import (
	"fmt"
	"net"
	"os"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"go.uber.org/zap"
)

// Program wraps a loaded classifier object and its attachments.
type Program struct {
	logger *zap.SugaredLogger
	coll   *ebpf.Collection
	links  []link.Link
}

// LoadProgram loads the compiled classifier object at objPath, pinning
// its by-name maps under pinDir. Objects loaded with the same pinDir
// resolve to the same kernel registers, which is what makes the
// threshold adjustable without touching the datapath.
func LoadProgram(logger *zap.SugaredLogger, objPath, pinDir string) (*Program, error) {
	spec, err := ebpf.LoadCollectionSpec(objPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection spec from %s: %w", objPath, err)
	}

	if err := os.MkdirAll(pinDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pin directory %s: %w", pinDir, err)
	}

	coll, err := ebpf.NewCollectionWithOptions(spec, ebpf.CollectionOptions{
		Maps: ebpf.MapOptions{PinPath: pinDir},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	logger.Infow("classifier object loaded", "obj", objPath, "pin_dir", pinDir)

	return &Program{
		logger: logger,
		coll:   coll,
	}, nil
}

// Attach installs the named classifier program on a tcx hook. The
// attachment lives until Close; closing the Program detaches every hook
// it installed.
func (p *Program) Attach(ifaceName, progName string, dir Direction) error {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return fmt.Errorf("failed to look up interface %s: %w", ifaceName, err)
	}

	at, err := dir.attachType()
	if err != nil {
		return fmt.Errorf("failed to attach to %s: %w", ifaceName, err)
	}

	prog, ok := p.coll.Programs[progName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrProgramMissing, progName)
	}

	l, err := link.AttachTCX(link.TCXOptions{
		Program:   prog,
		Attach:    at,
		Interface: iface.Index,
	})
	if err != nil {
		return fmt.Errorf("failed to attach %q to %s %s: %w", progName, ifaceName, dir, err)
	}

	p.links = append(p.links, l)

	p.logger.Infow("classifier attached", "iface", ifaceName, "direction", dir, "program", progName)

	return nil
}

// Register returns a handle to a threshold map in the loaded collection.
func (p *Program) Register(mapName string) (*PinnedRegister, error) {
	m, ok := p.coll.Maps[mapName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMapMissing, mapName)
	}

	return &PinnedRegister{m: m, name: mapName}, nil
}

// Close detaches every hook and releases the collection. Pinned maps
// survive in the bpf filesystem.
func (p *Program) Close() error {
	for _, l := range p.links {
		if err := l.Close(); err != nil {
			return fmt.Errorf("failed to detach link: %w", err)
		}
	}

	p.links = nil
	p.coll.Close()

	return nil
}
