// dropctl is the out-of-band control-plane writer: it adjusts drop
// thresholds live, against either kernel registers pinned in the bpf
// filesystem or userspace registers pinned in a namespace directory,
// without touching the attached hooks.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/keymash/dropfilter/bpf"
	"github.com/keymash/dropfilter/filter"
	"github.com/keymash/dropfilter/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	kernel    bool
	pinDir    string
	namespace string
	percent   bool
)

func main() {
	app := &cli.App{
		Name:      "dropctl",
		Usage:     "adjust dropfilter thresholds live",
		ArgsUsage: "COMMAND NAME [VALUE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "kernel",
				Usage:       "operate on kernel registers pinned in the bpf filesystem",
				Destination: &kernel,
			}, &cli.StringFlag{
				Name:        "pin-dir",
				Value:       bpf.DefaultPinDir,
				Usage:       "pin directory for kernel registers",
				Destination: &pinDir,
			}, &cli.StringFlag{
				Name:        "namespace",
				Value:       "/run/dropfilter/globals",
				Usage:       "namespace directory for userspace registers",
				Destination: &namespace,
			}, &cli.BoolFlag{
				Name:        "percent",
				Usage:       "interpret VALUE as a percentage instead of a raw numerator",
				Destination: &percent,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "write a register's threshold",
				ArgsUsage: "NAME VALUE",
				Action:    setAction,
			}, {
				Name:      "get",
				Usage:     "read a register's threshold",
				ArgsUsage: "NAME",
				Action:    getAction,
			}, {
				Name:      "clear",
				Usage:     "return a userspace register to the unset state",
				ArgsUsage: "NAME",
				Action:    clearAction,
			}, {
				Name:      "unpin",
				Usage:     "remove a register's backing object",
				ArgsUsage: "NAME",
				Action:    unpinAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to get zap production logger: %v", err)
	}

	return l.Sugar()
}

func registerName(cCtx *cli.Context) (string, error) {
	if cCtx.Args().Len() < 1 {
		_ = cli.ShowAppHelp(cCtx)

		return "", cli.Exit("\nERROR: register NAME is required", 1)
	}

	return cCtx.Args().Get(0), nil
}

func parseValue(cCtx *cli.Context) (uint32, error) {
	if cCtx.Args().Len() < 2 {
		return 0, cli.Exit("ERROR: expected NAME and VALUE", 1)
	}

	raw := cCtx.Args().Get(1)

	if percent {
		pct, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, cli.Exit(fmt.Sprintf("ERROR: couldn't parse percentage %q", raw), 1)
		}

		v, err := filter.ThresholdFromPercent(pct)
		if err != nil {
			return 0, cli.Exit(fmt.Sprintf("ERROR: %v", err), 1)
		}

		return v, nil
	}

	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, cli.Exit(fmt.Sprintf("ERROR: couldn't parse numerator %q", raw), 1)
	}

	return uint32(v), nil
}

func setAction(cCtx *cli.Context) error {
	name, err := registerName(cCtx)
	if err != nil {
		return err
	}

	value, err := parseValue(cCtx)
	if err != nil {
		return err
	}

	if kernel {
		reg, err := bpf.OpenPinnedRegister(pinDir, name)
		if err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
		defer reg.Close()

		if err := reg.SetThreshold(value); err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
	} else {
		resolver := store.NewResolver(newLogger(), namespace)
		defer resolver.Close()

		reg, err := resolver.Resolve(name, store.ScopeGlobal)
		if err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}

		reg.Store(value)
	}

	fmt.Printf("%s = %d (%.2f%%)\n", name, value, filter.PercentFromThreshold(value))

	return nil
}

func getAction(cCtx *cli.Context) error {
	name, err := registerName(cCtx)
	if err != nil {
		return err
	}

	if kernel {
		reg, err := bpf.OpenPinnedRegister(pinDir, name)
		if err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
		defer reg.Close()

		value, err := reg.Threshold()
		if err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}

		fmt.Printf("%s = %d (%.2f%%)\n", name, value, filter.PercentFromThreshold(value))

		return nil
	}

	resolver := store.NewResolver(newLogger(), namespace)
	defer resolver.Close()

	reg, err := resolver.Resolve(name, store.ScopeGlobal)
	if err != nil {
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
	}

	value, ok := reg.Load()
	if !ok {
		fmt.Printf("%s is unset\n", name)

		return nil
	}

	fmt.Printf("%s = %d (%.2f%%)\n", name, value, filter.PercentFromThreshold(value))

	return nil
}

func clearAction(cCtx *cli.Context) error {
	name, err := registerName(cCtx)
	if err != nil {
		return err
	}

	if kernel {
		// kernel array maps always hold a value; the closest to unset is
		// the never-drop threshold
		return cli.Exit("ERROR: kernel registers cannot be unset; use `set NAME 0`", 1)
	}

	resolver := store.NewResolver(newLogger(), namespace)
	defer resolver.Close()

	reg, err := resolver.Resolve(name, store.ScopeGlobal)
	if err != nil {
		return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
	}

	reg.Clear()

	fmt.Printf("%s cleared\n", name)

	return nil
}

func unpinAction(cCtx *cli.Context) error {
	name, err := registerName(cCtx)
	if err != nil {
		return err
	}

	if kernel {
		reg, err := bpf.OpenPinnedRegister(pinDir, name)
		if err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
		defer reg.Close()

		if err := reg.Unpin(); err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
	} else {
		resolver := store.NewResolver(newLogger(), namespace)
		defer resolver.Close()

		if err := resolver.Unpin(name); err != nil {
			return cli.Exit(fmt.Sprintf("ERROR: %v", err), 2)
		}
	}

	fmt.Printf("%s unpinned\n", name)

	return nil
}
