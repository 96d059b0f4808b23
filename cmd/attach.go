package cmd

import (
	"os"
	"os/signal"

	"github.com/keymash/dropfilter/bpf"
	"github.com/spf13/cobra"
)

var (
	objPath    string
	progName   string
	directions []string
)

// attachCmd represents the attach command
var attachCmd = &cobra.Command{
	Use:   "attach IFACE",
	Short: "Load the tc classifier and attach it to a network interface",
	Long: `Attach loads the compiled classifier object, pins its threshold map
under --pin-dir, and attaches the program to the requested directions of
IFACE. It blocks until interrupted; the attachments are torn down on
exit, but the pinned threshold survives for the next attach.

USAGE
	dropfilter attach eth0 --obj drop_filter.o --direction ingress --direction egress
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		iface := args[0]

		prog, err := bpf.LoadProgram(logger, objPath, pinDir)
		if err != nil {
			logger.Fatalw("failed to load classifier object", "obj", objPath, "err", err)
		}
		defer prog.Close()

		for _, d := range directions {
			dir, err := bpf.ParseDirection(d)
			if err != nil {
				logger.Fatalw("invalid direction", "direction", d, "err", err)
			}

			if err := prog.Attach(iface, progName, dir); err != nil {
				logger.Fatalw("failed to attach classifier",
					"iface", iface,
					"direction", dir,
					"err", err,
				)
			}
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		logger.Infow("filtering; adjust the threshold with `dropfilter set`, ctrl-c to detach")

		<-ctx.Done()
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)

	attachCmd.Flags().StringVar(&objPath, "obj", "drop_filter.o", "path to the compiled classifier object")
	attachCmd.Flags().StringVar(&progName, "program", bpf.DefaultProgName, "classifier program name within the object")
	attachCmd.Flags().StringSliceVar(&directions, "direction", []string{"ingress"}, "hook direction(s) to attach: ingress, egress")
}
