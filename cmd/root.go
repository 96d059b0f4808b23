package cmd

import (
	"log"
	"os"

	"github.com/keymash/dropfilter/bpf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pinDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dropfilter",
	Short: "Probabilistic packet-drop filter with a shared, live-tunable threshold",
	Long: `dropfilter attaches probabilistic drop classifiers to traffic-control
hooks. All attachment points read one shared threshold register, so the
drop probability can be changed live without reloading or reattaching
anything.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to get zap production logger: %v", err)
	}

	return l.Sugar()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&pinDir,
		"pin-dir",
		bpf.DefaultPinDir,
		"directory where kernel threshold maps are pinned",
	)
}
