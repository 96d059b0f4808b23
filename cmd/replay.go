package cmd

import (
	"github.com/keymash/dropfilter/frontend"
	"github.com/spf13/cobra"
)

var (
	namespace   string
	metricsAddr string
	seed        uint64
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay CONFIG PCAP",
	Short: "Replay a packet capture through userspace hooks",
	Long: `Replay attaches the hooks described in the TOML CONFIG, resolved
against --namespace, and feeds the PCAP capture through them. Global
registers can be adjusted from another process while the replay runs
(e.g. with dropctl), and the replay applies the new probability
mid-stream.

USAGE
	dropfilter replay hooks.toml traffic.pcap --namespace /run/dropfilter/globals
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		err := frontend.Run(cmd.Context(), logger, &frontend.RunCfg{
			ConfigPath:  args[0],
			PcapPath:    args[1],
			Namespace:   namespace,
			MetricsAddr: metricsAddr,
			Seed:        seed,
		})
		if err != nil {
			logger.Fatalw("replay failed", "err", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&namespace, "namespace", "/run/dropfilter/globals", "directory backing global-scope registers")
	replayCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while replaying")
	replayCmd.Flags().Uint64Var(&seed, "seed", 0, "pin the random draw sequence (0 uses the system source)")
}
