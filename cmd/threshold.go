package cmd

import (
	"fmt"
	"strconv"

	"github.com/keymash/dropfilter/bpf"
	"github.com/keymash/dropfilter/filter"
	"github.com/spf13/cobra"
)

var setPercent bool

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Write a pinned kernel threshold register",
	Long: `Set writes the drop threshold of the register pinned at
--pin-dir/NAME. VALUE is a raw numerator out of 2^32, or a percentage
when --percent is given. Attached classifiers pick the new value up on
the next packet; nothing is reloaded.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		threshold, err := parseThreshold(args[1], setPercent)
		if err != nil {
			logger.Fatalw("invalid threshold", "value", args[1], "err", err)
		}

		reg, err := bpf.OpenPinnedRegister(pinDir, args[0])
		if err != nil {
			logger.Fatalw("failed to open register", "name", args[0], "err", err)
		}
		defer reg.Close()

		if err := reg.SetThreshold(threshold); err != nil {
			logger.Fatalw("failed to write register", "name", args[0], "err", err)
		}

		logger.Infow("threshold updated",
			"name", args[0],
			"threshold", threshold,
			"percent", fmt.Sprintf("%.2f", filter.PercentFromThreshold(threshold)),
		)
	},
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Read a pinned kernel threshold register",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		reg, err := bpf.OpenPinnedRegister(pinDir, args[0])
		if err != nil {
			logger.Fatalw("failed to open register", "name", args[0], "err", err)
		}
		defer reg.Close()

		threshold, err := reg.Threshold()
		if err != nil {
			logger.Fatalw("failed to read register", "name", args[0], "err", err)
		}

		fmt.Printf("%d (%.2f%%)\n", threshold, filter.PercentFromThreshold(threshold))
	},
}

// unpinCmd represents the unpin command
var unpinCmd = &cobra.Command{
	Use:   "unpin NAME",
	Short: "Remove a pinned kernel threshold register",
	Long: `Unpin removes the register from the bpf filesystem. Classifiers that
are already attached keep their reference until detached; the next load
creates a fresh register.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()
		defer logger.Sync()

		reg, err := bpf.OpenPinnedRegister(pinDir, args[0])
		if err != nil {
			logger.Fatalw("failed to open register", "name", args[0], "err", err)
		}
		defer reg.Close()

		if err := reg.Unpin(); err != nil {
			logger.Fatalw("failed to unpin register", "name", args[0], "err", err)
		}

		logger.Infow("register unpinned", "name", args[0])
	},
}

func parseThreshold(s string, percent bool) (uint32, error) {
	if percent {
		pct, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse percentage: %w", err)
		}

		return filter.ThresholdFromPercent(pct)
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("failed to parse numerator: %w", err)
	}

	return uint32(v), nil
}

func init() {
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(unpinCmd)

	setCmd.Flags().BoolVar(&setPercent, "percent", false, "interpret VALUE as a percentage instead of a raw numerator")
}
