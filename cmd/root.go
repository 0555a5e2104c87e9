package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vicinity-labs/vicinity/internal/config"
	"github.com/vicinity-labs/vicinity/internal/logger"
	"github.com/vicinity-labs/vicinity/internal/ui"
	"github.com/vicinity-labs/vicinity/internal/vicinity"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	networkName string
	verbose     bool
	useSim      bool
	asAccount   string
	assumeYes   bool

	cfg *config.Config
	log *zap.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "vicinity",
	Short: "Deploy and operate the Vicinity token",
	Long: ui.Banner() + `
Deploy the Vicinity token, administer its roles, locks and blacklist, and
inspect its state on any configured network.

Networks come from vicinity-config.yaml. --sim runs against an in-process
chain that starts empty on every invocation; local networks deploy a fresh
contract automatically when none is recorded.`,
	Version:      vicinity.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "selectors" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		switch {
		case useSim:
			err = cfg.SetActive(config.SimNetwork)
		case networkName != "":
			err = cfg.SetActive(networkName)
		}
		if err != nil {
			return err
		}
		log, err = logger.New(cfg.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// VICINITY_CONFIG overrides the default config search.
	if env := os.Getenv("VICINITY_CONFIG"); env != "" {
		cfgFile = env
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", cfgFile, "config file (default: ./vicinity-config.yaml or ~/.vicinity)")
	rootCmd.PersistentFlags().StringVarP(&networkName, "network", "n", "", "network to use (default: networks.default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&useSim, "sim", false, "use the in-process simulated chain")
	rootCmd.PersistentFlags().StringVar(&asAccount, "as", "", "sender: node account index, accounts[N] or keystore id")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask before sending to a live network")
	rootCmd.MarkFlagsMutuallyExclusive("sim", "network")

	rootCmd.AddCommand(
		goLiveCmd,
		accountsCmd,
		deployCmd,
		mintCmd,
		burnCmd,
		transferCmd,
		approveCmd,
		allowanceCmd,
		airdropCmd,
		roleCmd,
		ownershipCmd,
		pauseCmd,
		unpauseCmd,
		lockCmd,
		blacklistCmd,
		withdrawCmd,
		receiveCmd,
		statusCmd,
		selectorsCmd,
	)
}
