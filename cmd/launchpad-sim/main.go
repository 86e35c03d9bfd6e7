package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/launchpad-contract/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	rootCmd = &cobra.Command{
		Use:   "launchpad-sim",
		Short: "Runs NFT launchpad contracts on the in-process chain",

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			conf, err = config.Parse(cfgFile, boundFlags)
			if err != nil {
				return err
			}
			log, err = conf.Logger.Build()
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
		SilenceUsage: true,
	}

	cfgFile    string
	conf       config.Config
	log        *zap.Logger
	boundFlags = make(map[string]*pflag.Flag)
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "configuration file path")
	flags.String("log-level", "", "logging level")
	bindFlag("logger.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(runCmd, versionCmd, manifestCmd)
}

// bindFlag makes the flag override the config key when it is set.
func bindFlag(key string, f *pflag.Flag) {
	boundFlags[key] = f
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
