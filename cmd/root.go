// Package cmd implements the subgraph-extractor command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

const (
	exitCodeExternal = 1
	exitCodeInternal = 2
)

// cli is the state shared by the commands of one invocation
type cli struct {
	config *viper.Viper
	logger abstractlogger.Logger
	sync   func()
}

func newRootCmd() *cobra.Command {
	state := &cli{
		config: newConfig(),
		logger: abstractlogger.NoopLogger,
		sync:   func() {},
	}

	rootCmd := &cobra.Command{
		Use:   "subgraph-extractor",
		Short: "Builds federation subgraph schemas from supergraph schemas",
		Long: `subgraph-extractor rewrites a composed supergraph schema into the schema a federation subgraph serves.
Types keyed by a join__type marker become entities with @key, all other marked object types become @shareable,
composition artifacts are removed and the _Any, FieldSet, _Entity and _entities declarations are added.
A plain subgraph schema is composed first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.config.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := readConfigFile(state.config); err != nil {
				return err
			}

			logger, sync, err := newLogger(state.config.GetString(logLevelFlagName))
			if err != nil {
				return err
			}
			state.logger = logger
			state.sync = sync
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			state.sync()
		},
	}

	rootCmd.PersistentFlags().String(configFlagName, "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().String(logLevelFlagName, defaultLogLevel, "log level, one of debug, info, warn, error")

	rootCmd.AddCommand(newExtractCmd(state))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits with 1 for invalid input and 2 for internal errors
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var report operationreport.Report
	if errors.As(err, &report) && report.HasInternalErrors() {
		return exitCodeInternal
	}
	return exitCodeExternal
}
