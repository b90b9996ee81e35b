package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootCmdConfig struct {
	verbose  bool
	logFile  string
	logger   *zap.Logger
	closeLog func() error
}

// exitError carries the exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (ee *exitError) Error() string {
	return ee.err.Error()
}

func (ee *exitError) Unwrap() error {
	return ee.err
}

func exit(code int, err error) error {
	return &exitError{code, err}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd, config := cliParser()
	err := execute(ctx, rootCmd, config)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		os.Exit(code)
	}
}

// execute runs the command line and syncs the logger, also when the
// command fails.
func execute(ctx context.Context, rootCmd *cobra.Command, config *rootCmdConfig) error {
	defer config.syncLogger()
	return rootCmd.ExecuteContext(ctx)
}

func cliParser() (*cobra.Command, *rootCmdConfig) {
	config := &rootCmdConfig{logger: zap.NewNop()}
	rootCmd := &cobra.Command{
		Use:           "bonsai",
		Short:         "bonsai is a tool to perform classification with decision trees",
		Long:          `A tool to grow binary classification trees from your data, test them, and use them to make predictions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.buildLogger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress at debug level")
	rootCmd.PersistentFlags().StringVar(&(config.logFile), "log-file", "", "path to a file to write logs to, rotated as it grows (defaults to STDERR)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), testCmd(config), predictCmd(config), treeCmd(config), setCmd(config))
	return rootCmd, config
}
