package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/attendance-portal/internal/config"
	"github.com/example/attendance-portal/internal/logging"
)

const appName = "attendance"

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Format  string
	EnvFile string
}

var validFormats = []string{"text", "json"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Employee attendance tracking service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to merge into the environment (default $ATTENDANCE_ENV_FILE or .env)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newEmployeeCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))

	return cmd
}

// loadRuntime reads configuration and builds the process logger, which writes
// JSON records to stderr so command output on stdout stays parseable.
func loadRuntime(opts *rootOptions, stderr io.Writer) (config.Config, *slog.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.EnvFile != "" {
		cfg, err = config.LoadFile(opts.EnvFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(stderr, cfg.LogLevel, appName), nil
}
