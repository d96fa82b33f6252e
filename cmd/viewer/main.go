package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Cerebrovinny/apihealth/internal/client"
	"github.com/Cerebrovinny/apihealth/internal/version"
	"github.com/Cerebrovinny/apihealth/internal/viewer"
)

const envPrefix = "HEALTH_VIEWER"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "viewer",
		Short:         "Check the API health endpoint once and show the result",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("url", "u", "http://localhost:8080", "Base URL of the API")
	cmd.Flags().DurationP("timeout", "t", client.DefaultTimeout, "Timeout for the health request")
	cmd.Flags().BoolP("plain", "p", !isatty.IsTerminal(os.Stdout.Fd()), "Print plain text instead of the interactive view")
	cmd.Flags().Bool("stay", false, "Keep the interactive view open until 'q' is pressed")
	_ = v.BindPFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) error {
	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		return fmt.Errorf("timeout must be greater than zero, got %s", timeout)
	}

	c, err := client.New(v.GetString("url"), client.WithTimeout(timeout))
	if err != nil {
		return err
	}

	if v.GetBool("plain") {
		logger := newLogger(stderr)
		logger.Debug("fetching health", slog.String("url", c.BaseURL()), slog.Duration("timeout", timeout))

		start := time.Now()
		err := viewer.RunPlain(ctx, stdout, c)
		logger.Debug("health fetched", slog.Duration("elapsed", time.Since(start)), slog.Bool("ok", err == nil))
		return err
	}

	return viewer.Run(ctx, c, viewer.WithStayOpen(v.GetBool("stay")), viewer.WithOutput(stdout))
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv(envPrefix+"_DEBUG") != "" {
		level = slog.LevelDebug
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, viewer.ErrUnhealthy) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
