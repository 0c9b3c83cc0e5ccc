package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchme/emotion-hume/config"
	"github.com/watchme/emotion-hume/internal/bootstrap"
)

// app carries state shared by every subcommand.
type app struct {
	out    io.Writer
	logger *slog.Logger
	cfg    config.AppConfig

	loadConfig func() (config.AppConfig, error)
}

func main() {
	a := &app{out: os.Stdout, loadConfig: bootstrap.LoadConfig}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		if a.logger != nil {
			a.logger.Error("command failed", "error", err)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "emotion-hume-admin",
		Short:         "Operate the emotion-hume datastore and analysis pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = bootstrap.InitLogger(cfg.LogLevel, cfg.IsDev)
			cmd.SetOut(a.out)
			return nil
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newShowCmd(a),
		newAudioInfoCmd(a),
		newProcessCmd(a),
		newReprocessCmd(a),
		newUnlockCmd(a),
	)
	return root
}

// connect opens the backends enabled in config. Callers must Close the result.
func (a *app) connect(ctx context.Context) bootstrap.Infra {
	return bootstrap.ConnectInfra(ctx, &a.cfg, a.logger)
}

func (a *app) closeInfra(infra bootstrap.Infra) {
	if err := infra.Close(); err != nil {
		a.logger.Warn("close infrastructure failed", "error", err)
	}
}
