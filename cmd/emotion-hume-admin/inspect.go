package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchme/emotion-hume/internal/core"
	"github.com/watchme/emotion-hume/internal/data"
	"github.com/watchme/emotion-hume/internal/domain/model"
	"github.com/watchme/emotion-hume/internal/migrate"
)

func newMigrateCmd(a *app) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded spot_features and audio_files schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			infra := a.connect(ctx)
			defer a.closeInfra(infra)
			db, err := infra.RequireDB("migrate")
			if err != nil {
				return err
			}

			if !statusOnly {
				if err := migrate.Run(ctx, db); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
			}
			status, err := migrate.Status(ctx, db)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			return printMigrations(a.out, status)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only report which migrations are applied")
	return cmd
}

func printMigrations(w io.Writer, status []migrate.Migration) error {
	for _, m := range status {
		state := "pending"
		if m.Applied {
			state = "applied"
		}
		if _, err := fmt.Fprintf(w, "%-40s %s\n", m.Version, state); err != nil {
			return err
		}
	}
	return nil
}

type featureReader interface {
	GetResult(ctx context.Context, key model.FeatureKey) (*model.SpotFeature, error)
}

type showOutput struct {
	DeviceID   string    `json:"device_id"                              yaml:"device_id"`
	RecordedAt string    `json:"recorded_at"                            yaml:"recorded_at"`
	Status     string    `json:"emotion_status"                         yaml:"emotion_status"`
	Result     any       `json:"emotion_features_result_hume,omitempty" yaml:"emotion_features_result_hume,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"                             yaml:"updated_at"`
}

func newShowCmd(a *app) *cobra.Command {
	var (
		key    model.FeatureKey
		output string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored emotion result and status for one recording",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutputFormat(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			infra := a.connect(ctx)
			defer a.closeInfra(infra)
			db, err := infra.RequireDB("show")
			if err != nil {
				return err
			}
			return runShow(ctx, a.out, data.NewSpotFeatureRepo(db), key, output)
		},
	}
	addKeyFlags(cmd, &key)
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or yaml")
	return cmd
}

func runShow(ctx context.Context, w io.Writer, store featureReader, key model.FeatureKey, format string) error {
	row, err := store.GetResult(ctx, key)
	if err != nil {
		return err
	}
	result, err := decodeRaw(row.Result)
	if err != nil {
		return err
	}

	out := showOutput{
		DeviceID:   row.DeviceID,
		RecordedAt: row.RecordedAt,
		Result:     result,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Status != nil {
		out.Status = string(*row.Status)
	}
	return writeOutput(w, format, out)
}

func newAudioInfoCmd(a *app) *cobra.Command {
	var (
		path   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "audio-info",
		Short: "Print the audio_files row for a stored recording",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateOutputFormat(output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			infra := a.connect(ctx)
			defer a.closeInfra(infra)
			db, err := infra.RequireDB("audio-info")
			if err != nil {
				return err
			}
			return runAudioInfo(ctx, a.out, data.NewAudioFileRepo(db), path, output)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "S3 object key of the recording")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or yaml")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func runAudioInfo(ctx context.Context, w io.Writer, files core.AudioFileStore, path, format string) error {
	file, err := files.GetByPath(ctx, path)
	if err != nil {
		return err
	}
	return writeOutput(w, format, audioInfoOutput{
		FilePath:        file.FilePath,
		DeviceID:        file.DeviceID,
		RecordedAt:      file.RecordedAt,
		DurationSeconds: file.DurationSeconds,
	})
}

type audioInfoOutput struct {
	FilePath        string   `json:"file_path"                  yaml:"file_path"`
	DeviceID        string   `json:"device_id"                  yaml:"device_id"`
	RecordedAt      string   `json:"recorded_at"                yaml:"recorded_at"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

func newUnlockCmd(a *app) *cobra.Command {
	var key model.FeatureKey
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Drop a stale per-recording analysis lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			infra := a.connect(ctx)
			defer a.closeInfra(infra)
			if infra.Redis == nil {
				return fmt.Errorf("unlock requires redis (set REDIS_ENABLED=true)")
			}
			return runUnlock(ctx, a.out, data.NewRedisKeyGuard(infra.Redis, a.cfg.Redis.LockPrefix), key)
		},
	}
	addKeyFlags(cmd, &key)
	return cmd
}

func runUnlock(ctx context.Context, w io.Writer, guard core.KeyGuard, key model.FeatureKey) error {
	released, err := guard.ForceUnlock(ctx, key)
	if err != nil {
		return fmt.Errorf("unlock %s/%s: %w", key.DeviceID, key.RecordedAt, err)
	}
	msg := "no lock held"
	if released {
		msg = "lock released"
	}
	_, err = fmt.Fprintf(w, "%s: %s/%s\n", msg, key.DeviceID, key.RecordedAt)
	return err
}

func addKeyFlags(cmd *cobra.Command, key *model.FeatureKey) {
	cmd.Flags().StringVar(&key.DeviceID, "device", "", "Device id")
	cmd.Flags().StringVar(&key.RecordedAt, "recorded-at", "", "Recording timestamp as stored in spot_features")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("recorded-at")
}
