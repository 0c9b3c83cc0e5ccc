package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/watchme/emotion-hume/internal/bootstrap"
	"github.com/watchme/emotion-hume/internal/core"
	"github.com/watchme/emotion-hume/internal/data"
	"github.com/watchme/emotion-hume/internal/domain/model"
)

// processor runs one orchestration to completion.
type processor interface {
	Process(ctx context.Context, req model.AsyncProcessRequest) model.Outcome
}

// withAnalysis builds the analysis service on the enabled backends and hands it to fn.
func (a *app) withAnalysis(ctx context.Context, fn func(bootstrap.Infra, processor) error) error {
	infra := a.connect(ctx)
	defer a.closeInfra(infra)

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &a.cfg,
		DB:          infra.DB,
		RedisClient: infra.Redis,
		AWS:         infra.AWS,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()

	if !services.Analysis.Ready() {
		return errors.New("hume client not configured (set HUME_API_KEY)")
	}
	return fn(infra, services.Analysis)
}

// audioFilesFor returns nil without a database so callers can fall back to flags.
//
//nolint:ireturn // callers depend on the port, not the repo.
func audioFilesFor(infra bootstrap.Infra) core.AudioFileStore {
	if infra.DB == nil {
		return nil
	}
	return data.NewAudioFileRepo(infra.DB)
}

func newProcessCmd(a *app) *cobra.Command {
	var req model.AsyncProcessRequest
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run one emotion analysis synchronously",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withAnalysis(cmd.Context(), func(infra bootstrap.Infra, proc processor) error {
				return runProcess(cmd.Context(), a.out, audioFilesFor(infra), proc, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.FilePath, "path", "", "S3 object key of the recording")
	cmd.Flags().StringVar(&req.DeviceID, "device", "", "Device id (resolved from audio_files when omitted)")
	cmd.Flags().StringVar(&req.RecordedAt, "recorded-at", "", "Recording timestamp (resolved from audio_files when omitted)")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

// resolveRequest fills a missing device id or timestamp from the audio_files row.
func resolveRequest(ctx context.Context, files core.AudioFileStore, req model.AsyncProcessRequest) (model.AsyncProcessRequest, error) {
	req.Normalize()
	if req.DeviceID != "" && req.RecordedAt != "" {
		return req, nil
	}
	if files == nil {
		return req, errors.New("--device and --recorded-at are required without a database")
	}
	file, err := files.GetByPath(ctx, req.FilePath)
	if err != nil {
		return req, fmt.Errorf("resolve %s: %w", req.FilePath, err)
	}
	if req.DeviceID == "" {
		req.DeviceID = file.DeviceID
	}
	if req.RecordedAt == "" {
		req.RecordedAt = file.RecordedAt
	}
	return req, nil
}

func runProcess(
	ctx context.Context,
	w io.Writer,
	files core.AudioFileStore,
	proc processor,
	req model.AsyncProcessRequest,
) error {
	req, err := resolveRequest(ctx, files, req)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	outcome := proc.Process(ctx, req)
	if err := printOutcome(w, req, outcome); err != nil {
		return err
	}
	if outcome.Result == model.OutcomeFailed {
		return fmt.Errorf("analysis failed: %w", outcome.Err)
	}
	return nil
}

func printOutcome(w io.Writer, req model.AsyncProcessRequest, o model.Outcome) error {
	line := fmt.Sprintf("%s %s/%s result=%s segments=%d duration=%s",
		req.FilePath, req.DeviceID, req.RecordedAt, o.Result, o.Segments, o.Duration.Round(time.Millisecond))
	if o.JobID != "" {
		line += " job_id=" + o.JobID
	}
	if o.Err != nil {
		line += fmt.Sprintf(" error=%q", o.Err.Error())
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

type reprocessOptions struct {
	Prefix      string
	Match       string
	Limit       int
	Concurrency int
	DryRun      bool
}

func (o reprocessOptions) validate() error {
	if !doublestar.ValidatePattern(o.Match) {
		return fmt.Errorf("invalid --match pattern %q", o.Match)
	}
	if o.Concurrency < 1 {
		return errors.New("--concurrency must be at least 1")
	}
	if o.Limit < 1 {
		return errors.New("--limit must be at least 1")
	}
	return nil
}

func newReprocessCmd(a *app) *cobra.Command {
	opts := reprocessOptions{}
	cmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Re-run emotion analysis for recordings listed in audio_files",
		Long: `Re-run emotion analysis for recordings listed in audio_files.

Recordings are selected by path prefix, then filtered with a doublestar glob
(for example 'files/*/2025-07-*/**/*.wav'). Use --dry-run to list the selection.
`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if opts.DryRun {
				infra := a.connect(ctx)
				defer a.closeInfra(infra)
				if _, err := infra.RequireDB("reprocess"); err != nil {
					return err
				}
				return runReprocess(ctx, a.out, audioFilesFor(infra), nil, opts)
			}
			return a.withAnalysis(ctx, func(infra bootstrap.Infra, proc processor) error {
				if _, err := infra.RequireDB("reprocess"); err != nil {
					return err
				}
				return runReprocess(ctx, a.out, audioFilesFor(infra), proc, opts)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Only consider file paths starting with this prefix")
	cmd.Flags().StringVar(&opts.Match, "match", "**", "Doublestar glob the file path must match")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "Maximum number of audio_files rows to consider")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 2, "Maximum concurrent analyses")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "List matching recordings without analysing them")
	return cmd
}

func selectAudioFiles(files []*model.AudioFile, pattern string) ([]*model.AudioFile, error) {
	selected := make([]*model.AudioFile, 0, len(files))
	for _, f := range files {
		ok, err := doublestar.Match(pattern, f.FilePath)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

type reprocessSummary struct {
	mu        sync.Mutex
	completed int
	failed    int
	skipped   int
}

func (s *reprocessSummary) add(r model.OutcomeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch r {
	case model.OutcomeCompleted:
		s.completed++
	case model.OutcomeFailed:
		s.failed++
	case model.OutcomeSkipped:
		s.skipped++
	}
}

func runReprocess(
	ctx context.Context,
	w io.Writer,
	files core.AudioFileStore,
	proc processor,
	opts reprocessOptions,
) error {
	listed, err := files.List(ctx, model.AudioFileListOptions{PathPrefix: opts.Prefix, Limit: opts.Limit})
	if err != nil {
		return err
	}
	selected, err := selectAudioFiles(listed, opts.Match)
	if err != nil {
		return err
	}

	if opts.DryRun || proc == nil {
		for _, f := range selected {
			if _, err := fmt.Fprintf(w, "%s %s/%s\n", f.FilePath, f.DeviceID, f.RecordedAt); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%d of %d recordings selected\n", len(selected), len(listed))
		return err
	}

	var (
		summary reprocessSummary
		outMu   sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, f := range selected {
		req := model.AsyncProcessRequest{FilePath: f.FilePath, DeviceID: f.DeviceID, RecordedAt: f.RecordedAt}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := proc.Process(gctx, req)
			summary.add(outcome.Result)

			outMu.Lock()
			defer outMu.Unlock()
			return printOutcome(w, req, outcome)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "completed=%d failed=%d skipped=%d\n",
		summary.completed, summary.failed, summary.skipped); err != nil {
		return err
	}
	if summary.failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", summary.failed, len(selected))
	}
	return nil
}
