package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gopkg.in/yaml.v3"

	"github.com/watchme/emotion-hume/config"
	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
	"github.com/watchme/emotion-hume/internal/mocks"
)

type processFunc func(ctx context.Context, req model.AsyncProcessRequest) model.Outcome

func (f processFunc) Process(ctx context.Context, req model.AsyncProcessRequest) model.Outcome {
	return f(ctx, req)
}

func storedFeature() *model.SpotFeature {
	status := model.ProcessingStatus("completed")
	return &model.SpotFeature{
		DeviceID:   "dev-1",
		RecordedAt: "2025-07-01T09:30:00Z",
		Result:     json.RawMessage(`{"provider":"hume","segments":[]}`),
		Status:     &status,
		UpdatedAt:  time.Date(2025, 7, 1, 9, 35, 0, 0, time.UTC),
	}
}

func TestRunShow(t *testing.T) {
	key := model.FeatureKey{DeviceID: "dev-1", RecordedAt: "2025-07-01T09:30:00Z"}

	t.Run("json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockFeatureStore(ctrl)
		store.EXPECT().GetResult(gomock.Any(), key).Return(storedFeature(), nil)

		var buf bytes.Buffer
		require.NoError(t, runShow(context.Background(), &buf, store, key, "json"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "completed", got["emotion_status"])
		assert.Equal(t, "hume", got["emotion_features_result_hume"].(map[string]any)["provider"])
	})

	t.Run("yaml", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockFeatureStore(ctrl)
		store.EXPECT().GetResult(gomock.Any(), key).Return(storedFeature(), nil)

		var buf bytes.Buffer
		require.NoError(t, runShow(context.Background(), &buf, store, key, "yaml"))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "dev-1", got["device_id"])
		assert.Equal(t, "completed", got["emotion_status"])
		assert.Contains(t, buf.String(), "provider: hume")
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockFeatureStore(ctrl)
		store.EXPECT().GetResult(gomock.Any(), key).Return(nil, apperrors.NotFoundf("spot feature missing"))

		err := runShow(context.Background(), &bytes.Buffer{}, store, key, "json")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestValidateOutputFormat(t *testing.T) {
	require.NoError(t, validateOutputFormat("json"))
	require.NoError(t, validateOutputFormat("YAML"))
	require.Error(t, validateOutputFormat("table"))
}

func TestRunAudioInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockAudioFileStore(ctrl)
	dur := 61.5
	files.EXPECT().GetByPath(gomock.Any(), "files/dev-1/a.wav").Return(&model.AudioFile{
		FilePath: "files/dev-1/a.wav", DeviceID: "dev-1", RecordedAt: "t1", DurationSeconds: &dur,
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, runAudioInfo(context.Background(), &buf, files, "files/dev-1/a.wav", "yaml"))
	assert.Contains(t, buf.String(), "file_path: files/dev-1/a.wav")
	assert.Contains(t, buf.String(), "duration_seconds: 61.5")
}

func TestRunUnlock(t *testing.T) {
	key := model.FeatureKey{DeviceID: "dev-1", RecordedAt: "t1"}

	t.Run("released", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard := mocks.NewMockKeyGuard(ctrl)
		guard.EXPECT().ForceUnlock(gomock.Any(), key).Return(true, nil)

		var buf bytes.Buffer
		require.NoError(t, runUnlock(context.Background(), &buf, guard, key))
		assert.Equal(t, "lock released: dev-1/t1\n", buf.String())
	})

	t.Run("nothing held", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard := mocks.NewMockKeyGuard(ctrl)
		guard.EXPECT().ForceUnlock(gomock.Any(), key).Return(false, nil)

		var buf bytes.Buffer
		require.NoError(t, runUnlock(context.Background(), &buf, guard, key))
		assert.Equal(t, "no lock held: dev-1/t1\n", buf.String())
	})

	t.Run("redis error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		guard := mocks.NewMockKeyGuard(ctrl)
		guard.EXPECT().ForceUnlock(gomock.Any(), key).Return(false, errors.New("connection refused"))

		require.Error(t, runUnlock(context.Background(), &bytes.Buffer{}, guard, key))
	})
}

func TestResolveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("complete request is untouched", func(t *testing.T) {
		req, err := resolveRequest(ctx, nil, model.AsyncProcessRequest{
			FilePath: " a.wav ", DeviceID: "dev-1", RecordedAt: "t1",
		})
		require.NoError(t, err)
		assert.Equal(t, "a.wav", req.FilePath)
	})

	t.Run("missing fields without database", func(t *testing.T) {
		_, err := resolveRequest(ctx, nil, model.AsyncProcessRequest{FilePath: "a.wav"})
		require.Error(t, err)
	})

	t.Run("filled from audio_files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		files := mocks.NewMockAudioFileStore(ctrl)
		files.EXPECT().GetByPath(gomock.Any(), "a.wav").
			Return(&model.AudioFile{FilePath: "a.wav", DeviceID: "dev-9", RecordedAt: "t9"}, nil)

		req, err := resolveRequest(ctx, files, model.AsyncProcessRequest{FilePath: "a.wav", DeviceID: "dev-1"})
		require.NoError(t, err)
		assert.Equal(t, "dev-1", req.DeviceID)
		assert.Equal(t, "t9", req.RecordedAt)
	})
}

func TestRunProcess(t *testing.T) {
	req := model.AsyncProcessRequest{FilePath: "a.wav", DeviceID: "dev-1", RecordedAt: "t1"}

	t.Run("completed", func(t *testing.T) {
		proc := processFunc(func(_ context.Context, got model.AsyncProcessRequest) model.Outcome {
			assert.Equal(t, req, got)
			return model.Outcome{Result: model.OutcomeCompleted, JobID: "job-1", Segments: 3, Duration: 1500 * time.Millisecond}
		})

		var buf bytes.Buffer
		require.NoError(t, runProcess(context.Background(), &buf, nil, proc, req))
		assert.Equal(t, "a.wav dev-1/t1 result=completed segments=3 duration=1.5s job_id=job-1\n", buf.String())
	})

	t.Run("failed outcome is an error", func(t *testing.T) {
		proc := processFunc(func(context.Context, model.AsyncProcessRequest) model.Outcome {
			return model.Outcome{Result: model.OutcomeFailed, Err: errors.New("job failed")}
		})

		var buf bytes.Buffer
		err := runProcess(context.Background(), &buf, nil, proc, req)
		require.Error(t, err)
		assert.Contains(t, buf.String(), `error="job failed"`)
	})
}

func TestReprocessOptionsValidate(t *testing.T) {
	valid := reprocessOptions{Match: "**/*.wav", Limit: 10, Concurrency: 2}
	require.NoError(t, valid.validate())

	bad := valid
	bad.Match = "files/[.wav"
	require.Error(t, bad.validate())

	bad = valid
	bad.Concurrency = 0
	require.Error(t, bad.validate())

	bad = valid
	bad.Limit = 0
	require.Error(t, bad.validate())
}

func TestSelectAudioFiles(t *testing.T) {
	files := []*model.AudioFile{
		{FilePath: "files/dev-1/2025-07-01/09-30/audio.wav"},
		{FilePath: "files/dev-1/2025-07-01/09-30/audio.json"},
		{FilePath: "files/dev-2/2025-08-01/10-00/audio.wav"},
	}

	got, err := selectAudioFiles(files, "files/*/2025-07-*/**/*.wav")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, files[0], got[0])

	got, err = selectAudioFiles(files, "**")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func listedFiles() []*model.AudioFile {
	return []*model.AudioFile{
		{FilePath: "files/dev-1/a.wav", DeviceID: "dev-1", RecordedAt: "t1"},
		{FilePath: "files/dev-1/b.wav", DeviceID: "dev-1", RecordedAt: "t2"},
		{FilePath: "files/dev-1/c.json", DeviceID: "dev-1", RecordedAt: "t3"},
	}
}

func TestRunReprocess_DryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockAudioFileStore(ctrl)
	files.EXPECT().List(gomock.Any(), model.AudioFileListOptions{PathPrefix: "files/dev-1/", Limit: 50}).
		Return(listedFiles(), nil)

	var buf bytes.Buffer
	err := runReprocess(context.Background(), &buf, files, nil, reprocessOptions{
		Prefix: "files/dev-1/", Match: "**/*.wav", Limit: 50, Concurrency: 1, DryRun: true,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"files/dev-1/a.wav dev-1/t1\nfiles/dev-1/b.wav dev-1/t2\n2 of 3 recordings selected\n",
		buf.String())
}

func TestRunReprocess_BoundedConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockAudioFileStore(ctrl)
	files.EXPECT().List(gomock.Any(), gomock.Any()).Return(listedFiles(), nil)

	var (
		inFlight atomic.Int32
		peak     atomic.Int32
		mu       sync.Mutex
		seen     []string
	)
	proc := processFunc(func(_ context.Context, req model.AsyncProcessRequest) model.Outcome {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		seen = append(seen, req.FilePath)
		mu.Unlock()
		return model.Outcome{Result: model.OutcomeCompleted, Segments: 1}
	})

	var buf bytes.Buffer
	err := runReprocess(context.Background(), &buf, files, proc, reprocessOptions{
		Match: "**", Limit: 100, Concurrency: 1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, peak.Load())
	assert.Len(t, seen, 3)
	assert.Contains(t, buf.String(), "completed=3 failed=0 skipped=0")
}

func TestRunReprocess_ReportsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	files := mocks.NewMockAudioFileStore(ctrl)
	files.EXPECT().List(gomock.Any(), gomock.Any()).Return(listedFiles(), nil)

	proc := processFunc(func(_ context.Context, req model.AsyncProcessRequest) model.Outcome {
		switch req.RecordedAt {
		case "t1":
			return model.Outcome{Result: model.OutcomeFailed, Err: errors.New("boom")}
		case "t2":
			return model.Outcome{Result: model.OutcomeSkipped}
		default:
			return model.Outcome{Result: model.OutcomeCompleted}
		}
	})

	var buf bytes.Buffer
	err := runReprocess(context.Background(), &buf, files, proc, reprocessOptions{
		Match: "**", Limit: 100, Concurrency: 3,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 recordings failed")
	assert.Contains(t, buf.String(), "completed=1 failed=1 skipped=1")
}

func TestRootCommand_RejectsBadOutputBeforeConnecting(t *testing.T) {
	a := &app{
		out:        &bytes.Buffer{},
		loadConfig: func() (config.AppConfig, error) { return config.AppConfig{LogLevel: "error"}, nil },
	}
	root := newRootCmd(a)
	root.SetArgs([]string{"show", "--device", "dev-1", "--recorded-at", "t1", "--output", "table"})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestRootCommand_ConfigError(t *testing.T) {
	a := &app{
		out:        &bytes.Buffer{},
		loadConfig: func() (config.AppConfig, error) { return config.AppConfig{}, errors.New("bad env") },
	}
	root := newRootCmd(a)
	root.SetArgs([]string{"migrate"})
	root.SetErr(&bytes.Buffer{})

	require.EqualError(t, root.ExecuteContext(context.Background()), "bad env")
}
