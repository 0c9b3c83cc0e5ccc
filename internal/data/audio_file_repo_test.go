package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
	"github.com/watchme/emotion-hume/internal/testutil"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `files/dev\_1/50\%/a\\b`, escapeLike(`files/dev_1/50%/a\b`))
	assert.Equal(t, "plain/path", escapeLike("plain/path"))
}

func TestAudioFileRepo_GetByPath_RequiresPath(t *testing.T) {
	repo := NewAudioFileRepo(nil)
	_, err := repo.GetByPath(context.Background(), " ")
	require.Error(t, err)
	assert.Equal(t, "file_path", apperrors.GetField(err))
}

func TestAudioFileRepo_Integration(t *testing.T) {
	db := testutil.SetupAutoDB(t)
	repo := NewAudioFileRepo(db)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO audio_files (file_path, device_id, recorded_at, duration_seconds) VALUES
			('files/dev-1/2025-07-01/09-30/audio.wav', 'dev-1', '2025-07-01T09:30:00Z', 58.5),
			('files/dev-1/2025-07-01/10-00/audio.wav', 'dev-1', '2025-07-01T10:00:00Z', NULL),
			('files/dev_2/2025-07-01/09-30/audio.wav', 'dev_2', '2025-07-01T09:30:00Z', 60)`)
	require.NoError(t, err)

	t.Run("get by path", func(t *testing.T) {
		got, err := repo.GetByPath(ctx, "files/dev-1/2025-07-01/09-30/audio.wav")
		require.NoError(t, err)
		assert.Equal(t, "dev-1", got.DeviceID)
		assert.Equal(t, "2025-07-01T09:30:00Z", got.RecordedAt)
		require.NotNil(t, got.DurationSeconds)
		assert.InDelta(t, 58.5, *got.DurationSeconds, 1e-9)
	})

	t.Run("null duration", func(t *testing.T) {
		got, err := repo.GetByPath(ctx, "files/dev-1/2025-07-01/10-00/audio.wav")
		require.NoError(t, err)
		assert.Nil(t, got.DurationSeconds)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := repo.GetByPath(ctx, "files/none.wav")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("list by prefix", func(t *testing.T) {
		got, err := repo.List(ctx, model.AudioFileListOptions{PathPrefix: "files/dev-1/"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "files/dev-1/2025-07-01/09-30/audio.wav", got[0].FilePath)
	})

	t.Run("underscore in prefix is literal", func(t *testing.T) {
		got, err := repo.List(ctx, model.AudioFileListOptions{PathPrefix: "files/dev_"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "dev_2", got[0].DeviceID)
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.List(ctx, model.AudioFileListOptions{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
