package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/watchme/emotion-hume/internal/data/pgxutil"
	"github.com/watchme/emotion-hume/internal/domain/model"
	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

const (
	defaultAudioFileLimit = 100
	maxAudioFileLimit     = 10000
)

// AudioFileRepo reads recording metadata from audio_files.
type AudioFileRepo struct {
	DB *sql.DB
}

// NewAudioFileRepo creates an AudioFileRepo.
func NewAudioFileRepo(db *sql.DB) *AudioFileRepo {
	return &AudioFileRepo{DB: db}
}

const audioFileColumns = `file_path, device_id, recorded_at, duration_seconds`

// GetByPath returns the audio_files row for filePath or a not_found AppError.
func (r *AudioFileRepo) GetByPath(ctx context.Context, filePath string) (*model.AudioFile, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, apperrors.ValidationField("file_path", "file_path is required")
	}

	q := `SELECT ` + audioFileColumns + ` FROM audio_files WHERE file_path = $1`
	row, err := pgxutil.QueryOne[model.AudioFile](ctx, r.DB, q, filePath)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("audio file %s not found", filePath)
		}
		return nil, fmt.Errorf("get audio file: %w", mapped)
	}
	return row, nil
}

// List returns audio files ordered by path, optionally restricted to a path prefix.
func (r *AudioFileRepo) List(ctx context.Context, opts model.AudioFileListOptions) ([]*model.AudioFile, error) {
	limit := opts.Limit
	switch {
	case limit <= 0:
		limit = defaultAudioFileLimit
	case limit > maxAudioFileLimit:
		limit = maxAudioFileLimit
	}

	q := `SELECT ` + audioFileColumns + ` FROM audio_files`
	args := []any{}
	if opts.PathPrefix != "" {
		q += ` WHERE file_path LIKE $1 ESCAPE '\'`
		args = append(args, escapeLike(opts.PathPrefix)+"%")
	}
	q += fmt.Sprintf(` ORDER BY file_path LIMIT %d`, limit)

	rows, err := pgxutil.QueryAll[model.AudioFile](ctx, r.DB, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list audio files: %w", apperrors.MapDBError(err))
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
