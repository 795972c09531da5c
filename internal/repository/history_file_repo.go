package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/models"
)

const maxHistoryLineBytes = 4 << 20

type fileHistoryRepository struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewFileHistoryRepository stores history as JSON lines in the file at path.
func NewFileHistoryRepository(path string, logger zerolog.Logger) HistoryRepository {
	return &fileHistoryRepository{
		path:   path,
		logger: logger.With().Str("component", "history_file_repo").Logger(),
	}
}

func (r *fileHistoryRepository) Append(_ context.Context, record models.EvaluationRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode history record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(line); err != nil {
		return fmt.Errorf("write history record: %w", err)
	}
	return nil
}

func (r *fileHistoryRepository) List(_ context.Context) ([]models.EvaluationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Info().Str("path", r.path).Msg("history file not found, returning empty history")
			return []models.EvaluationRecord{}, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	records := make([]models.EvaluationRecord, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxHistoryLineBytes)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record models.EvaluationRecord
		if err := json.Unmarshal(line, &record); err != nil {
			r.logger.Warn().
				Err(err).
				Int("line", lineNumber).
				Int("line_length", len(line)).
				Msg("skipping corrupted history line")
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records, nil
}

func (r *fileHistoryRepository) Clear(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove history file: %w", err)
	}
	return true, nil
}
