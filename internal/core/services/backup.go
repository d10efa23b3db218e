package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/fsutil"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// BackupFormatVersion identifies the JSON lines layout written by Export.
const BackupFormatVersion = "1"

// maxBackupLine bounds a single record line on import.
const maxBackupLine = 16 << 20

// Ensure BackupService implements the interface.
var _ driving.BackupService = (*BackupService)(nil)

// BackupService exports and imports the prompt store as JSON lines.
// The first line is a header object under the reserved "_meta" key.
type BackupService struct {
	store driven.PromptStore
	now   func() time.Time
}

// NewBackupService creates a new backup service.
func NewBackupService(store driven.PromptStore) *BackupService {
	return &BackupService{store: store, now: time.Now}
}

// Export writes every prompt to path through a temporary file and a rename,
// then records the export time as the store's data version.
func (s *BackupService) Export(ctx context.Context, path string) (int, error) {
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}

	prompts, err := s.store.List(ctx, domain.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("reading prompts: %w", err)
	}

	exportedAt := s.now().UTC().Format(time.RFC3339)
	header := domain.BackupMeta{
		Version:       BackupFormatVersion,
		Count:         len(prompts),
		ExportedAt:    exportedAt,
		SchemaVersion: s.schemaVersion(ctx),
	}

	err = fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(header); err != nil {
			return err
		}
		for i := range prompts {
			if err := enc.Encode(&prompts[i]); err != nil {
				return fmt.Errorf("encoding prompt %q: %w", prompts[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("exporting backup to %s: %w", path, err)
	}

	if err := s.store.SetMeta(ctx, domain.MetaDataVersion, exportedAt); err != nil {
		return 0, err
	}
	logger.Debug("exported %d prompts to %s", len(prompts), path)
	return len(prompts), nil
}

// Import reads a backup and applies every record in one transaction.
// A leading header line is informational and skipped. Any malformed record
// aborts the whole import.
func (s *BackupService) Import(ctx context.Context, path string) (int, error) {
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()

	prompts, err := decodeBackup(f, path)
	if err != nil {
		return 0, err
	}

	if err := s.store.BulkUpsert(ctx, prompts); err != nil {
		return 0, fmt.Errorf("importing %d prompts: %w", len(prompts), err)
	}
	logger.Debug("imported %d prompts from %s", len(prompts), path)
	return len(prompts), nil
}

func decodeBackup(r io.Reader, path string) ([]domain.Prompt, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxBackupLine)

	var (
		prompts   []domain.Prompt
		line      int
		seenFirst bool
	)
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		if !seenFirst {
			seenFirst = true
			if meta, ok := parseBackupHeader(raw); ok {
				logger.Debug("backup header: version %s, %d prompts, exported %s",
					meta.Version, meta.Count, meta.ExportedAt)
				continue
			}
		}

		var p domain.Prompt
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.ImportParseError{Path: path, Line: line, Err: err}
		}
		if err := p.Validate(); err != nil {
			return nil, &domain.ImportParseError{Path: path, Line: line, Err: err}
		}
		prompts = append(prompts, p)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &domain.ImportParseError{Path: path, Line: line + 1, Err: err}
		}
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	return prompts, nil
}

// parseBackupHeader recognises a line carrying the reserved "_meta" key.
func parseBackupHeader(raw []byte) (domain.BackupMeta, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.BackupMeta{}, false
	}
	if _, ok := probe["_meta"]; !ok {
		return domain.BackupMeta{}, false
	}
	var meta domain.BackupMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		logger.Debug("ignoring unreadable backup header: %v", err)
	}
	return meta, true
}

func (s *BackupService) schemaVersion(ctx context.Context) int {
	value, ok, err := s.store.GetMeta(ctx, domain.MetaSchemaVersion)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
