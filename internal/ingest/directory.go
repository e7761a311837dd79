package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
)

type FileResult struct {
	Path        string
	RunID       uuid.UUID
	Reused      bool
	Items       int
	NeedsReview bool
	Err         string
}

type DirStats struct {
	Scanned     uint32
	Matched     uint32
	Succeeded   uint32
	Reused      uint32
	NeedsReview uint32
	Failed      uint32
}

// ProcessDirectory walks root and processes every file with an allowed
// extension. Per-file failures are recorded and the walk continues.
func ProcessDirectory(ctx context.Context, proc pipeline.FileProcessor, root string, skipHidden, force bool, logger *slog.Logger) ([]FileResult, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, common.NewAppError("INVALID_INPUT", "root path is required", common.ErrInvalidInput)
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowedPath(path) {
			return nil
		}
		stats.Matched++

		out, err := proc.ProcessFile(ctx, path, force)
		if err != nil {
			logger.Warn("ingest.file_failed", "path", path, "error", err)
			results = append(results, FileResult{Path: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, FileResult{
			Path:        path,
			RunID:       out.RunID,
			Reused:      out.Reused,
			Items:       len(out.Result.Items),
			NeedsReview: out.NeedsReview,
		})
		stats.Succeeded++
		if out.Reused {
			stats.Reused++
		}
		if out.NeedsReview {
			stats.NeedsReview++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	logger.Info("ingest.directory_done", "root", root,
		"matched", stats.Matched, "succeeded", stats.Succeeded, "failed", stats.Failed)
	return results, stats, nil
}

// Walk lists the files under root with an allowed extension, in lexical order.
func Walk(root string, skipHidden bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && allowedPath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return paths, fmt.Errorf("walk: %w", err)
	}
	return paths, nil
}
