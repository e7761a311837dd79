package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/extract"
	"github.com/joseph-ayodele/po-extract/internal/parser"
	"github.com/joseph-ayodele/po-extract/internal/repository"
)

// Outcome describes one processed document.
type Outcome struct {
	RunID         uuid.UUID // uuid.Nil when runs are not persisted
	SourcePath    string
	Format        constants.Format
	Result        entity.ParseResult
	NeedsReview   bool
	ReviewReasons []string
	Reused        bool // result loaded from an earlier run over identical content
}

// Processor coordinates text/grid extraction, parsing and run bookkeeping.
type Processor struct {
	Logger       *slog.Logger
	Extract      *ExtractStage
	Parse        *ParseStage
	Runs         repository.ParseRunRepository // optional
	MaxFileBytes int64
}

func NewProcessor(logger *slog.Logger, ex *ExtractStage, parse *ParseStage, runs repository.ParseRunRepository, maxFileBytes int64) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extract: ex, Parse: parse, Runs: runs, MaxFileBytes: maxFileBytes}
}

// ProcessFile reads path and processes it. Unless force is set, a file whose
// content already has a successful run reuses that run's result.
func (p *Processor) ProcessFile(ctx context.Context, path string, force bool) (Outcome, error) {
	data, err := p.readFile(path)
	if err != nil {
		return Outcome{SourcePath: path}, err
	}

	if !force && p.Runs != nil {
		hash := contentHash(data)
		prev, err := p.Runs.GetLatestByHash(ctx, hash)
		switch {
		case err == nil:
			out, derr := outcomeFromRun(prev)
			if derr == nil {
				p.Logger.Info("processor.reuse", "path", path, "run_id", prev.ID, "hash", hex.EncodeToString(hash))
				return out, nil
			}
			p.Logger.Warn("stored result unreadable; reprocessing", "run_id", prev.ID, "error", derr)
		case !errors.Is(err, common.ErrNotFound):
			return Outcome{SourcePath: path}, err
		}
	}
	return p.ProcessBytes(ctx, path, data)
}

// ProcessBytes processes a document already in memory. name supplies the
// extension that selects the format.
func (p *Processor) ProcessBytes(ctx context.Context, name string, data []byte) (Outcome, error) {
	out := Outcome{SourcePath: name, Format: constants.MapExtToFormat(filepath.Ext(name))}
	if out.Format == constants.OTHER {
		return out, common.NewAppError("UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported file type %q", filepath.Ext(name)), common.ErrUnsupportedFormat)
	}
	if p.MaxFileBytes > 0 && int64(len(data)) > p.MaxFileBytes {
		return out, common.NewAppError("FILE_TOO_LARGE", fmt.Sprintf("%d bytes exceeds limit %d", len(data), p.MaxFileBytes), common.ErrInvalidInput)
	}

	var run *entity.ParseRun
	if p.Runs != nil {
		var err error
		if run, err = p.Runs.Start(ctx, name, string(out.Format), contentHash(data)); err != nil {
			return out, common.WrapError(err, "start parse run")
		}
		out.RunID = run.ID
	}
	fail := func(err error) (Outcome, error) {
		if run != nil {
			bctx, cancel := bookkeepingContext(ctx)
			defer cancel()
			if ferr := p.Runs.FinishFailure(bctx, run.ID, err.Error()); ferr != nil {
				p.Logger.Error("processor.finish_failure", "run_id", run.ID, "err", ferr)
			}
		}
		return out, err
	}

	doc, err := p.Extract.Run(ctx, out.Format, data)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "path", name, "format", out.Format, "err", err)
		return fail(err)
	}

	parsed, err := p.Parse.Run(doc)
	if err != nil {
		p.Logger.Error("processor.parse.failed", "path", name, "err", err)
		return fail(err)
	}
	out.Result = parsed.Result
	out.NeedsReview = parsed.NeedsReview()
	out.ReviewReasons = parsed.ReviewReasons

	if run != nil {
		bctx, cancel := bookkeepingContext(ctx)
		defer cancel()
		if err := p.Runs.FinishSuccess(bctx, run.ID, parsed.Result.Header.CompanyCode, len(parsed.Result.Items), out.NeedsReview, parsed.JSON); err != nil {
			return out, common.WrapError(err, "finish parse run")
		}
	}
	p.Logger.Info("processor.parse.ok",
		"path", name,
		"run_id", out.RunID,
		"company", parsed.Result.Header.CompanyCode,
		"items", len(parsed.Result.Items),
		"needs_review", out.NeedsReview,
	)
	return out, nil
}

// runWriteTimeout bounds the final run update, which must land even when the
// caller's deadline has already passed.
const runWriteTimeout = 5 * time.Second

func bookkeepingContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), runWriteTimeout)
}

func (p *Processor) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewAppError("READ_FAILED", "open file", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	defer f.Close()

	var r io.Reader = f
	if p.MaxFileBytes > 0 {
		// One byte over the limit is enough for ProcessBytes to reject it.
		r = io.LimitReader(f, p.MaxFileBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewAppError("READ_FAILED", "read file", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return data, nil
}

func contentHash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func outcomeFromRun(run *entity.ParseRun) (Outcome, error) {
	out := Outcome{
		RunID:       run.ID,
		SourcePath:  run.SourcePath,
		Format:      constants.Format(run.Format),
		NeedsReview: run.NeedsReview,
		Reused:      true,
	}
	if err := json.Unmarshal(run.Result, &out.Result); err != nil {
		return out, fmt.Errorf("decode stored result: %w", err)
	}
	if out.Result.Items == nil {
		out.Result.Items = []entity.LineItem{}
	}
	return out, nil
}

// FileProcessor is what background workers and directory scans depend on.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string, force bool) (Outcome, error)
}

// FromConfig wires a Processor from application config. runs may be nil.
func FromConfig(cfg *common.Config, runs repository.ParseRunRepository, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	set, err := extract.NewSet(cfg.Extract, extract.ExecRunner{Logger: logger}, logger)
	if err != nil {
		return nil, err
	}
	ex := NewExtractStage(set, logger)
	ex.Timeout = cfg.Extract.Timeout
	return NewProcessor(logger, ex, NewParseStage(parser.NewEngine(logger), logger), runs, cfg.Extract.MaxFileBytes), nil
}
