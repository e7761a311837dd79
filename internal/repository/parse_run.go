package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/entity"
)

type ParseRunRepository interface {
	Start(ctx context.Context, sourcePath, format string, contentHash []byte) (*entity.ParseRun, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, companyCode string, itemCount int, needsReview bool, result json.RawMessage) error
	FinishFailure(ctx context.Context, id uuid.UUID, message string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ParseRun, error)
	GetLatestByHash(ctx context.Context, contentHash []byte) (*entity.ParseRun, error)
	List(ctx context.Context, limit int) ([]*entity.ParseRun, error)
}

type parseRunRepo struct {
	drv     *entsql.Driver
	builder *entsql.DialectBuilder
	log     *slog.Logger
	now     func() time.Time
}

func NewParseRunRepository(db *DB, log *slog.Logger) ParseRunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &parseRunRepo{
		drv:     db.drv,
		builder: db.Dialect.Builder(),
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

const parseRunsTable = "parse_runs"

var runColumns = []string{
	"id", "source_path", "format", "content_hash", "status", "company_code", "item_count",
	"needs_review", "error_message", "result", "created_at", "finished_at",
}

func (r *parseRunRepo) Start(ctx context.Context, sourcePath, format string, contentHash []byte) (*entity.ParseRun, error) {
	run := &entity.ParseRun{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		Format:      format,
		ContentHash: contentHash,
		Status:      string(constants.RunStatusRunning),
		CreatedAt:   r.now(),
	}
	query, args := r.builder.Insert(parseRunsTable).
		Columns("id", "source_path", "format", "content_hash", "status", "created_at").
		Values(run.ID.String(), run.SourcePath, run.Format, run.ContentHash, run.Status, run.CreatedAt).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("parse_run start failed", "source_path", sourcePath, "err", err)
		return nil, fmt.Errorf("%w: insert parse_run: %v", common.ErrDatabase, err)
	}
	r.log.Info("parse_run started", "run_id", run.ID, "source_path", sourcePath, "format", format)
	return run, nil
}

func (r *parseRunRepo) FinishSuccess(ctx context.Context, id uuid.UUID, companyCode string, itemCount int, needsReview bool, result json.RawMessage) error {
	query, args := r.builder.Update(parseRunsTable).
		Set("status", string(constants.RunStatusParsed)).
		Set("company_code", companyCode).
		Set("item_count", itemCount).
		Set("needs_review", needsReview).
		Set("result", string(result)).
		Set("finished_at", r.now()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.update(ctx, id, query, args); err != nil {
		r.log.Error("parse_run finish(PARSED) failed", "run_id", id, "err", err)
		return err
	}
	r.log.Info("parse_run finished (PARSED)", "run_id", id, "company", companyCode, "items", itemCount, "needs_review", needsReview)
	return nil
}

func (r *parseRunRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	query, args := r.builder.Update(parseRunsTable).
		Set("status", string(constants.RunStatusFailed)).
		Set("error_message", message).
		Set("finished_at", r.now()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.update(ctx, id, query, args); err != nil {
		r.log.Error("parse_run finish(FAILED) failed", "run_id", id, "err", err)
		return err
	}
	r.log.Warn("parse_run finished (FAILED)", "run_id", id, "error", message)
	return nil
}

func (r *parseRunRepo) update(ctx context.Context, id uuid.UUID, query string, args []any) error {
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("%w: update parse_run: %v", common.ErrDatabase, err)
	}
	return expectOneRow(res, id)
}

func (r *parseRunRepo) selectRuns() *entsql.Selector {
	return r.builder.Select(runColumns...).From(r.builder.Table(parseRunsTable))
}

func (r *parseRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ParseRun, error) {
	query, args := r.selectRuns().Where(entsql.EQ("id", id.String())).Query()
	return r.queryOne(ctx, query, args)
}

// GetLatestByHash returns the newest successful run over identical content.
func (r *parseRunRepo) GetLatestByHash(ctx context.Context, contentHash []byte) (*entity.ParseRun, error) {
	query, args := r.latestByHashQuery(contentHash)
	return r.queryOne(ctx, query, args)
}

func (r *parseRunRepo) latestByHashQuery(contentHash []byte) (string, []any) {
	return r.selectRuns().
		Where(entsql.And(
			entsql.EQ("content_hash", contentHash),
			entsql.EQ("status", string(constants.RunStatusParsed)),
		)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()
}

func (r *parseRunRepo) List(ctx context.Context, limit int) ([]*entity.ParseRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query, args := r.selectRuns().OrderBy(entsql.Desc("created_at")).Limit(limit).Query()
	return r.query(ctx, query, args)
}

func (r *parseRunRepo) queryOne(ctx context.Context, query string, args []any) (*entity.ParseRun, error) {
	runs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, common.NewAppError("NOT_FOUND", "parse run not found", common.ErrNotFound)
	}
	return runs[0], nil
}

func (r *parseRunRepo) query(ctx context.Context, query string, args []any) ([]*entity.ParseRun, error) {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: query parse_runs: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.ParseRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query parse_runs: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*entity.ParseRun, error) {
	var (
		run      entity.ParseRun
		id       string
		errMsg   sql.NullString
		result   sql.NullString
		finished sql.NullTime
	)
	err := s.Scan(&id, &run.SourcePath, &run.Format, &run.ContentHash, &run.Status, &run.CompanyCode,
		&run.ItemCount, &run.NeedsReview, &errMsg, &result, &run.CreatedAt, &finished)
	if err != nil {
		return nil, fmt.Errorf("%w: scan parse_run: %v", common.ErrDatabase, err)
	}
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: parse_run id %q: %v", common.ErrDatabase, id, err)
	}
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	if result.Valid && result.String != "" {
		run.Result = json.RawMessage(result.String)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

func expectOneRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return common.NewAppError("NOT_FOUND", fmt.Sprintf("parse run %s not found", id), common.ErrNotFound)
	}
	return nil
}
