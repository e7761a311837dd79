package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/parser"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
	"github.com/joseph-ayodele/po-extract/internal/repository"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "poextract.v1.ExtractionService"

type BytesProcessor interface {
	ProcessBytes(ctx context.Context, name string, data []byte) (pipeline.Outcome, error)
}

// ExtractionService exposes the engine and the processor over gRPC. Requests
// and responses are protobuf well-known types so no generated code is needed.
type ExtractionService struct {
	engine   *parser.Engine
	proc     BytesProcessor
	runs     repository.ParseRunRepository // optional; GetRun is unavailable without it
	maxBytes int64
	logger   *slog.Logger
}

func NewExtractionService(engine *parser.Engine, proc BytesProcessor, runs repository.ParseRunRepository, maxBytes int64, logger *slog.Logger) *ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = parser.NewEngine(logger)
	}
	return &ExtractionService{engine: engine, proc: proc, runs: runs, maxBytes: maxBytes, logger: logger}
}

// ParseText runs the text path of the engine over the request string.
func (s *ExtractionService) ParseText(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	content := req.GetValue()
	v := common.NewValidator().Field("value", content, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("parse text request invalid", "error", err)
		return nil, err
	}

	start := time.Now()
	res := s.engine.ParseText(content)
	s.logger.Info("parse text completed",
		"request_id", common.RequestIDFromContext(ctx),
		"company", res.Header.CompanyCode,
		"items", len(res.Items),
		"elapsed_ms", time.Since(start).Milliseconds())
	return toStruct(res)
}

// ParseFile decodes {filename, content_base64} and runs the full pipeline.
func (s *ExtractionService) ParseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	filename := strings.TrimSpace(fields["filename"].GetStringValue())
	encoded := fields["content_base64"].GetStringValue()

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.logger.Error("parse file content is not base64", "filename", filename, "error", err)
		return nil, common.InvalidArgumentError("content_base64 must be base64 encoded")
	}

	v := common.NewValidator().
		Field("filename", filename, common.Required).
		Field("content_base64", data, common.Required)
	if s.maxBytes > 0 {
		v.Field("content_base64", data, common.MaxBytes(s.maxBytes))
	}
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("parse file request invalid", "filename", filename, "error", err)
		return nil, err
	}

	out, err := s.proc.ProcessBytes(ctx, filename, data)
	if err != nil {
		s.logger.Error("parse file failed", "filename", filename, "run_id", out.RunID, "error", err)
		return nil, common.ToStatus(err)
	}

	payload := map[string]any{
		"format":         string(out.Format),
		"needs_review":   out.NeedsReview,
		"review_reasons": nonNil(out.ReviewReasons),
		"result":         out.Result,
	}
	if out.RunID != uuid.Nil {
		payload["run_id"] = out.RunID.String()
	}
	return toStruct(payload)
}

// GetRun returns a stored parse run by id.
func (s *ExtractionService) GetRun(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.runs == nil {
		return nil, status.Error(codes.Unimplemented, "parse runs are not persisted")
	}
	id := strings.TrimSpace(req.GetValue())
	v := common.NewValidator().Field("value", id, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	run, err := s.runs.GetByID(ctx, uuid.MustParse(id))
	if err != nil {
		s.logger.Error("get run failed", "run_id", id, "error", err)
		return nil, common.ToStatus(err)
	}
	return toStruct(runView(run))
}

func runView(run *entity.ParseRun) map[string]any {
	view := map[string]any{
		"id":           run.ID.String(),
		"source_path":  run.SourcePath,
		"format":       run.Format,
		"status":       run.Status,
		"company_code": run.CompanyCode,
		"item_count":   run.ItemCount,
		"needs_review": run.NeedsReview,
		"created_at":   run.CreatedAt.UTC().Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		view["finished_at"] = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	if run.ErrorMessage != nil {
		view["error_message"] = *run.ErrorMessage
	}
	if len(run.Result) > 0 {
		view["result"] = run.Result
	}
	return view
}

// toStruct goes through JSON so decimals keep their string form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Register attaches the service to a gRPC server.
func (s *ExtractionService) Register(reg grpc.ServiceRegistrar) {
	reg.RegisterService(&serviceDesc, s)
}
