package server

import (
	"context"
	"encoding/base64"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/extract"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
	"github.com/joseph-ayodele/po-extract/internal/repository"
)

const samplePO = "SIDEL INDIA PVT LTD\nPO Number: 4500012345\nDate: 01-Jan-24\n" +
	"Item   Description   Qty   Unit   Rate\n" +
	"100234   Bracket Assembly   12   NOS   150\n"

func newService(t *testing.T, withRuns bool) *ExtractionService {
	t.Helper()
	set, err := extract.NewSet(common.ExtractConfig{PDFBackend: common.PDFBackendNative}, nil, nil)
	require.NoError(t, err)

	var runs repository.ParseRunRepository
	if withRuns {
		db, err := repository.Open(context.Background(), repository.Config{DSN: "sqlite://:memory:"}, nil)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close(nil) })
		require.NoError(t, db.Migrate(context.Background()))
		runs = repository.NewParseRunRepository(db, nil)
	}
	proc := pipeline.NewProcessor(nil, pipeline.NewExtractStage(set, nil), pipeline.NewParseStage(nil, nil), runs, 1<<20)
	return NewExtractionService(nil, proc, runs, 1<<20, nil)
}

func dial(t *testing.T, svc *ExtractionService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(svc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func fileRequest(t *testing.T, name string, data []byte) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(map[string]any{
		"filename":       name,
		"content_base64": base64.StdEncoding.EncodeToString(data),
	})
	require.NoError(t, err)
	return req
}

func TestParseText(t *testing.T) {
	svc := newService(t, false)

	out, err := svc.ParseText(context.Background(), wrapperspb.String(samplePO))
	require.NoError(t, err)

	header := out.Fields["header"].GetStructValue().AsMap()
	assert.Equal(t, "4500012345", header["poNumber"])
	assert.Equal(t, "SIDEL", header["companyCode"])

	items := out.Fields["items"].GetListValue().AsSlice()
	require.NotEmpty(t, items)
	first := items[0].(map[string]any)
	assert.IsType(t, "", first["quantity"], "decimals travel as strings")
}

func TestParseText_Empty(t *testing.T) {
	_, err := newService(t, false).ParseText(context.Background(), wrapperspb.String("  "))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestParseFile_PersistsAndGetRun(t *testing.T) {
	svc := newService(t, true)
	ctx := context.Background()

	out, err := svc.ParseFile(ctx, fileRequest(t, "po.txt", []byte(samplePO)))
	require.NoError(t, err)
	assert.Equal(t, "TEXT", out.Fields["format"].GetStringValue())
	assert.False(t, out.Fields["needs_review"].GetBoolValue())
	runID := out.Fields["run_id"].GetStringValue()
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	run, err := svc.GetRun(ctx, wrapperspb.String(runID))
	require.NoError(t, err)
	assert.Equal(t, "PARSED", run.Fields["status"].GetStringValue())
	assert.Equal(t, "SIDEL", run.Fields["company_code"].GetStringValue())
	assert.NotNil(t, run.Fields["result"].GetStructValue())
}

func TestParseFile_Errors(t *testing.T) {
	svc := newService(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *structpb.Struct
		code codes.Code
	}{
		{"missing filename", fileRequest(t, "", []byte("x")), codes.InvalidArgument},
		{"empty content", fileRequest(t, "po.txt", nil), codes.InvalidArgument},
		{"unsupported extension", fileRequest(t, "po.docx", []byte("x")), codes.Unimplemented},
		{"too large", fileRequest(t, "po.txt", make([]byte, 1<<20+1)), codes.InvalidArgument},
		{"broken workbook", fileRequest(t, "po.xlsx", []byte("not a zip")), codes.FailedPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseFile(ctx, tt.req)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}

	bad, err := structpb.NewStruct(map[string]any{"filename": "po.txt", "content_base64": "%%%"})
	require.NoError(t, err)
	_, err = svc.ParseFile(ctx, bad)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetRun_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newService(t, false).GetRun(ctx, wrapperspb.String(uuid.NewString()))
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	svc := newService(t, true)
	_, err = svc.GetRun(ctx, wrapperspb.String("not-a-uuid"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.GetRun(ctx, wrapperspb.String(uuid.NewString()))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestOverTheWire(t *testing.T) {
	conn := dial(t, newService(t, true))
	ctx := context.Background()

	health, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, health.Status)

	client := NewClient(conn)
	out, err := client.ParseText(ctx, wrapperspb.String(samplePO))
	require.NoError(t, err)
	assert.Equal(t, "4500012345", out.Fields["header"].GetStructValue().Fields["poNumber"].GetStringValue())

	file, err := client.ParseFile(ctx, fileRequest(t, "po.txt", []byte(samplePO)))
	require.NoError(t, err)

	run, err := client.GetRun(ctx, wrapperspb.String(file.Fields["run_id"].GetStringValue()))
	require.NoError(t, err)
	assert.Equal(t, "po.txt", run.Fields["source_path"].GetStringValue())

	_, err = client.GetRun(ctx, wrapperspb.String(uuid.NewString()))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
