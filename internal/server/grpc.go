package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/po-extract/internal/common"
)

// NewGRPCServer builds a server with the extraction and health services
// registered. The returned health server starts out SERVING.
func NewGRPCServer(svc *ExtractionService, logger *slog.Logger) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = slog.Default()
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(requestLogger(logger)))
	svc.Register(grpcServer)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return grpcServer, healthServer
}

// requestLogger tags each call with a request id and logs its outcome.
func requestLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, requestID := common.EnsureRequestID(ctx)
		reqLogger := logger.With("request_id", requestID, "method", info.FullMethod)
		ctx = common.WithLogger(ctx, reqLogger)

		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			reqLogger.Warn("rpc failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
			return resp, err
		}
		reqLogger.Debug("rpc ok", "elapsed_ms", time.Since(start).Milliseconds())
		return resp, nil
	}
}
