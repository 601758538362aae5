package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs one line per
// RPC with the procedure, caller, protocol and duration. Failures caused by
// the client log at warn, server faults at error.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			// Empty unless installed after RequireAuth.
			userID := GetUserID(ctx)

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", userID,
				"protocol", req.Peer().Protocol,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.Info("RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if errors.As(err, &connectErr) && !isServerFault(connectErr.Code()) {
				logger.Warn("RPC rejected", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
				return resp, err
			}
			logger.Error("RPC failed", append(attrs, "code", connect.CodeOf(err), "error", err)...)
			return resp, err
		}
	}
}

func isServerFault(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return true
	}
	return false
}
