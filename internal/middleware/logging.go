package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller and the chi request ID.
// Client errors (invalid argument, not found, failed precondition, unauthenticated)
// are logged at Warn, everything else that fails at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx), // empty for anonymous callers
				"request_id", chimiddleware.GetReqID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.InfoContext(ctx, "RPC ok", attrs...)
			case errors.As(err, &connectErr) && isClientError(connectErr.Code()):
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				slog.WarnContext(ctx, "RPC rejected", attrs...)
			default:
				attrs = append(attrs, "code", connect.CodeOf(err), "error", err)
				slog.ErrorContext(ctx, "RPC failed", attrs...)
			}

			return resp, err
		}
	}
}

func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeFailedPrecondition, connect.CodeUnauthenticated, connect.CodePermissionDenied,
		connect.CodeCanceled:
		return true
	default:
		return false
	}
}
