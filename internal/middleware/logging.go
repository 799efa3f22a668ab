package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

type debtScoped interface{ GetDebtID() string }

type personScoped interface{ GetPerson() string }

// requestAttrs pulls the debt or person a request is about, when it names one.
func requestAttrs(msg any) []any {
	var attrs []any
	if m, ok := msg.(debtScoped); ok && m.GetDebtID() != "" {
		attrs = append(attrs, "debt_id", m.GetDebtID())
	}
	if m, ok := msg.(personScoped); ok && m.GetPerson() != "" {
		attrs = append(attrs, "person", m.GetPerson())
	}
	return attrs
}

// isRejection reports codes the ledger returns for requests it refuses
// rather than for failures of its own.
func isRejection(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound,
		connect.CodeFailedPrecondition, connect.CodeAborted:
		return true
	}
	return false
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its account, the debt or person it targets, duration and outcome.
// Refused ledger operations log at Info; server failures at Warn or Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []any{
				"procedure", req.Spec().Procedure,
				"account_id", GetAccountID(ctx), // empty if pre-auth
			}
			attrs = append(attrs, requestAttrs(req.Any())...)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && isRejection(connectErr.Code()):
				slog.Info("RPC rejected", append(attrs, "code", connectErr.Code(), "reason", connectErr.Message())...)
			case errors.As(err, &connectErr):
				slog.Warn("RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC error", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}
