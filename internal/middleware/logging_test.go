package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/debtbook/pkg/debtrpc"
)

// captureLogs routes the default logger into a JSON buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLoggingInterceptor(t *testing.T) {
	ctx := WithAccountID(context.Background(), "acct-1")

	tests := []struct {
		name      string
		req       connect.AnyRequest
		err       error
		wantLevel string
		wantMsg   string
		wantAttrs map[string]string
	}{
		{
			name:      "ok with debt id",
			req:       connect.NewRequest(&debtrpc.CancelDebtRequest{DebtID: "debt-42"}),
			wantLevel: "INFO",
			wantMsg:   "RPC ok",
			wantAttrs: map[string]string{"account_id": "acct-1", "debt_id": "debt-42"},
		},
		{
			name:      "rejection with person",
			req:       connect.NewRequest(&debtrpc.RecordRepaymentRequest{Person: "bob"}),
			err:       connect.NewError(connect.CodeNotFound, errors.New("no open debts")),
			wantLevel: "INFO",
			wantMsg:   "RPC rejected",
			wantAttrs: map[string]string{"person": "bob", "code": "not_found", "reason": "no open debts"},
		},
		{
			name:      "internal failure",
			req:       connect.NewRequest(&debtrpc.GetDebtAnalysisRequest{}),
			err:       connect.NewError(connect.CodeInternal, errors.New("disk full")),
			wantLevel: "WARN",
			wantMsg:   "RPC error",
			wantAttrs: map[string]string{"code": "internal"},
		},
		{
			name:      "plain error",
			req:       connect.NewRequest(&debtrpc.GetDebtAnalysisRequest{}),
			err:       errors.New("boom"),
			wantLevel: "ERROR",
			wantMsg:   "RPC error",
			wantAttrs: map[string]string{"error": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			}

			_, err := LoggingInterceptor()(next)(ctx, tt.req)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}

			entry := lastEntry(t, buf)
			if entry["level"] != tt.wantLevel || entry["msg"] != tt.wantMsg {
				t.Errorf("got %v %q, want %s %q", entry["level"], entry["msg"], tt.wantLevel, tt.wantMsg)
			}
			for k, want := range tt.wantAttrs {
				if got, _ := entry[k].(string); got != want {
					t.Errorf("%s = %v, want %q", k, entry[k], want)
				}
			}
		})
	}
}

func TestLoggingInterceptorOmitsEmptyTargets(t *testing.T) {
	buf := captureLogs(t)
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, nil
	}

	if _, err := LoggingInterceptor()(next)(context.Background(), connect.NewRequest(&debtrpc.UpdateDebtRequest{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := lastEntry(t, buf)
	for _, k := range []string{"debt_id", "person"} {
		if _, ok := entry[k]; ok {
			t.Errorf("unexpected %s attribute in %v", k, entry)
		}
	}
}
