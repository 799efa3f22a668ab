package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/auth"
	"github.com/mmynk/debtbook/internal/config"
	"github.com/mmynk/debtbook/pkg/debtrpc"
)

// testEnv points the CLI at a temp database and a missing config file.
func testEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DEBTBOOK_DB_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("DEBTBOOK_JWT_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	testEnv(t)

	out, err := run(t, "token", "acct-7")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Validate(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if claims.AccountID != "acct-7" {
		t.Errorf("AccountID = %q, want acct-7", claims.AccountID)
	}

	if _, err := run(t, "token"); err == nil {
		t.Error("expected error without account argument")
	}
}

func TestSettingsAndRateCommands(t *testing.T) {
	testEnv(t)

	if _, err := run(t, "settings", "--account", "acct-1", "--mode", "fixed", "--rate", "4025"); err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	out, err := run(t, "rate", "--account", "acct-1")
	if err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if !strings.Contains(out, "4025") || !strings.Contains(out, "fixed") {
		t.Errorf("rate output = %q, want fixed 4025", out)
	}

	if _, err := run(t, "settings", "--account", "acct-1", "--mode", "fixed"); err == nil {
		t.Error("expected error for fixed mode without rate")
	}
	if _, err := run(t, "settings", "--account", "acct-1", "--mode", "fixed", "--rate", "abc"); err == nil {
		t.Error("expected error for malformed rate")
	}
}

func TestHandler(t *testing.T) {
	testEnv(t)
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	manager, store, err := openManager(cfg)
	if err != nil {
		t.Fatalf("openManager failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("cli-secret", time.Hour)
	server := httptest.NewServer(newHandler(manager, jwtManager, true))
	t.Cleanup(server.Close)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		if err != nil {
			t.Fatalf("GET /health failed: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "ok") {
			t.Errorf("health = %d %q", resp.StatusCode, body)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/metrics")
		if err != nil {
			t.Fatalf("GET /metrics failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("metrics status = %d", resp.StatusCode)
		}
	})

	t.Run("rpc requires token", func(t *testing.T) {
		client := debtrpc.NewDebtServiceClient(http.DefaultClient, server.URL)
		_, err := client.GetDebtAnalysis(context.Background(), connect.NewRequest(&debtrpc.GetDebtAnalysisRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("rpc with token", func(t *testing.T) {
		token, err := jwtManager.Generate("acct-http")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		client := debtrpc.NewDebtServiceClient(http.DefaultClient, server.URL)
		req := connect.NewRequest(&debtrpc.AddDebtRequest{Type: "lent", Person: "Frank", Amount: decimal.NewFromInt(9), Currency: "USD"})
		req.Header().Set("Authorization", "Bearer "+token)
		resp, err := client.AddDebt(context.Background(), req)
		if err != nil {
			t.Fatalf("AddDebt failed: %v", err)
		}
		if resp.Msg.DebtID == "" {
			t.Error("expected a debt ID")
		}
	})

	t.Run("unknown procedure", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/debtbook.v1.DebtService/Nope", "application/json", strings.NewReader("{}"))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
