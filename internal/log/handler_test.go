package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	ctxlog "github.com/ErlanBelekov/auth-service/internal/log"
	"github.com/ErlanBelekov/auth-service/internal/reqctx"
)

func TestContextHandler_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithUser(ctx, &domain.PublicUser{ID: "user-1"})
	logger.InfoContext(ctx, "hello")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, "user_id=user-1") {
		t.Errorf("missing user_id: %s", out)
	}
}

func TestContextHandler_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	logger.With("component", "x").InfoContext(context.Background(), "hello")

	out := buf.String()
	if strings.Contains(out, "request_id") || strings.Contains(out, "user_id") {
		t.Errorf("unexpected context attrs: %s", out)
	}
	if !strings.Contains(out, "component=x") {
		t.Errorf("WithAttrs lost: %s", out)
	}
}

func TestContextHandler_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	logger.With("Authorization", "Bearer abc.def.ghi").Info("login",
		"email", "a@x.com",
		"password", "hunter22",
		slog.Group("req", "token", "abc.def.ghi", "path", "/auth/login"),
	)

	out := buf.String()
	for _, secret := range []string{"hunter22", "abc.def.ghi"} {
		if strings.Contains(out, secret) {
			t.Errorf("secret %q leaked: %s", secret, out)
		}
	}
	for _, kept := range []string{"email=a@x.com", "req.path=/auth/login", "password=[REDACTED]"} {
		if !strings.Contains(out, kept) {
			t.Errorf("missing %q in %s", kept, out)
		}
	}
}

func TestContextHandler_ContextAttrsStayTopLevelUnderGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithUser(ctx, &domain.PublicUser{ID: "user-1"})
	logger.WithGroup("http").With("method", "POST").WithGroup("body").InfoContext(ctx, "hello", "email", "a@x.com", "password", "hunter22")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", buf.String(), err)
	}
	if got["request_id"] != "req-1" || got["user_id"] != "user-1" {
		t.Errorf("context attrs not at top level: %s", buf.String())
	}

	httpGroup, _ := got["http"].(map[string]any)
	if httpGroup["method"] != "POST" {
		t.Errorf("group attr lost: %s", buf.String())
	}
	body, _ := httpGroup["body"].(map[string]any)
	if body["email"] != "a@x.com" || body["password"] != "[REDACTED]" {
		t.Errorf("nested record attrs wrong: %s", buf.String())
	}
	if _, nested := httpGroup["request_id"]; nested {
		t.Errorf("request_id nested inside group: %s", buf.String())
	}
}
