package logger

import (
	"context"
	"sync"
	"testing"
)

func TestGetLoggerBeforeInitIsNop(t *testing.T) {
	log = nil
	once = sync.Once{}

	if GetLogger() == nil {
		t.Fatal("expected nop logger before init")
	}
	Info(context.Background(), "dropped")
}

func TestInitAndContextLogging(t *testing.T) {
	Init("development")
	if GetLogger() == nil {
		t.Fatal("expected logger initialized")
	}

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	if WithContext(ctx) == nil {
		t.Fatal("expected contextual logger")
	}

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
}

func TestWithContextNil(t *testing.T) {
	Init("development")
	//nolint:staticcheck
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestInit_Production(t *testing.T) {
	log = nil
	once = sync.Once{}

	Init("production")
	if GetLogger() == nil {
		t.Fatal("expected production logger initialized")
	}
	if WithContext(context.Background()) == nil {
		t.Fatal("expected base logger without context fields")
	}
}
