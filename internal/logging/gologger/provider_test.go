package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-docsite/internal/logging"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("docs.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logging.WithFields(logger, map[string]any{"module": "docs.test"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	child.Debug("adapter.initialised")

	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestAdapterAppendsFieldsWhenLoggerLacksFieldSupport(t *testing.T) {
	stub := &plainLogger{}
	adapted := logging.WithFields(wrap(stub), map[string]any{"site": "kotlin-notes", "component": "generator"})

	adapted.Info("generator.build_completed", "pages", 3)

	want := []any{"component", "generator", "site", "kotlin-notes", "pages", 3}
	if len(stub.args) != 1 || len(stub.args[0]) != len(want) {
		t.Fatalf("unexpected args %#v", stub.args)
	}
	for i := range want {
		if stub.args[0][i] != want[i] {
			t.Fatalf("arg %d: expected %v, got %v", i, want[i], stub.args[0][i])
		}
	}
}

func TestCompactDropsBlankAndDuplicateNames(t *testing.T) {
	got := compact([]string{" docs.generator ", "", "docs.generator", "docs.catalog"})
	if len(got) != 2 || got[0] != "docs.generator" || got[1] != "docs.catalog" {
		t.Fatalf("unexpected focus list %v", got)
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"entity": "doc"}
	child := logging.WithFields(adapted, fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["entity"] = "category"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["entity"] != "doc" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["entity"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}

type plainLogger struct {
	args [][]any
}

var _ glog.Logger = (*plainLogger)(nil)

func (p *plainLogger) record(args []any)                       { p.args = append(p.args, args) }
func (p *plainLogger) Trace(_ string, args ...any)             { p.record(args) }
func (p *plainLogger) Debug(_ string, args ...any)             { p.record(args) }
func (p *plainLogger) Info(_ string, args ...any)              { p.record(args) }
func (p *plainLogger) Warn(_ string, args ...any)              { p.record(args) }
func (p *plainLogger) Error(_ string, args ...any)             { p.record(args) }
func (p *plainLogger) Fatal(_ string, args ...any)             { p.record(args) }
func (p *plainLogger) WithContext(context.Context) glog.Logger { return p }
