package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "docs.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = RenderLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != renderModule {
		t.Fatalf("expected module %s, got %v", renderModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != renderModule {
		t.Fatalf("expected module field %s, got %v", renderModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamespacedLoggers(t *testing.T) {
	cases := []struct {
		name string
		fn   func(interfaces.LoggerProvider) interfaces.Logger
		want string
	}{
		{"markdown", MarkdownLogger, markdownModule},
		{"content", ContentLogger, contentModule},
		{"generator", GeneratorLogger, generatorModule},
		{"catalog", CatalogLogger, catalogModule},
		{"commands", CommandsLogger, commandsModule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			_ = tc.fn(provider)
			if len(provider.requested) == 0 || provider.requested[0] != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, provider.requested)
			}
		})
	}
}

func TestWithDocContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithDocContext(rec, "intro", " ", "/kotlin-notes/docs/intro")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldDocID] != "intro" || fields[fieldPermalink] != "/kotlin-notes/docs/intro" {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if _, ok := fields[fieldDocSource]; ok {
		t.Fatalf("expected blank source to be skipped, got %#v", fields)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build_id": "b1"})
	ctx = ContextWithFields(ctx, map[string]any{"doc_id": "intro"})

	fields := ContextFields(ctx)
	if fields["build_id"] != "b1" || fields["doc_id"] != "intro" {
		t.Fatalf("expected merged fields, got %#v", fields)
	}
	fields["build_id"] = "mutated"
	if ContextFields(ctx)["build_id"] != "b1" {
		t.Fatalf("expected ContextFields to return a copy")
	}
}
