package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// String renders the severity label used in console output.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configuration level name onto a Level. Unknown names
// report false.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		name = "WARN"
	}
	if idx := slices.Index(levelNames[:], name); idx >= 0 {
		return Level(idx), true
	}
	return LevelInfo, false
}

// DefaultTimeLayout stamps entries with millisecond precision.
const DefaultTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Options configures the console logger provider.
type Options struct {
	Writer     io.Writer
	TimeFunc   func() time.Time
	TimeLayout string
	MinLevel   *Level
}

// Provider writes one line per entry:
//
//	<time> <LEVEL> [<logger>] <message> key=value ...
//
// Bound fields come first in key order, then context fields, then call
// arguments in the order given. A later key replaces an earlier value in place.
type Provider struct {
	writer   io.Writer
	clock    func() time.Time
	layout   string
	minLevel Level
	mu       sync.Mutex
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider constructs a console provider. Defaults: stdout, time.Now and
// a minimum severity of DEBUG.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		writer:   opts.Writer,
		clock:    opts.TimeFunc,
		layout:   opts.TimeLayout,
		minLevel: LevelDebug,
	}
	if p.writer == nil {
		p.writer = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.layout == "" {
		p.layout = DefaultTimeLayout
	}
	if opts.MinLevel != nil {
		p.minLevel = *opts.MinLevel
	}
	return p
}

// GetLogger returns a logger tagged with name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &consoleLogger{provider: p, name: name}
}

func (p *Provider) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.writer, line)
}

type field struct {
	key   string
	value any
}

type fieldList []field

func (fl fieldList) set(key string, value any) fieldList {
	for i := range fl {
		if fl[i].key == key {
			fl[i].value = value
			return fl
		}
	}
	return append(fl, field{key: key, value: value})
}

func (fl fieldList) merge(fields map[string]any) fieldList {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fl = fl.set(key, fields[key])
	}
	return fl
}

type consoleLogger struct {
	provider *Provider
	name     string
	bound    fieldList
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *consoleLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.bound = slices.Clone(l.bound).merge(fields)
	return &next
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *consoleLogger) log(level Level, msg string, args []any) {
	if l.provider == nil || level < l.provider.minLevel {
		return
	}

	fields := slices.Clone(l.bound).merge(logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			fields = fields.set(positionalKey(i/2), args[i])
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = positionalKey(i / 2)
		}
		fields = fields.set(key, args[i+1])
	}

	var b strings.Builder
	b.Grow(48 + len(l.name) + len(msg) + len(fields)*16)
	b.WriteString(l.provider.clock().UTC().Format(l.provider.layout))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if l.name != "" {
		b.WriteString(" [")
		b.WriteString(l.name)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(formatValue(f.value))
	}
	b.WriteByte('\n')
	l.provider.write(b.String())
}

func positionalKey(position int) string {
	return "arg" + strconv.Itoa(position)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quoteIfNeeded(v)
	case []string:
		return quoteIfNeeded(strings.Join(v, ","))
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	case error:
		return quoteIfNeeded(v.Error())
	case fmt.Stringer:
		return quoteIfNeeded(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return quoteIfNeeded(fmt.Sprint(v))
	}
}

func quoteIfNeeded(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(value)
	}
	return value
}
