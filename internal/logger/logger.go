package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger wraps slog with package/function/file scoping so call sites can
// chain context instead of repeating attribute keys.
type Logger struct {
	logger   *slog.Logger
	pkg      string
	function string
	file     string
}

func New(pkg string) Logger {
	return Logger{
		logger: slog.Default(),
		pkg:    pkg,
	}
}

// Init installs the process-wide slog handler. Called once from main.
func Init(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

// sl tolerates zero-value Loggers, which show up on struct fields that were
// never wired through New.
func (l Logger) sl() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

func (l Logger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+6)
	out = append(out, "package", l.pkg)
	if l.file != "" {
		out = append(out, "file", l.file)
	}
	if l.function != "" {
		out = append(out, "function", l.function)
	}
	return append(out, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.sl().Info(msg, l.attrs(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.sl().Warn(msg, l.attrs(args)...)
}

// Err logs the error with context and returns it wrapped with msg, so call
// sites can `return log.Err(...)` in one statement.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.sl().Error(msg, l.attrs(append(args, "error", err))...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Er logs the error without returning one, for paths that continue.
func (l Logger) Er(msg string, err error, args ...any) {
	l.sl().Error(msg, l.attrs(append(args, "error", err))...)
}

// Error logs and returns a new error built from msg.
func (l Logger) Error(msg string, args ...any) error {
	l.sl().Error(msg, l.attrs(args)...)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.sl().Error(msg, l.attrs(nil)...)
	return fmt.Errorf("%s", msg)
}

func (l Logger) ErMsg(msg string) {
	l.sl().Error(msg, l.attrs(nil)...)
}
