package log

import (
	"context"
	"log"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// LevelAudit sits between info and warn so audit trails survive a "warn" threshold
// only when asked for.
const LevelAudit = slog.Level(2)

var level = new(slog.LevelVar)

// stdWriter forwards to whatever the standard logger writes to at call time, so
// log.SetOutput (file tee in main, buffers in tests) redirects these lines too.
type stdWriter struct{}

func (stdWriter) Write(p []byte) (int, error) { return log.Writer().Write(p) }

var logger = slog.New(slog.NewJSONHandler(stdWriter{}, &slog.HandlerOptions{
	Level: level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.TimeKey:
			a.Key = "ts"
		case slog.MessageKey:
			a.Key = "action"
		case slog.LevelKey:
			a.Value = slog.StringValue(levelName(a.Value.Any().(slog.Level)))
		}
		return a
	},
}))

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= LevelAudit:
		return "audit"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

// SetLevel drops entries below l.
func SetLevel(l slog.Level) { level.Set(l) }

// Logger exposes the underlying slog logger for code that runs outside a request.
func Logger() *slog.Logger { return logger }

func write(l slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	ctx := context.Background()
	if !logger.Enabled(ctx, l) {
		return
	}
	attrs := make([]slog.Attr, 0, 8)
	if c != nil {
		attrs = append(attrs,
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, slog.String("req_id", rid))
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			attrs = append(attrs, slog.String("user_id", uid))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	if len(fields) > 0 {
		group := make([]any, 0, len(fields))
		for k, v := range fields {
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("fields", group...))
	}
	logger.LogAttrs(ctx, l, action, attrs...)
}

func Debug(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelDebug, c, action, nil, fields)
}
func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
