package log

import (
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var base = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		FieldMap:        logrus.FieldMap{logrus.FieldKeyTime: "ts", logrus.FieldKeyMsg: "action"},
	})
	l.SetOutput(os.Stdout)
	return l
}

// Setup sets the level and, when file is non-empty, tees output to that file.
// The returned closer releases the file and is safe to call when no file was opened.
func Setup(level, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nopCloser{}, fmt.Errorf("parse log level %q: %w", level, err)
	}
	base.SetLevel(lvl)
	if file == "" {
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nopCloser{}, fmt.Errorf("open log file %s: %w", file, err)
	}
	base.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// SetOutput redirects every entry. Tests use it to capture log lines.
func SetOutput(w io.Writer) { base.SetOutput(w) }

// Logger exposes the process logger.
func Logger() *logrus.Logger { return base }

// Component returns an entry for code that runs outside a request.
func Component(name string) *logrus.Entry { return base.WithField("component", name) }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func write(level logrus.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	f := logrus.Fields{}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		if st := c.Response().StatusCode(); st != 0 {
			f["status"] = st
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
	}
	if len(fields) > 0 {
		f["fields"] = fields
	}
	e := base.WithFields(f)
	if err != nil {
		e = e.WithField("err", err.Error())
	}
	e.Log(level, action)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write(logrus.InfoLevel, c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, c, action, nil, withKind(fields, "audit"))
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.WarnLevel, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logrus.ErrorLevel, c, action, err, fields)
}

func withKind(fields map[string]any, kind string) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["kind"] = kind
	return out
}
