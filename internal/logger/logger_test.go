package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := buf.String()
	c.Assert(out, qt.Not(qt.Contains), "hidden")
	c.Assert(out, qt.Contains, `"msg":"shown"`)
	c.Assert(out, qt.Contains, `"k":"v"`)
}

func TestParseLevel(t *testing.T) {
	c := qt.New(t)
	c.Assert(parseLevel("DEBUG"), qt.Equals, slog.LevelDebug)
	c.Assert(parseLevel("warning"), qt.Equals, slog.LevelWarn)
	c.Assert(parseLevel("error"), qt.Equals, slog.LevelError)
	c.Assert(parseLevel(""), qt.Equals, slog.LevelInfo)
}

func TestRequestLogger(t *testing.T) {
	c := qt.New(t)
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(New(&buf, "info", "text")))
	r.GET("/missing", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	c.Assert(w.Code, qt.Equals, http.StatusNotFound)
	c.Assert(buf.String(), qt.Contains, "level=WARN")
	c.Assert(buf.String(), qt.Contains, "path=/missing")
	c.Assert(buf.String(), qt.Contains, "status=404")
}
