package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	// The observer core captures log entries in memory so we can assert on them.
	core, logs := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(RequestID(), Logger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/bad", func(c *gin.Context) { c.String(http.StatusBadRequest, "bad") })

	tests := []struct {
		path      string
		wantLevel zapcore.Level
		wantCode  int64
	}{
		{"/ok", zapcore.InfoLevel, http.StatusOK},
		{"/bad", zapcore.WarnLevel, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			logs.TakeAll()

			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set(RequestIDHeader, "log-test")
			router.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			entry := entries[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("expected level %s, got %s", tt.wantLevel, entry.Level)
			}

			fields := entry.ContextMap()
			if fields["status"] != tt.wantCode {
				t.Errorf("expected status %d, got %v", tt.wantCode, fields["status"])
			}
			if fields["path"] != tt.path {
				t.Errorf("expected path %s, got %v", tt.path, fields["path"])
			}
			if fields["request_id"] != "log-test" {
				t.Errorf("expected request_id log-test, got %v", fields["request_id"])
			}
		})
	}
}
