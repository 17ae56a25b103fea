package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/blog-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "implicit ok", status: 0, wantLevel: `"level":"INFO"`},
		{name: "client error", status: http.StatusBadRequest, wantLevel: `"level":"INFO"`},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: `"level":"ERROR"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			lg := logger.NewWithWriter(&buf, 0, "json")

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("ok"))
			})

			rec := httptest.NewRecorder()
			NewLogging(lg).Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blog", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, `"path":"/api/blog"`)
			assert.Contains(t, out, `"method":"GET"`)
			assert.Equal(t, "ok", rec.Body.String())
		})
	}
}
