package function

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journey-within/internal/domain/insight"
)

func TestClientGenerate(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
		anyErr  bool
	}{
		{name: "success", status: http.StatusOK, body: `{"analysis":"Act without attachment."}`, want: "Act without attachment."},
		{name: "error body", status: http.StatusInternalServerError, body: `{"error":"upstream down"}`, anyErr: true},
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, wantErr: insight.ErrQuotaExceeded},
		{name: "empty analysis", status: http.StatusOK, body: `{"analysis":"  "}`, wantErr: insight.ErrEmptyAnalysis},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req insight.Request
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "Title", req.Title)
				assert.Equal(t, "Body", req.Content)
				assert.Equal(t, "Prompt", req.Prompt)
				assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "anon", time.Second)
			got, err := c.Generate(context.Background(), insight.Request{Title: "Title", Content: "Body", Prompt: "Prompt"})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
