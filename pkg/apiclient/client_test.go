package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/crewdesk/crewdesk/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDo_DecodesSuccessResponse(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","first":"Ada"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/", 0)

	out := struct {
		ID    string `json:"id"`
		First string `json:"first"`
	}{}
	q := url.Values{}
	q.Set("page", "2")
	err := c.Do(context.Background(), http.MethodGet, "/users/u1", q, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, "/users/u1", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "u1", out.ID)
	assert.Equal(t, "Ada", out.First)
}

func TestClientDo_SendsJSONBody(t *testing.T) {
	t.Parallel()

	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, 0)

	payload := map[string]string{"first": "Ada"}
	err := c.Do(context.Background(), http.MethodPost, "/users", nil, payload, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"first":"Ada"}`, string(gotBody))
}

func TestClientDo_NormalizesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "404 with message",
			status:   http.StatusNotFound,
			body:     `{"message":"User not found"}`,
			wantCode: "not_found",
			wantMsg:  "User not found",
		},
		{
			name:     "422 with message",
			status:   http.StatusUnprocessableEntity,
			body:     `{"message":"roleId is required"}`,
			wantCode: "validation_error",
			wantMsg:  "roleId is required",
		},
		{
			name:     "500 without message",
			status:   http.StatusInternalServerError,
			body:     "boom",
			wantCode: "server_error",
			wantMsg:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			c := New(srv.URL, 0)
			err := c.Do(context.Background(), http.MethodGet, "/users", nil, nil, nil)
			require.Error(t, err)

			var e *errcodes.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestClientDo_UnreachableServerIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := New(srv.URL, 0)
	err := c.Do(context.Background(), http.MethodGet, "/users", nil, nil, nil)
	require.Error(t, err)

	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "network_error", e.Code)
}

func TestClientDo_NonJSONSuccessBodyIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, 0)

	out := struct{}{}
	err := c.Do(context.Background(), http.MethodGet, "/users", nil, nil, &out)
	require.Error(t, err)

	var e *errcodes.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "network_error", e.Code)
}
