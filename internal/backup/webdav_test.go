package backup

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

func TestWebDAVClientDisabled(t *testing.T) {
	assert.Nil(t, NewWebDAVClient(types.WebDAVConfig{}))
}

func TestWebDAVUpload(t *testing.T) {
	var gotMethod, gotPath, gotUser string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewWebDAVClient(types.WebDAVConfig{
		Enabled:  true,
		URL:      srv.URL + "/dav/backups",
		Username: "alice",
		Password: "secret",
	})
	require.NotNil(t, client)

	require.NoError(t, client.Upload("snap.json", []byte(`{"x":1}`)))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/dav/backups/snap.json", gotPath)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, `{"x":1}`, string(gotBody))
}

func TestWebDAVUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewWebDAVClient(types.WebDAVConfig{Enabled: true, URL: srv.URL})
	err := client.Upload("snap.json", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestWebDAVPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PROPFIND" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusMultiStatus)
	}))
	defer srv.Close()

	client := NewWebDAVClient(types.WebDAVConfig{Enabled: true, URL: srv.URL})
	assert.NoError(t, client.Ping())
}
