package backup

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/linkshelf/pkg/types"
)

// WebDAVClient pushes snapshot files to a remote WebDAV collection using
// plain HTTP verbs; no external WebDAV library is needed for PUT and
// PROPFIND.
type WebDAVClient struct {
	baseURL    string
	username   string
	password   string
	autoUpload bool
	client     *http.Client
}

// NewWebDAVClient builds a client from config, or nil when disabled.
func NewWebDAVClient(cfg types.WebDAVConfig) *WebDAVClient {
	if !cfg.Enabled {
		return nil
	}
	return &WebDAVClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		autoUpload: cfg.AutoBackup,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload PUTs one snapshot file into the remote collection.
func (c *WebDAVClient) Upload(filename string, payload []byte) error {
	req, err := http.NewRequest(http.MethodPut, c.baseURL+"/"+filename, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building webdav upload: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", filename, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("uploading %s: remote answered %s", filename, resp.Status)
	}
	return nil
}

// Ping issues a shallow PROPFIND against the collection to verify the
// endpoint and credentials.
func (c *WebDAVClient) Ping() error {
	req, err := http.NewRequest("PROPFIND", c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("building webdav probe: %w", err)
	}
	req.Header.Set("Depth", "0")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("probing webdav endpoint: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("probing webdav endpoint: remote answered %s", resp.Status)
	}
	return nil
}
