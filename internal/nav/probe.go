package nav

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"time"
)

// linkCheckUserAgent identifies liveness probes to remote servers.
const linkCheckUserAgent = "Mozilla/5.0 (compatible; LinkshelfBot/1.0; +https://github.com/mesh-intelligence/linkshelf)"

// Prober issues the outbound HTTP calls attached to bookmark operations.
// Both clients carry explicit timeouts so no probe can block its owning
// request indefinitely.
type Prober struct {
	favicon *http.Client
	check   *http.Client
}

// NewProber creates a prober with separate budgets for the best-effort
// favicon lookup and the explicit dead-link check.
func NewProber(faviconTimeout, checkTimeout time.Duration) *Prober {
	return &Prober{
		favicon: &http.Client{Timeout: faviconTimeout},
		check:   &http.Client{Timeout: checkTimeout},
	}
}

// Favicon probes <scheme>://<host>/favicon.ico for the given page URL and
// returns the favicon URL if the server answers 200. This is an HTTP-level
// existence check only; every failure is swallowed and reported as "".
func (p *Prober) Favicon(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	faviconURL := u.Scheme + "://" + u.Host + "/favicon.ico"

	resp, err := p.favicon.Head(faviconURL)
	if err != nil {
		return ""
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return faviconURL
	}
	return ""
}

// Check issues a HEAD request against the URL, following redirects, and
// returns the final status code. A transport-level failure returns status 0
// together with the error.
func (p *Prober) Check(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building check request: %w", err)
	}
	req.Header.Set("User-Agent", linkCheckUserAgent)

	resp, err := p.check.Do(req)
	if err != nil {
		return 0, fmt.Errorf("checking %s: %w", rawURL, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
