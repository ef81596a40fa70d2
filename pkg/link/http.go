package link

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

// Routes served by Handler.
const (
	MessagesPath = "/v1/messages"
	HealthPath   = "/healthz"
)

const (
	defaultProbeTimeout = 2 * time.Second
	defaultSendTimeout  = 5 * time.Second
)

// HTTPLink sends messages to a peer running Handler.
type HTTPLink struct {
	base         *url.URL
	client       *http.Client
	probeTimeout time.Duration
	log          *slog.Logger
}

// HTTPOption configures an HTTPLink.
type HTTPOption func(*HTTPLink)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(l *HTTPLink) {
		if c != nil {
			l.client = c
		}
	}
}

// WithProbeTimeout bounds each Reachable call.
func WithProbeTimeout(d time.Duration) HTTPOption {
	return func(l *HTTPLink) {
		if d > 0 {
			l.probeTimeout = d
		}
	}
}

func WithHTTPLogger(log *slog.Logger) HTTPOption {
	return func(l *HTTPLink) { l.log = log }
}

// NewHTTPLink returns a link to the node at peerURL, e.g.
// "http://192.168.1.20:8088".
func NewHTTPLink(peerURL string, opts ...HTTPOption) (*HTTPLink, error) {
	u, err := url.Parse(peerURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidPeerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidPeerURL
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	l := &HTTPLink{
		base:         u,
		client:       &http.Client{Timeout: defaultSendTimeout},
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logger.OrNop(l.log)
	return l, nil
}

func (l *HTTPLink) Send(ctx context.Context, m Message) error {
	body, err := Encode(m)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint(MessagesPath), bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, outboundRequestID(ctx))

	resp, err := l.client.Do(req)
	if err != nil {
		return errors.Join(ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Join(ErrSendFailed, fmt.Errorf("peer responded %s", resp.Status))
	}
	return nil
}

// Reachable probes the peer's health endpoint.
func (l *HTTPLink) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint(HealthPath), nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.log.DebugContext(ctx, "peer probe failed", logger.Peer(l.base.Host), logger.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (l *HTTPLink) endpoint(path string) string {
	u := *l.base
	u.Path += path
	return u.String()
}

var _ Link = (*HTTPLink)(nil)
