package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/brettbedarf/treefs/internal/util"
)

type HTTPMethod = string

const (
	HTTPMethodGet  HTTPMethod = "GET"
	HTTPMethodPost HTTPMethod = "POST"
)

// MaxHTTPContentSize caps the body read from an HTTP source
const MaxHTTPContentSize = 16 * 1024 * 1024

var ErrBinaryContent = errors.New("content is not valid UTF-8 text")

// HTTPDoer is the subset of *http.Client used by [HTTPProvider]
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource contains http-specific source config fields
type HTTPSource struct {
	URL     string            `json:"url"`
	Method  *HTTPMethod       `json:"method,omitempty"` // Default is GET
	Headers map[string]string `json:"headers,omitempty"`
}

// HTTPProvider loads file content once from an HTTP(S) URL
type HTTPProvider struct {
	client HTTPDoer
}

func NewHTTPProvider(client HTTPDoer) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{client: client}
}

func RegisterHTTP(r *Registry) {
	r.Register(HTTPSourceType, NewHTTPProvider(nil))
}

// ParseHTTPSource unmarshals and validates an http source config
func ParseHTTPSource(config []byte) (*HTTPSource, error) {
	var src HTTPSource
	if err := json.Unmarshal(config, &src); err != nil {
		return nil, err
	}
	src.URL = strings.TrimSpace(src.URL)
	if err := validateURL(src.URL); err != nil {
		return nil, err
	}
	return &src, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("http source missing url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}
	if u.User != nil {
		return fmt.Errorf("invalid url %q: user info not allowed", raw)
	}
	return nil
}

func (p *HTTPProvider) Load(ctx context.Context, config []byte) (string, error) {
	logger := util.GetLogger("HTTPProvider.Load")

	src, err := ParseHTTPSource(config)
	if err != nil {
		return "", err
	}

	method := HTTPMethodGet
	if src.Method != nil {
		method = *src.Method
	}
	req, err := http.NewRequestWithContext(ctx, method, src.URL, nil)
	if err != nil {
		return "", err
	}
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s %s: unexpected status %s", method, src.URL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxHTTPContentSize+1))
	if err != nil {
		return "", err
	}
	if len(body) > MaxHTTPContentSize {
		return "", fmt.Errorf("%s %s: content exceeds %d bytes", method, src.URL, MaxHTTPContentSize)
	}
	if !utf8.Valid(body) {
		return "", fmt.Errorf("%s %s: %w", method, src.URL, ErrBinaryContent)
	}
	logger.Debug().Str("url", src.URL).Int("size", len(body)).Msg("Loaded http source")
	return string(body), nil
}
