// Package jd loads job descriptions from files and web pages.
package jd

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/document"
	"github.com/spigell/ats-analyzer/internal/utils"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "spigell/ats-analyzer"
	defaultRetryDelay = time.Second
	acceptEncoding    = "gzip"

	// maxBodySize caps what is read from a remote page.
	maxBodySize = 10 << 20
)

// ErrEmpty is returned when a source yields no text.
var ErrEmpty = errors.New("job description is empty")

// Config tunes remote fetching.
type Config struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user-agent"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
}

type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

func New(logger *zap.Logger, cfg Config) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Fetcher{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// IsURL reports whether input is an http or https URL.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the text of a job description. URLs are downloaded and HTML is reduced
// to text. Anything else is a file path: PDF and DOCX files go through document
// extraction, HTML files are reduced to text and other files are read as is.
func (f *Fetcher) Fetch(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)

	var (
		content string
		err     error
	)
	if IsURL(input) {
		content, err = f.fetchURL(ctx, input)
		if err != nil {
			return "", errors.Wrapf(err, "failed to fetch job description from URL: %s", input)
		}
	} else {
		content, err = fetchFile(input)
		if err != nil {
			return "", errors.Wrapf(err, "failed to fetch job description from file: %s", input)
		}
	}

	if strings.TrimSpace(content) == "" {
		return "", errors.Wrapf(ErrEmpty, "source %s", input)
	}

	return content, nil
}

func fetchFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" || ext == ".docx" {
		text, _, err := document.ExtractFile(path)
		if err != nil {
			return "", errors.Wrap(err, "failed to extract document")
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read file: %s", path)
	}

	if ext == ".html" || ext == ".htm" {
		return HTMLToText(bytes.NewReader(data))
	}
	return string(data), nil
}

func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			f.logger.Debug("retrying job description download",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, f.retryDelay); err != nil {
				return "", errors.Wrap(err, "waiting for retry")
			}
		}

		content, retryable, err := f.get(ctx, rawURL)
		if err == nil {
			return content, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}

	return "", lastErr
}

// get performs a single download. Network failures and server errors are retryable.
func (f *Fetcher) get(ctx context.Context, rawURL string) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept-Encoding", acceptEncoding)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	f.logger.Debug("make request", zap.String("url", rawURL))
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode >= http.StatusInternalServerError,
			errors.Errorf("HTTP request failed with status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", false, errors.Wrap(err, "failed to open gzip body")
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return "", true, errors.Wrap(err, "failed to read response body")
	}

	if !isHTML(resp.Header.Get("Content-Type"), data) {
		return string(data), false, nil
	}

	text, err := HTMLToText(bytes.NewReader(data))
	if err != nil {
		return "", false, err
	}
	return text, false, nil
}

func isHTML(contentType string, data []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType == "text/html" || mediaType == "application/xhtml+xml"
	}
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}
