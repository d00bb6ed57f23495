package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"romfind/internal/logging"
)

// ErrUnavailable marks a dataset file that could not be fetched. Retrying or
// selecting another dataset may recover.
var ErrUnavailable = errors.New("failed to fetch database")

// Fetcher downloads dataset files and caches them on disk. Dataset files are
// immutable once published, so a cached copy is served without revalidation.
type Fetcher struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
	logger     *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// NewFetcher creates a Fetcher. baseURL may be empty, in which case only
// already-cached files can be served.
func NewFetcher(baseURL, cacheDir string, timeout time.Duration, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	f := &Fetcher{
		baseURL:    baseURL,
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "dataset"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes of the named dataset file, downloading it on a
// cache miss. fileName must come from Catalog.Resolve; Fetch never derives
// paths from raw user input.
func (f *Fetcher) Fetch(ctx context.Context, fileName string) ([]byte, error) {
	cachePath := filepath.Join(f.cacheDir, fileName)
	if data, err := os.ReadFile(cachePath); err == nil && len(data) > 0 {
		f.logger.Debug("dataset served from cache",
			logging.String("file", fileName),
			logging.Int("bytes", len(data)))
		return data, nil
	}

	if f.baseURL == "" {
		return nil, fmt.Errorf("dataset %s not cached and no base url configured: %w", fileName, ErrUnavailable)
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset cache dir: %w", err)
	}

	// Serialize concurrent downloads of the same file across processes.
	lock := flock.New(cachePath + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock dataset cache: %w", err)
	}
	defer lock.Unlock()

	// Another process may have finished the download while we waited.
	if data, err := os.ReadFile(cachePath); err == nil && len(data) > 0 {
		return data, nil
	}

	data, err := f.download(ctx, fileName)
	if err != nil {
		return nil, err
	}

	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write dataset cache: %w", err)
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("store dataset cache: %w", err)
	}

	return data, nil
}

func (f *Fetcher) download(ctx context.Context, fileName string) ([]byte, error) {
	url := f.baseURL + "/" + fileName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}

	started := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Warn("dataset download failed",
			logging.String("file", fileName),
			logging.Error(err))
		return nil, fmt.Errorf("dataset %s: %w", fileName, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("dataset download rejected",
			logging.String("file", fileName),
			logging.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("dataset %s: status %d: %w", fileName, resp.StatusCode, ErrUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: read body: %w", fileName, ErrUnavailable)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("dataset %s: empty response: %w", fileName, ErrUnavailable)
	}

	f.logger.Info("dataset downloaded",
		logging.String("file", fileName),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(started)))
	return data, nil
}
