package search

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"romfind/internal/config"
	"romfind/internal/dataset"
	"romfind/internal/dbworker"
	"romfind/internal/logging"
	"romfind/internal/memocache"
	"romfind/internal/query"
	"romfind/internal/terms"
)

// ErrEmptyQuery is returned when input normalizes to no search terms.
var ErrEmptyQuery = errors.New("search term required")

// Executor is the slice of dbworker.Worker the service depends on.
type Executor interface {
	Open(ctx context.Context, datasetBytes []byte) error
	Exec(ctx context.Context, q query.Query) ([]dataset.Game, error)
	Close(ctx context.Context) error
	Terminate()
	Loaded() bool
}

// WorkerFactory produces a fresh Executor for each loaded dataset.
type WorkerFactory func() Executor

// Service performs ROM name lookups against one loaded dataset.
type Service struct {
	cfg        *config.Config
	logger     *slog.Logger
	catalog    *dataset.Catalog
	fetcher    *dataset.Fetcher
	normalizer *terms.Normalizer
	cache      *memocache.Cache[[]dataset.Game]
	newWorker  WorkerFactory

	mu        sync.Mutex
	worker    Executor
	datasetID string
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher overrides the dataset fetcher.
func WithFetcher(f *dataset.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithWorkerFactory overrides how dataset workers are created.
func WithWorkerFactory(factory WorkerFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.newWorker = factory
		}
	}
}

// New constructs a Service from configuration. One Service is meant to live
// for an application session and be passed to consumers explicitly.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "search")

	workerTimeout := time.Duration(cfg.Search.WorkerTimeoutSeconds) * time.Second
	workDir := filepath.Join(cfg.Paths.DataDir, "worker")

	s := &Service{
		cfg:        cfg,
		logger:     logger,
		catalog:    dataset.NewCatalog(cfg.Datasets.Allowed),
		normalizer: terms.NewNormalizer(),
		cache: memocache.New[[]dataset.Game](
			cfg.Search.CacheMaxEntries,
			time.Duration(cfg.Search.CacheTTLSeconds)*time.Second,
		),
	}
	s.fetcher = dataset.NewFetcher(
		cfg.Datasets.BaseURL,
		filepath.Join(cfg.Paths.DataDir, "datasets"),
		time.Duration(cfg.Datasets.DownloadTimeout)*time.Second,
		logger,
	)
	s.newWorker = func() Executor {
		return dbworker.New(workDir, workerTimeout, logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Datasets returns the allow-listed dataset identifiers.
func (s *Service) Datasets() []string {
	return s.catalog.IDs()
}

// DatasetID returns the identifier of the currently loaded dataset, if any.
func (s *Service) DatasetID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.datasetID
}

// IsLoaded reports whether a dataset is open and ready for lookups.
func (s *Service) IsLoaded() bool {
	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()
	return w != nil && w.Loaded()
}

// LoadDatabase validates datasetID against the allow-list, fetches the
// dataset file, and opens it on a fresh worker. Any previously loaded
// dataset is released first and the result cache is cleared, so searches
// after a switch always run against the new dataset.
func (s *Service) LoadDatabase(ctx context.Context, datasetID string) error {
	fileName, err := s.catalog.Resolve(datasetID)
	if err != nil {
		return err
	}

	data, err := s.fetcher.Fetch(ctx, fileName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		s.worker.Terminate()
		s.worker = nil
		s.datasetID = ""
	}
	s.cache.Clear()

	w := s.newWorker()
	if err := w.Open(ctx, data); err != nil {
		w.Terminate()
		return err
	}
	s.worker = w
	s.datasetID = datasetID

	s.logger.Info("dataset loaded",
		logging.String(logging.FieldDataset, datasetID),
		logging.Int("bytes", len(data)))
	return nil
}

// Terminate releases the worker and clears the cache and any pending state.
// The service stays usable; LoadDatabase starts a new session.
func (s *Service) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		s.worker.Terminate()
		s.worker = nil
	}
	s.datasetID = ""
	s.cache.Clear()
}

// FindOne looks up a single free-text name. The input may span lines; every
// distinct normalized term participates in the lookup.
func (s *Service) FindOne(ctx context.Context, term string, includeClones bool) ([]dataset.Game, error) {
	return s.find(ctx, s.normalizer.Normalize(term), includeClones)
}

// FindMany looks up a batch of free-text names in one request.
func (s *Service) FindMany(ctx context.Context, names []string, includeClones bool) ([]dataset.Game, error) {
	return s.find(ctx, s.normalizer.Normalize(strings.Join(names, "\n")), includeClones)
}

func (s *Service) find(ctx context.Context, termSet []string, includeClones bool) ([]dataset.Game, error) {
	if len(termSet) == 0 {
		return nil, ErrEmptyQuery
	}

	key := cacheKey(termSet, includeClones)
	if rows, ok := s.cache.Get(key); ok {
		out := make([]dataset.Game, len(rows))
		copy(out, rows)
		return out, nil
	}

	s.mu.Lock()
	w := s.worker
	s.mu.Unlock()
	if w == nil || !w.Loaded() {
		return nil, dbworker.ErrNotLoaded
	}

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()

	var results []dataset.Game
	for _, batch := range query.Batch(termSet, s.cfg.Search.BatchMaxChars) {
		q, err := query.Build(batch, includeClones)
		if err != nil {
			return nil, err
		}
		rows, err := w.Exec(ctx, q)
		if err != nil {
			logger.Warn("lookup failed",
				logging.Int("terms", len(termSet)),
				logging.Error(err))
			return nil, err
		}
		results = append(results, rows...)
	}

	stored := make([]dataset.Game, len(results))
	copy(stored, results)
	s.cache.Put(key, stored)

	logger.Debug("lookup complete",
		logging.Int("terms", len(termSet)),
		logging.Int("rows", len(results)),
		logging.Bool("clones", includeClones),
		logging.Duration("elapsed", time.Since(started)))
	return results, nil
}

// cacheKey derives a stable key from an already-normalized term set and the
// request flags. The normalizer's dedup-with-first-seen-order means equal
// inputs produce equal keys.
func cacheKey(termSet []string, includeClones bool) string {
	var b strings.Builder
	for i, term := range termSet {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(term)
	}
	if includeClones {
		b.WriteString("|clones")
	} else {
		b.WriteString("|parents")
	}
	return b.String()
}
