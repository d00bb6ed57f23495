package search_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"romfind/internal/config"
	"romfind/internal/dataset"
	"romfind/internal/dbworker"
	"romfind/internal/query"
	"romfind/internal/search"
	"romfind/internal/testsupport"
)

// countingExecutor wraps the real worker so tests can observe how many
// queries actually reach the store.
type countingExecutor struct {
	search.Executor
	execs      atomic.Int32
	terminated atomic.Bool
}

func (c *countingExecutor) Exec(ctx context.Context, q query.Query) ([]dataset.Game, error) {
	c.execs.Add(1)
	return c.Executor.Exec(ctx, q)
}

func (c *countingExecutor) Terminate() {
	c.terminated.Store(true)
	c.Executor.Terminate()
}

type harness struct {
	svc     *search.Service
	cfg     *config.Config
	workers []*countingExecutor
}

func (h *harness) lastWorker(t *testing.T) *countingExecutor {
	t.Helper()
	if len(h.workers) == 0 {
		t.Fatal("no worker created yet")
	}
	return h.workers[len(h.workers)-1]
}

func newHarness(t *testing.T, files map[string][]byte) *harness {
	t.Helper()

	srv := testsupport.ServeDatasets(t, files)

	allowed := make([]string, 0, len(files))
	for name := range files {
		allowed = append(allowed, name[:len(name)-len(".db")])
	}
	cfg := testsupport.NewConfig(t, allowed...)
	cfg.Datasets.BaseURL = srv.URL

	h := &harness{cfg: cfg}
	h.svc = search.New(cfg, nil, search.WithWorkerFactory(func() search.Executor {
		w := &countingExecutor{
			Executor: dbworker.New(t.TempDir(), 30*time.Second, nil),
		}
		h.workers = append(h.workers, w)
		return w
	}))
	t.Cleanup(h.svc.Terminate)
	return h
}

func standardDataset(t *testing.T) []byte {
	t.Helper()
	return testsupport.BuildDataset(t,
		testsupport.Game(1, "pacman", "Pac-Man"),
		testsupport.Clone(2, "pacmanf", "Pac-Man (Fast)", 1),
		testsupport.Game(3, "mspacman", "Ms. Pac-Man"),
		testsupport.Game(4, "galaga", "Galaga"),
	)
}

func TestFindOneExactTerm(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()

	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	if !h.svc.IsLoaded() {
		t.Fatal("expected IsLoaded after LoadDatabase")
	}
	if h.svc.DatasetID() != "seta" {
		t.Fatalf("unexpected dataset id %q", h.svc.DatasetID())
	}

	games, err := h.svc.FindOne(ctx, "Ms. Pac-Man", false)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if len(games) != 1 || games[0].ROM != "mspacman" || games[0].Name != "Ms. Pac-Man" {
		t.Fatalf("unexpected results %+v", games)
	}
	if games[0].CloneOf != "" {
		t.Fatalf("parent-only result must not carry clone field: %+v", games[0])
	}
}

func TestFindOneCacheHitSkipsExec(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()
	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	w := h.lastWorker(t)

	if _, err := h.svc.FindOne(ctx, "pacman", true); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if _, err := h.svc.FindOne(ctx, "pacman", true); err != nil {
		t.Fatalf("FindOne (cached): %v", err)
	}
	if got := w.execs.Load(); got != 1 {
		t.Fatalf("expected exactly one exec, got %d", got)
	}

	// Changing the clones flag changes the key and must re-execute.
	if _, err := h.svc.FindOne(ctx, "pacman", false); err != nil {
		t.Fatalf("FindOne (flag flipped): %v", err)
	}
	if got := w.execs.Load(); got != 2 {
		t.Fatalf("expected second exec after flag change, got %d", got)
	}
}

func TestFindManyReturnsMatchesAndIgnoresMisses(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()
	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}

	// Full-text phrase matching is token based, so each submitted name must
	// normalize to tokens of its dataset key ("ms pac man", "galaga"). The
	// miss produces no rows and no error.
	games, err := h.svc.FindMany(ctx, []string{"Ms. Pac-Man", "Galaga", "missing_game_xyz"}, false)
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	found := map[string]bool{}
	for _, g := range games {
		found[g.ROM] = true
	}
	if !found["mspacman"] || !found["galaga"] {
		t.Fatalf("expected mspacman and galaga, got %+v", games)
	}
}

func TestFindCloneResolution(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()
	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}

	games, err := h.svc.FindOne(ctx, "Pac-Man (Fast)", true)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	var clone *dataset.Game
	for i := range games {
		if games[i].ROM == "pacmanf" {
			clone = &games[i]
		}
	}
	if clone == nil {
		t.Fatalf("expected clone row, got %+v", games)
	}
	if clone.CloneOf != "Pac-Man" {
		t.Fatalf("expected clone to resolve parent name, got %+v", clone)
	}
}

func TestFindValidationErrors(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()

	if _, err := h.svc.FindOne(ctx, "   \n  ", false); !errors.Is(err, search.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := h.svc.FindOne(ctx, "pacman", false); !errors.Is(err, dbworker.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before LoadDatabase, got %v", err)
	}
}

func TestLoadDatabaseRejectsUnlistedID(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})

	err := h.svc.LoadDatabase(context.Background(), "not-listed")
	if !errors.Is(err, dataset.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if len(h.workers) != 0 {
		t.Fatal("rejected load must not create a worker")
	}
}

func TestLoadDatabaseSurfacesFetchFailure(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	// Allow-listed but the server has no such file.
	h.cfg.Datasets.Allowed = append(h.cfg.Datasets.Allowed, "setb")
	svc := search.New(h.cfg, nil)
	defer svc.Terminate()

	if err := svc.LoadDatabase(context.Background(), "setb"); !errors.Is(err, dataset.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if svc.IsLoaded() {
		t.Fatal("failed load must leave service unloaded")
	}
}

func TestDatasetSwitchClearsCacheAndWorker(t *testing.T) {
	setA := standardDataset(t)
	setB := testsupport.BuildDataset(t,
		testsupport.Game(1, "galaga88", "Galaga '88"),
	)
	h := newHarness(t, map[string][]byte{"seta.db": setA, "setb.db": setB})
	ctx := context.Background()

	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase seta: %v", err)
	}
	if _, err := h.svc.FindOne(ctx, "galaga", false); err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	first := h.lastWorker(t)

	if err := h.svc.LoadDatabase(ctx, "setb"); err != nil {
		t.Fatalf("LoadDatabase setb: %v", err)
	}
	if !first.terminated.Load() {
		t.Fatal("prior worker must be terminated on switch")
	}
	second := h.lastWorker(t)
	if first == second {
		t.Fatal("expected a fresh worker for the new dataset")
	}

	games, err := h.svc.FindOne(ctx, "galaga", false)
	if err != nil {
		t.Fatalf("FindOne after switch: %v", err)
	}
	if len(games) != 1 || games[0].ROM != "galaga88" {
		t.Fatalf("expected results from new dataset, got %+v", games)
	}
	if second.execs.Load() != 1 {
		t.Fatalf("identical search must re-execute after switch, execs=%d", second.execs.Load())
	}
}

func TestTerminateReleasesEverything(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	ctx := context.Background()
	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}

	h.svc.Terminate()
	if h.svc.IsLoaded() {
		t.Fatal("expected unloaded after Terminate")
	}
	if h.svc.DatasetID() != "" {
		t.Fatal("expected dataset id cleared")
	}
	if !h.lastWorker(t).terminated.Load() {
		t.Fatal("expected worker terminated")
	}
	if _, err := h.svc.FindOne(ctx, "pacman", false); !errors.Is(err, dbworker.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded after Terminate, got %v", err)
	}
}

func TestFindManyChunksLargeTermLists(t *testing.T) {
	h := newHarness(t, map[string][]byte{"seta.db": standardDataset(t)})
	h.cfg.Search.BatchMaxChars = 100
	ctx := context.Background()
	if err := h.svc.LoadDatabase(ctx, "seta"); err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	w := h.lastWorker(t)

	names := []string{"Ms. Pac-Man"}
	for i := 0; i < 30; i++ {
		names = append(names, "unknown title number "+string(rune('a'+i)))
	}
	names = append(names, "Galaga")
	games, err := h.svc.FindMany(ctx, names, false)
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if w.execs.Load() < 2 {
		t.Fatalf("expected chunked execution, got %d execs", w.execs.Load())
	}
	found := map[string]bool{}
	for _, g := range games {
		found[g.ROM] = true
	}
	if !found["mspacman"] || !found["galaga"] {
		t.Fatalf("expected matches across chunks, got %+v", games)
	}
}
