package dbworker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"romfind/internal/dataset"
	"romfind/internal/logging"
	"romfind/internal/query"
)

// Worker owns one SQLite dataset handle and executes all operations against
// it on a dedicated goroutine. At most one dataset is open at a time; opening
// another releases the previous handle first.
type Worker struct {
	logger   *slog.Logger
	workDir  string
	timeout  time.Duration
	requests chan Request
	pending  *pendingTable
	nextID   atomic.Uint64
	loaded   atomic.Bool

	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	terminate atomic.Bool
}

// New starts a worker goroutine. workDir is where dataset buffers are
// materialized; timeout bounds each dispatched request (0 disables it).
func New(workDir string, timeout time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Worker{
		logger:   logging.NewComponentLogger(logger, "dbworker"),
		workDir:  workDir,
		timeout:  timeout,
		requests: make(chan Request),
		pending:  newPendingTable(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// Loaded reports whether a dataset handle is currently open.
func (w *Worker) Loaded() bool {
	return w.loaded.Load()
}

// Open transmits datasetBytes to the worker, which materializes and opens
// them. A previously open handle is released first.
func (w *Worker) Open(ctx context.Context, datasetBytes []byte) error {
	_, err := w.dispatch(ctx, Request{Action: ActionOpen, Buffer: datasetBytes})
	return err
}

// Exec runs q against the open dataset and returns the scanned rows.
func (w *Worker) Exec(ctx context.Context, q query.Query) ([]dataset.Game, error) {
	resp, err := w.dispatch(ctx, Request{
		Action:     ActionExec,
		SQL:        q.SQL,
		Args:       q.Args,
		WithClones: q.WithClones,
	})
	if err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// Close releases the current dataset handle without stopping the worker.
func (w *Worker) Close(ctx context.Context) error {
	_, err := w.dispatch(ctx, Request{Action: ActionClose})
	return err
}

// Terminate stops the worker goroutine, releases the dataset handle, and
// rejects every pending request with ErrTerminated. Safe to call more than
// once.
func (w *Worker) Terminate() {
	w.terminate.Store(true)
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
	if rejected := w.pending.rejectAll(ErrTerminated); rejected > 0 {
		w.logger.Debug("rejected pending requests on terminate", logging.Int("count", rejected))
	}
}

// Pending returns the number of in-flight requests.
func (w *Worker) Pending() int {
	return w.pending.size()
}

func (w *Worker) dispatch(ctx context.Context, req Request) (Response, error) {
	if w.terminate.Load() {
		return Response{}, ErrTerminated
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	req.ID = w.nextID.Add(1)
	ch := w.pending.register(req.ID)

	select {
	case w.requests <- req:
	case <-w.stop:
		w.pending.remove(req.ID)
		return Response{}, ErrTerminated
	case <-ctx.Done():
		w.pending.remove(req.ID)
		return Response{}, ctx.Err()
	}

	// Terminate rejects pending entries directly, so the reply channel
	// resolves in that case too.
	select {
	case resp := <-ch:
		return resp, resp.Err
	case <-ctx.Done():
		w.pending.remove(req.ID)
		return Response{}, ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	var (
		db     *sql.DB
		dbPath string
	)
	release := func() {
		if db != nil {
			_ = db.Close()
			db = nil
		}
		if dbPath != "" {
			_ = os.Remove(dbPath)
			dbPath = ""
		}
		w.loaded.Store(false)
	}
	defer release()

	for {
		select {
		case <-w.stop:
			return
		case req := <-w.requests:
			resp := Response{ID: req.ID}
			switch req.Action {
			case ActionOpen:
				release()
				path, opened, err := w.openBuffer(req.Buffer)
				if err != nil {
					resp.Err = err
				} else {
					db, dbPath = opened, path
					w.loaded.Store(true)
				}
			case ActionExec:
				if db == nil {
					resp.Err = ErrNotLoaded
				} else {
					resp.Games, resp.Err = w.execQuery(db, req)
				}
			case ActionClose:
				release()
			default:
				resp.Err = fmt.Errorf("unknown action %q", req.Action)
			}
			if !w.pending.resolve(resp) {
				w.logger.Debug("dropped response for abandoned request",
					logging.Uint64("id", req.ID),
					logging.String("action", string(req.Action)))
			}
		}
	}
}

// openBuffer writes the dataset bytes to a private file and opens it
// read-only. The worker validates the expected table exists before reporting
// success.
func (w *Worker) openBuffer(buffer []byte) (string, *sql.DB, error) {
	if len(buffer) == 0 {
		return "", nil, ErrInvalidDataset
	}
	if err := os.MkdirAll(w.workDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create worker dir: %w", err)
	}
	tmp, err := os.CreateTemp(w.workDir, "dataset-*.db")
	if err != nil {
		return "", nil, fmt.Errorf("materialize dataset: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(buffer); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("materialize dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("materialize dataset: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&immutable=1", path))
	if err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("open dataset: %w", err)
	}
	// The handle lives on one goroutine; a second connection buys nothing.
	db.SetMaxOpenConns(1)

	var name string
	row := db.QueryRow(`SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, dataset.Table)
	if err := row.Scan(&name); err != nil {
		w.logger.Warn("dataset rejected during open", logging.Error(err))
		db.Close()
		os.Remove(path)
		return "", nil, ErrInvalidDataset
	}

	w.logger.Info("dataset opened", logging.Int("bytes", len(buffer)))
	return path, db, nil
}

// execQuery runs one statement and scans its rows. Store-level errors are
// logged with detail here and surfaced as the stable ErrQueryFailed.
func (w *Worker) execQuery(db *sql.DB, req Request) ([]dataset.Game, error) {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	rows, err := db.QueryContext(ctx, req.SQL, req.Args...)
	if err != nil {
		w.logger.Warn("query rejected by store",
			logging.Uint64("id", req.ID),
			logging.Error(err))
		return nil, ErrQueryFailed
	}
	defer rows.Close()

	games, err := dataset.ScanGames(rows, req.WithClones)
	if err != nil {
		w.logger.Warn("row scan failed",
			logging.Uint64("id", req.ID),
			logging.Error(err))
		return nil, ErrQueryFailed
	}
	return games, nil
}
