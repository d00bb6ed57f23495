package dbworker

import "sync"

// pendingTable tracks in-flight requests by correlation identifier. Entries
// are inserted on dispatch and removed exactly once, whether by response
// delivery, caller abandonment, or termination.
type pendingTable struct {
	mu sync.Mutex
	m  map[uint64]chan Response
}

func newPendingTable() *pendingTable {
	return &pendingTable{m: make(map[uint64]chan Response)}
}

// register creates the reply channel for id. The channel is buffered so the
// worker never blocks delivering to a caller that has already timed out.
func (p *pendingTable) register(id uint64) chan Response {
	ch := make(chan Response, 1)
	p.mu.Lock()
	p.m[id] = ch
	p.mu.Unlock()
	return ch
}

// resolve delivers resp to the caller waiting on resp.ID and removes the
// entry. It reports false when no entry exists, which means the caller
// already abandoned the request.
func (p *pendingTable) resolve(resp Response) bool {
	p.mu.Lock()
	ch, ok := p.m[resp.ID]
	if ok {
		delete(p.m, resp.ID)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	ch <- resp
	return true
}

// remove drops the entry for id without delivering anything. Used by callers
// that stop waiting; a later worker response for id is then discarded.
func (p *pendingTable) remove(id uint64) bool {
	p.mu.Lock()
	_, ok := p.m[id]
	if ok {
		delete(p.m, id)
	}
	p.mu.Unlock()
	return ok
}

// rejectAll fails every outstanding request with err and empties the table.
func (p *pendingTable) rejectAll(err error) int {
	p.mu.Lock()
	entries := p.m
	p.m = make(map[uint64]chan Response)
	p.mu.Unlock()

	for id, ch := range entries {
		ch <- Response{ID: id, Err: err}
	}
	return len(entries)
}

// size returns the number of outstanding requests.
func (p *pendingTable) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
