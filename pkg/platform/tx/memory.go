package tx

import (
	"context"
	"fmt"
	"sync"
)

// Journal collects undo steps registered by in-memory stores during a unit of
// work. Steps run in reverse order when the unit of work fails.
type Journal struct {
	undo []func()
}

// Record registers an undo step.
func (j *Journal) Record(undo func()) {
	j.undo = append(j.undo, undo)
}

func (j *Journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type journalKey struct{}

// JournalFrom returns the journal of the enclosing in-memory unit of work.
func JournalFrom(ctx context.Context) (*Journal, bool) {
	j, ok := ctx.Value(journalKey{}).(*Journal)
	return j, ok
}

// MemoryRunner serializes units of work behind one lock and undoes journaled
// writes on failure. Reads outside a unit of work may observe writes that are
// later undone.
type MemoryRunner struct {
	mu sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := JournalFrom(ctx); ok {
		// join the enclosing unit of work
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	j := &Journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		j.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		j.rollback()
		return fmt.Errorf("transaction aborted: %w", err)
	}
	return nil
}
