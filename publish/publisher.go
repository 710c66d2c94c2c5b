package publish

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ekala-project/atom/internal/logging"
	"github.com/ekala-project/atom/store"
)

// Publisher publishes Atoms one at a time against the tree validated by
// Builder.Build. It is never constructed directly; Build is the only
// way to obtain one, so every Publisher is backed by a tree already
// known to contain no duplicate Atom Ids.
type Publisher struct {
	ctx      context.Context
	backend  store.Backend
	remote   string
	revision store.CommitID
	root     store.Root

	pushes     errgroup.Group
	pushErrMu  sync.Mutex
	pushErrors []error
}

// PublishResult pairs the path an Atom was published from with the
// outcome of that attempt, or the error that stopped it.
type PublishResult struct {
	Path    string
	Outcome Outcome
	Err     error
}

// Publish publishes every path in paths, continuing past individual
// failures so that one bad Atom does not block the rest of the batch.
func (p *Publisher) Publish(paths []string) []PublishResult {
	results := make([]PublishResult, 0, len(paths))
	for _, path := range paths {
		outcome, err := p.publishAtom(path)
		if err != nil {
			logging.WithPath(path).WithError(err).Error("failed to publish atom")
		}
		results = append(results, PublishResult{Path: path, Outcome: outcome, Err: err})
	}
	return results
}

// PublishAtom publishes a single path, exposing the per-Atom pipeline
// directly for callers that want to interleave publishing with other
// work instead of handing Publish a full batch.
func (p *Publisher) PublishAtom(path string) (Outcome, error) {
	return p.publishAtom(path)
}

// schedulePush queues an asynchronous push of ref to the remote this
// Publisher was built against. Failures surface from AwaitPushes, not
// from the per-Atom pipeline that scheduled them: a push failure never
// un-publishes content that is already committed locally.
func (p *Publisher) schedulePush(ref string) {
	p.pushes.Go(func() error {
		refspec := fmt.Sprintf("%s:%s", ref, ref)
		if err := p.backend.Push(p.ctx, p.remote, refspec); err != nil {
			wrapped := fmt.Errorf("pushing %s: %w", ref, err)
			p.pushErrMu.Lock()
			p.pushErrors = append(p.pushErrors, wrapped)
			p.pushErrMu.Unlock()
			return wrapped
		}
		return nil
	})
}

// AwaitPushes blocks until every push scheduled by prior Publish /
// PublishAtom calls has completed, returning every individual failure
// (not just the first) wrapped in a SomePushFailedError.
func (p *Publisher) AwaitPushes() error {
	_ = p.pushes.Wait()
	if len(p.pushErrors) == 0 {
		return nil
	}
	return &SomePushFailedError{Errors: p.pushErrors}
}
