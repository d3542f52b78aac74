package scheduler

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/linkroll/internal/domain"
)

type fakeSource struct {
	name  string
	mu    sync.Mutex
	snaps []*domain.Snapshot
	err   error
	loads int
}

func (s *fakeSource) Name() string { return s.name }

// Load returns the queued snapshots in order, repeating the last one.
func (s *fakeSource) Load(context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	snap := s.snaps[0]
	if len(s.snaps) > 1 {
		s.snaps = s.snaps[1:]
	}
	return cloneSnapshot(snap), nil
}

func (s *fakeSource) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func cloneSnapshot(snap *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{}
	for _, c := range snap.Categories {
		out.Categories = append(out.Categories, c.Clone())
	}
	for _, b := range snap.Bookmarks {
		out.Bookmarks = append(out.Bookmarks, b.Clone())
	}
	return out
}

type fakeReplica struct {
	name      string
	saveErr   error
	deleteErr error
	saved     []*domain.Snapshot
	deleted   []int64
}

func (r *fakeReplica) Name() string { return r.name }

func (r *fakeReplica) SaveSnapshot(_ context.Context, snap *domain.Snapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, snap)
	return nil
}

func (r *fakeReplica) DeleteBookmark(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCache struct {
	flushes int
	err     error
}

func (c *fakeCache) FlushRenders(context.Context) (int, error) {
	c.flushes++
	return 3, c.err
}

type fakeLoader struct {
	snap *domain.Snapshot
	err  error
}

func (l *fakeLoader) LoadSnapshot(context.Context) (*domain.Snapshot, error) {
	return l.snap, l.err
}
