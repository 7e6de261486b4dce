package reconcile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/aevon-lab/piecesync/internal/registry"
	"github.com/aevon-lab/piecesync/internal/scheduler"
)

// fakeSource serves an in-memory catalog: name -> version -> metadata.
type fakeSource struct {
	mu        sync.Mutex
	local     bool
	pieces    map[string]map[string]*piece.Metadata
	listErr   error
	fetchErr  map[string]error
	listCalls int

	entered chan struct{}
	release chan struct{}
}

func newFakeSource(local bool) *fakeSource {
	return &fakeSource{
		local:    local,
		pieces:   make(map[string]map[string]*piece.Metadata),
		fetchErr: make(map[string]error),
	}
}

func (s *fakeSource) add(name string, versions ...string) *fakeSource {
	if s.pieces[name] == nil {
		s.pieces[name] = make(map[string]*piece.Metadata)
	}
	for _, v := range versions {
		m := &piece.Metadata{Name: name, Version: v, Actions: map[string]any{"run": nil}}
		if s.local {
			m.PackageType = piece.PackageTypeArchive
			m.ArchiveID = "archive-" + name + "-" + v
		}
		s.pieces[name][v] = m
	}
	return s
}

func (s *fakeSource) IsLocal() bool { return s.local }

func (s *fakeSource) List(ctx context.Context) ([]piece.Summary, error) {
	s.mu.Lock()
	s.listCalls++
	entered, release := s.entered, s.release
	s.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.listErr != nil {
		return nil, s.listErr
	}

	var out []piece.Summary
	for _, versions := range s.pieces {
		vm := registry.VersionMap{}
		for v := range versions {
			vm[v] = struct{}{}
		}
		all := vm.Versions()
		out = append(out, versions[all[len(all)-1]].Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeSource) ListVersions(ctx context.Context, name string) (registry.VersionMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	versions, ok := s.pieces[name]
	if !ok {
		return nil, registry.ErrPieceNotFound
	}
	vm := registry.VersionMap{}
	for v := range versions {
		vm[v] = struct{}{}
	}
	return vm, nil
}

func (s *fakeSource) Fetch(ctx context.Context, name, version string) (*piece.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.fetchErr[name]; err != nil {
		return nil, err
	}
	m, ok := s.pieces[name][version]
	if !ok {
		return nil, fmt.Errorf("%w: %s@%s", registry.ErrPieceNotFound, name, version)
	}
	cp := *m
	return &cp, nil
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

// memoryStore is an in-memory MetadataWriter keyed like the unique index.
type memoryStore struct {
	mu      sync.Mutex
	rows    map[string]storage.CreateParams
	creates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]storage.CreateParams)}
}

func rowKey(name, version string, pt piece.PieceType, pkg piece.PackageType) string {
	return fmt.Sprintf("%s|%s|%s|%s", name, version, pt, pkg)
}

func (s *memoryStore) ExistsBy(ctx context.Context, q storage.ExistsQuery) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.Metadata.Name != q.Name || p.Metadata.Version != q.Version || p.PieceType != q.PieceType {
			continue
		}
		if q.PackageType == nil || *q.PackageType == p.PackageType {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Create(ctx context.Context, params storage.CreateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rowKey(params.Metadata.Name, params.Metadata.Version, params.PieceType, params.PackageType)
	if _, ok := s.rows[key]; ok {
		return storage.ErrDuplicate
	}
	s.rows[key] = params
	s.creates++
	return nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type recordingScheduler struct {
	jobs []scheduler.Job
	err  error
}

func (s *recordingScheduler) UpsertJob(ctx context.Context, job scheduler.Job) error {
	if s.err != nil {
		return s.err
	}
	s.jobs = append(s.jobs, job)
	return nil
}
