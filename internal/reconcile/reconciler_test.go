package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/config"
	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	registrymocks "github.com/aevon-lab/piecesync/internal/mocks/registry"
	storagemocks "github.com/aevon-lab/piecesync/internal/mocks/storage"
	"github.com/aevon-lab/piecesync/internal/registry"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var remoteOpts = Options{Mode: config.SyncModeManual, Environment: config.EnvProd, Source: config.SourceDB}

func TestSync_RemoteFilterIncludesRegistryPackageType(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(false)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{
		{Name: "slack", Version: "0.5.2"},
		{Name: "gmail", Version: "1.0.0"},
	}, nil)

	registryFilter := func(name, version string) interface{} {
		return mock.MatchedBy(func(q storage.ExistsQuery) bool {
			return q.Name == name && q.Version == version &&
				q.PieceType == piece.PieceTypeOfficial &&
				q.PackageType != nil && *q.PackageType == piece.PackageTypeRegistry
		})
	}
	store.EXPECT().ExistsBy(mock.Anything, registryFilter("slack", "0.5.2")).Return(true, nil).Once()
	store.EXPECT().ExistsBy(mock.Anything, registryFilter("gmail", "1.0.0")).Return(false, nil).Twice()
	store.EXPECT().ExistsBy(mock.Anything, registryFilter("gmail", "0.9.0")).Return(true, nil).Once()

	src.EXPECT().ListVersions(mock.Anything, "gmail").Return(registry.VersionMap{"0.9.0": {}, "1.0.0": {}}, nil)
	src.EXPECT().Fetch(mock.Anything, "gmail", "1.0.0").Return(&piece.Metadata{Name: "gmail", Version: "1.0.0"}, nil)
	store.EXPECT().Create(mock.Anything, mock.MatchedBy(func(p storage.CreateParams) bool {
		return p.Metadata.Name == "gmail" &&
			p.PackageType == piece.PackageTypeRegistry &&
			p.PieceType == piece.PieceTypeOfficial
	})).Return(nil).Once()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, 2, report.Listed)
	require.Equal(t, []PieceResult{{Name: "gmail", Outcome: OutcomeSynced, Versions: []string{"1.0.0"}}}, report.Results)
}

func TestSync_LocalFilterOmitsPackageType(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(true)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)

	anyPackage := mock.MatchedBy(func(q storage.ExistsQuery) bool {
		return q.Name == "slack" && q.PackageType == nil
	})
	store.EXPECT().ExistsBy(mock.Anything, anyPackage).Return(false, nil).Twice()

	src.EXPECT().ListVersions(mock.Anything, "slack").Return(registry.VersionMap{"0.5.2": {}}, nil)
	src.EXPECT().Fetch(mock.Anything, "slack", "0.5.2").Return(&piece.Metadata{
		Name:        "slack",
		Version:     "0.5.2",
		PackageType: piece.PackageTypeArchive,
		ArchiveID:   "file-1",
	}, nil)
	store.EXPECT().Create(mock.Anything, mock.MatchedBy(func(p storage.CreateParams) bool {
		return p.PackageType == piece.PackageTypeArchive && p.Metadata.ArchiveID == "file-1"
	})).Return(nil).Once()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, 1, report.Count(OutcomeSynced))
}

func TestSync_SecondPassInsertsNothing(t *testing.T) {
	src := newFakeSource(false).
		add("slack", "0.5.1", "0.5.2").
		add("gmail", "1.0.0")
	store := newMemoryStore()
	r := New(src, store, nil, remoteOpts)

	first := r.Sync(context.Background())
	require.NoError(t, first.Err)
	require.Equal(t, 2, first.Count(OutcomeSynced))
	require.Equal(t, 3, first.Inserted())
	require.Equal(t, 3, store.count())

	second := r.Sync(context.Background())
	require.NoError(t, second.Err)
	require.Equal(t, 2, second.Listed)
	require.Empty(t, second.Results)
	require.Equal(t, 0, second.Inserted())
	require.Equal(t, 3, store.creates)
}

func TestSync_ListingFailureIsRecorded(t *testing.T) {
	src := newFakeSource(false)
	src.listErr = &registry.StatusError{StatusCode: 500, Body: "boom"}
	store := newMemoryStore()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.Error(t, report.Err)
	require.Contains(t, report.Err.Error(), "boom")
	require.Empty(t, report.Results)
	require.Zero(t, store.count())
	require.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestSync_OneFailedPieceDoesNotAbortOthers(t *testing.T) {
	src := newFakeSource(false).
		add("slack", "0.5.2").
		add("gmail", "1.0.0").
		add("jira", "2.1.0")
	src.fetchErr["gmail"] = errors.New("connection reset")
	store := newMemoryStore()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Len(t, report.Results, 3)
	require.Equal(t, 2, report.Count(OutcomeSynced))
	require.Equal(t, 1, report.Count(OutcomeFailed))
	require.Equal(t, 2, store.count())

	for _, res := range report.Results {
		if res.Name == "gmail" {
			require.Equal(t, OutcomeFailed, res.Outcome)
			require.Contains(t, res.Reason, "connection reset")
		}
	}
}

func TestSync_DuplicateInsertCountsAsSkipped(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(false)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, nil)
	src.EXPECT().ListVersions(mock.Anything, "slack").Return(registry.VersionMap{"0.5.2": {}}, nil)
	src.EXPECT().Fetch(mock.Anything, "slack", "0.5.2").Return(&piece.Metadata{Name: "slack", Version: "0.5.2"}, nil)
	store.EXPECT().Create(mock.Anything, mock.Anything).Return(storage.ErrDuplicate)

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, []PieceResult{{Name: "slack", Outcome: OutcomeSkipped}}, report.Results)
}

func TestSync_DuplicateInsertWithArchiveCountsAsSkipped(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(true)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, nil)
	src.EXPECT().ListVersions(mock.Anything, "slack").Return(registry.VersionMap{"0.5.2": {}}, nil)
	src.EXPECT().Fetch(mock.Anything, "slack", "0.5.2").Return(&piece.Metadata{
		Name:        "slack",
		Version:     "0.5.2",
		PackageType: piece.PackageTypeArchive,
		ArchiveID:   "file-7",
	}, nil)
	store.EXPECT().Create(mock.Anything, mock.Anything).Return(storage.ErrDuplicate).Once()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, []PieceResult{{Name: "slack", Outcome: OutcomeSkipped}}, report.Results)
}

func TestSync_InsertKeepsFetchedPieceType(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(false)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "acme", Version: "1.0.0"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, nil)
	src.EXPECT().ListVersions(mock.Anything, "acme").Return(registry.VersionMap{"1.0.0": {}}, nil)
	src.EXPECT().Fetch(mock.Anything, "acme", "1.0.0").Return(&piece.Metadata{
		Name:      "acme",
		Version:   "1.0.0",
		PieceType: piece.PieceTypeCustom,
	}, nil)
	store.EXPECT().Create(mock.Anything, mock.MatchedBy(func(p storage.CreateParams) bool {
		return p.PieceType == piece.PieceTypeCustom && p.PackageType == piece.PackageTypeRegistry
	})).Return(nil).Once()

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, 1, report.Count(OutcomeSynced))
}

func TestSync_PieceWithoutVersionsIsSkipped(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(true)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, nil).Once()
	src.EXPECT().ListVersions(mock.Anything, "slack").Return(registry.VersionMap{}, nil)

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, []PieceResult{{Name: "slack", Outcome: OutcomeSkipped}}, report.Results)
}

func TestSync_ExistsFailureRecordedPerPiece(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(false)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, errors.New("db down"))

	report := New(src, store, nil, remoteOpts).Sync(context.Background())

	require.NoError(t, report.Err)
	require.Equal(t, 1, report.Count(OutcomeFailed))
	require.Equal(t, "db down", report.Results[0].Reason)
}

func TestSync_PanicIsContained(t *testing.T) {
	src := registrymocks.NewSource(t)
	store := storagemocks.NewMetadataStore(t)

	src.EXPECT().IsLocal().Return(false)
	src.EXPECT().List(mock.Anything).Return([]piece.Summary{{Name: "slack", Version: "0.5.2"}}, nil)
	store.EXPECT().ExistsBy(mock.Anything, mock.Anything).Return(false, nil)
	src.EXPECT().ListVersions(mock.Anything, "slack").RunAndReturn(func(ctx context.Context, name string) (registry.VersionMap, error) {
		panic("unexpected nil")
	})

	var report Report
	require.NotPanics(t, func() {
		report = New(src, store, nil, remoteOpts).Sync(context.Background())
	})
	require.Equal(t, 1, report.Count(OutcomeFailed))
	require.Contains(t, report.Results[0].Reason, "unexpected nil")
}

func TestSync_CoalescesOverlappingCalls(t *testing.T) {
	src := newFakeSource(false).add("slack", "0.5.2")
	src.entered = make(chan struct{})
	src.release = make(chan struct{})
	r := New(src, newMemoryStore(), nil, remoteOpts)

	var wg sync.WaitGroup
	reports := make([]Report, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[0] = r.Sync(context.Background())
	}()
	<-src.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[1] = r.Sync(context.Background())
	}()
	time.Sleep(100 * time.Millisecond)
	close(src.release)
	wg.Wait()

	require.Equal(t, 1, src.calls())
	require.Equal(t, reports[0].StartedAt, reports[1].StartedAt)
	require.Equal(t, 1, reports[1].Inserted())
}

func TestSync_CallerCancelDoesNotCancelSharedPass(t *testing.T) {
	src := newFakeSource(false).add("slack", "0.5.2")
	src.entered = make(chan struct{})
	src.release = make(chan struct{})
	store := newMemoryStore()
	r := New(src, store, nil, remoteOpts)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan Report, 1)
	go func() { first <- r.Sync(ctx) }()
	<-src.entered

	second := make(chan Report, 1)
	go func() { second <- r.Sync(context.Background()) }()
	time.Sleep(100 * time.Millisecond)

	cancel()
	gone := <-first
	require.ErrorIs(t, gone.Err, context.Canceled)

	close(src.release)
	report := <-second

	require.NoError(t, report.Err)
	require.Equal(t, 1, report.Count(OutcomeSynced))
	require.Zero(t, report.Count(OutcomeFailed))
	require.Equal(t, 1, store.count())
	require.Equal(t, 1, src.calls())
}

func TestClose_CancelsPasses(t *testing.T) {
	src := newFakeSource(false).add("slack", "0.5.2")
	store := newMemoryStore()
	r := New(src, store, nil, remoteOpts)

	r.Close()
	report := r.Sync(context.Background())

	require.ErrorIs(t, report.Err, context.Canceled)
	require.Zero(t, store.count())
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantPasses int
		wantJob    bool
	}{
		{
			name:       "none bootstraps local dev database",
			opts:       Options{Mode: config.SyncModeNone, Environment: config.EnvDev, Source: config.SourceDB, LocalRegistry: true},
			wantPasses: 1,
		},
		{
			name:       "none in prod does nothing",
			opts:       Options{Mode: config.SyncModeNone, Environment: config.EnvProd, Source: config.SourceDB, LocalRegistry: true},
			wantPasses: 0,
		},
		{
			name:       "none with file source does nothing",
			opts:       Options{Mode: config.SyncModeNone, Environment: config.EnvDev, Source: config.SourceFile, LocalRegistry: true},
			wantPasses: 0,
		},
		{
			name:       "none with remote registry does nothing",
			opts:       Options{Mode: config.SyncModeNone, Environment: config.EnvDev, Source: config.SourceDB},
			wantPasses: 0,
		},
		{
			name:       "manual does nothing",
			opts:       Options{Mode: config.SyncModeManual, Environment: config.EnvDev, Source: config.SourceDB, LocalRegistry: true},
			wantPasses: 0,
		},
		{
			name:       "official auto schedules and runs once",
			opts:       Options{Mode: config.SyncModeOfficialAuto, Environment: config.EnvProd, Source: config.SourceDB},
			wantPasses: 1,
			wantJob:    true,
		},
		{
			name:       "local auto schedules and runs once",
			opts:       Options{Mode: config.SyncModeLocalAuto, Environment: config.EnvDev, Source: config.SourceDB, LocalRegistry: true},
			wantPasses: 1,
			wantJob:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := newFakeSource(tc.opts.LocalRegistry).add("slack", "0.5.2")
			jobs := &recordingScheduler{}
			r := New(src, newMemoryStore(), jobs, tc.opts)

			require.NoError(t, r.Setup(context.Background()))
			require.NoError(t, r.Setup(context.Background()))

			require.Equal(t, tc.wantPasses, src.calls())
			if !tc.wantJob {
				require.Empty(t, jobs.jobs)
				return
			}
			require.Len(t, jobs.jobs, 1)
			require.Equal(t, JobName, jobs.jobs[0].Name)
			require.Equal(t, "0 * * * *", jobs.jobs[0].Schedule)

			jobs.jobs[0].Handler(context.Background())
			require.Equal(t, tc.wantPasses+1, src.calls())
		})
	}
}

func TestSetup_SchedulerFailure(t *testing.T) {
	src := newFakeSource(false)
	jobs := &recordingScheduler{err: errors.New("scheduler closed")}
	r := New(src, newMemoryStore(), jobs, Options{Mode: config.SyncModeOfficialAuto})

	err := r.Setup(context.Background())
	require.ErrorContains(t, err, "scheduler closed")
	require.Zero(t, src.calls())

	require.Equal(t, err, r.Setup(context.Background()))
}
