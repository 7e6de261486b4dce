// Package reconcile keeps the piece metadata database in step with the
// active registry source.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/piecesync/internal/core/config"
	"github.com/aevon-lab/piecesync/internal/core/piece"
	"github.com/aevon-lab/piecesync/internal/core/storage"
	"github.com/aevon-lab/piecesync/internal/registry"
	"github.com/aevon-lab/piecesync/internal/scheduler"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// JobName is the scheduler entry owned by the reconciler.
	JobName = "pieces-sync"
	// JobSchedule runs a pass at the top of every hour.
	JobSchedule = "0 * * * *"
)

// JobScheduler registers recurring jobs.
type JobScheduler interface {
	UpsertJob(ctx context.Context, job scheduler.Job) error
}

// Options carries the settings that decide whether and when passes run.
type Options struct {
	Mode          config.SyncMode
	Environment   config.Environment
	Source        config.PiecesSource
	LocalRegistry bool
}

// OptionsFromConfig extracts reconciler options from the loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Mode:          cfg.Pieces.SyncMode,
		Environment:   cfg.Environment,
		Source:        cfg.Pieces.Source,
		LocalRegistry: cfg.Pieces.IsLocalRegistry(),
	}
}

// Reconciler copies missing piece versions from a registry source into the
// metadata store. Rows are only ever inserted.
type Reconciler struct {
	source registry.Source
	store  storage.MetadataWriter
	jobs   JobScheduler
	opts   Options

	setupOnce sync.Once
	setupErr  error
	flight    singleflight.Group
	now       func() time.Time

	// passCtx bounds every pass. Callers only bound their own wait, so one
	// caller going away cannot cancel a pass that others have joined.
	passCtx context.Context
	stop    context.CancelFunc
}

func New(source registry.Source, store storage.MetadataWriter, jobs JobScheduler, opts Options) *Reconciler {
	if source == nil {
		panic("reconcile: source must not be nil")
	}
	if store == nil {
		panic("reconcile: store must not be nil")
	}
	passCtx, stop := context.WithCancel(context.Background())
	return &Reconciler{
		source:  source,
		store:   store,
		jobs:    jobs,
		opts:    opts,
		now:     time.Now,
		passCtx: passCtx,
		stop:    stop,
	}
}

// Close cancels the running pass, if any. Later passes fail fast.
func (r *Reconciler) Close() {
	r.stop()
}

// Mode returns the configured sync mode.
func (r *Reconciler) Mode() config.SyncMode {
	return r.opts.Mode
}

// Setup applies the sync mode once per process:
//   - NONE runs a single bootstrap pass against a local development database
//     (dev environment, DB source, local registry) and nothing otherwise.
//   - OFFICIAL_AUTO and LOCAL_AUTO register the hourly job and run one pass
//     before the first tick.
//   - MANUAL does nothing.
//
// Later calls return the first call's result without side effects.
func (r *Reconciler) Setup(ctx context.Context) error {
	r.setupOnce.Do(func() {
		r.setupErr = r.setup(ctx)
	})
	return r.setupErr
}

func (r *Reconciler) setup(ctx context.Context) error {
	switch {
	case r.opts.Mode == config.SyncModeNone:
		if r.opts.Environment == config.EnvDev && r.opts.Source == config.SourceDB && r.opts.LocalRegistry {
			slog.Info("[Reconciler] Sync disabled, running bootstrap pass for local dev database")
			r.Sync(ctx)
			return nil
		}
		slog.Info("[Reconciler] Sync disabled")
		return nil

	case r.opts.Mode.IsAuto():
		if r.jobs == nil {
			return fmt.Errorf("sync mode %s requires a job scheduler", r.opts.Mode)
		}
		err := r.jobs.UpsertJob(ctx, scheduler.Job{
			Name:     JobName,
			Schedule: JobSchedule,
			Handler: func(ctx context.Context) {
				r.Sync(ctx)
			},
		})
		if err != nil {
			return fmt.Errorf("register %s job: %w", JobName, err)
		}
		slog.Info("[Reconciler] Scheduled sync job", "job", JobName, "schedule", JobSchedule, "mode", r.opts.Mode)
		r.Sync(ctx)
		return nil

	default:
		slog.Info("[Reconciler] Manual sync mode, waiting for triggers")
		return nil
	}
}

// Sync runs one pass and returns its report. Overlapping calls share the
// in-flight pass. Sync never fails: listing errors land in Report.Err and
// per-piece errors in Report.Results.
//
// The pass runs on the reconciler's own context. Cancelling ctx stops the
// caller waiting (Report.Err wraps ctx.Err()) but leaves the pass running.
func (r *Reconciler) Sync(ctx context.Context) Report {
	ch := r.flight.DoChan("sync", func() (interface{}, error) {
		return r.sync(r.passCtx), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("[Reconciler] Joined in-flight sync pass")
		}
		return res.Val.(Report)
	case <-ctx.Done():
		now := r.now()
		slog.Warn("[Reconciler] Stopped waiting for sync pass", "error", ctx.Err())
		return Report{
			StartedAt:  now,
			FinishedAt: now,
			Err:        fmt.Errorf("wait for sync pass: %w", ctx.Err()),
		}
	}
}

func (r *Reconciler) sync(ctx context.Context) (report Report) {
	report.StartedAt = r.now()
	defer func() {
		if p := recover(); p != nil {
			report.Err = fmt.Errorf("sync pass panicked: %v", p)
			slog.Error("[Reconciler] Sync pass panicked", "panic", p)
		}
		report.FinishedAt = r.now()
		r.logReport(report)
	}()

	summaries, err := r.source.List(ctx)
	if err != nil {
		report.Err = fmt.Errorf("list pieces: %w", err)
		slog.Error("[Reconciler] Failed to list pieces", "error", err)
		return report
	}
	report.Listed = len(summaries)

	packageType := r.packageTypeFilter()
	var missing []piece.Summary
	for _, sum := range summaries {
		exists, err := r.store.ExistsBy(ctx, storage.ExistsQuery{
			Name:        sum.Name,
			Version:     sum.Version,
			PieceType:   piece.PieceTypeOfficial,
			PackageType: packageType,
		})
		if err != nil {
			slog.Error("[Reconciler] Failed to check piece", "name", sum.Name, "version", sum.Version, "error", err)
			report.Results = append(report.Results, PieceResult{
				Name:    sum.Name,
				Outcome: OutcomeFailed,
				Reason:  err.Error(),
			})
			continue
		}
		if !exists {
			missing = append(missing, sum)
		}
	}

	results := make([]PieceResult, len(missing))
	var g errgroup.Group
	for i, sum := range missing {
		i, sum := i, sum
		g.Go(func() error {
			results[i] = r.syncPieceSafe(ctx, sum.Name, packageType)
			return nil
		})
	}
	_ = g.Wait()

	report.Results = append(report.Results, results...)
	return report
}

// packageTypeFilter narrows existence checks to REGISTRY rows for remote
// sources. Local sources match rows of any package type.
func (r *Reconciler) packageTypeFilter() *piece.PackageType {
	if r.source.IsLocal() {
		return nil
	}
	pt := piece.PackageTypeRegistry
	return &pt
}

func (r *Reconciler) syncPieceSafe(ctx context.Context, name string, packageType *piece.PackageType) (res PieceResult) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("[Reconciler] Piece sync panicked", "name", name, "panic", p)
			res = PieceResult{Name: name, Outcome: OutcomeFailed, Reason: fmt.Sprintf("panic: %v", p)}
		}
	}()
	return r.syncPiece(ctx, name, packageType)
}

// syncPiece inserts every version of name that the store does not hold yet.
// The first error stops the piece; versions inserted before it are kept.
func (r *Reconciler) syncPiece(ctx context.Context, name string, packageType *piece.PackageType) PieceResult {
	res := PieceResult{Name: name}
	fail := func(err error) PieceResult {
		slog.Error("[Reconciler] Failed to sync piece", "name", name, "error", err)
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res
	}

	versions, err := r.source.ListVersions(ctx, name)
	if err != nil {
		return fail(fmt.Errorf("list versions: %w", err))
	}

	for _, version := range versions.Versions() {
		exists, err := r.store.ExistsBy(ctx, storage.ExistsQuery{
			Name:        name,
			Version:     version,
			PieceType:   piece.PieceTypeOfficial,
			PackageType: packageType,
		})
		if err != nil {
			return fail(fmt.Errorf("check %s: %w", version, err))
		}
		if exists {
			continue
		}

		m, err := r.source.Fetch(ctx, name, version)
		if err != nil {
			return fail(fmt.Errorf("fetch %s: %w", version, err))
		}

		pt := m.PackageType
		if pt == "" {
			pt = piece.PackageTypeRegistry
		}
		pieceType := m.PieceType
		if pieceType == "" {
			pieceType = piece.PieceTypeOfficial
		}
		err = r.store.Create(ctx, storage.CreateParams{
			Metadata:    m,
			PackageType: pt,
			PieceType:   pieceType,
		})
		if errors.Is(err, storage.ErrDuplicate) {
			if m.ArchiveID != "" {
				// The file store has no delete; the archive stays unreferenced.
				slog.Warn("[Reconciler] Version inserted concurrently, archive left unreferenced",
					"name", name, "version", version, "archive_id", m.ArchiveID)
			} else {
				slog.Debug("[Reconciler] Version inserted concurrently", "name", name, "version", version)
			}
			continue
		}
		if err != nil {
			return fail(fmt.Errorf("create %s: %w", version, err))
		}

		slog.Info("[Reconciler] Synced piece version", "name", name, "version", version, "package_type", pt)
		res.Versions = append(res.Versions, version)
	}

	if len(res.Versions) == 0 {
		res.Outcome = OutcomeSkipped
	} else {
		res.Outcome = OutcomeSynced
	}
	return res
}

func (r *Reconciler) logReport(report Report) {
	if report.Err != nil {
		slog.Error("[Reconciler] Sync pass aborted",
			"error", report.Err,
			"duration", report.Duration(),
		)
		return
	}
	slog.Info("[Reconciler] Sync pass complete",
		"listed", report.Listed,
		"synced", report.Count(OutcomeSynced),
		"skipped", report.Count(OutcomeSkipped),
		"failed", report.Count(OutcomeFailed),
		"versions_inserted", report.Inserted(),
		"duration", report.Duration(),
	)
}
