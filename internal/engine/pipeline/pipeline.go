// Package pipeline builds a server directory from the declared server model.
//
// Stages run in a fixed order. Each stage compares fresh resolutions with the
// previous lockfile, reuses what is unchanged and fetches the rest. The new
// lockfile replaces the old one only after every stage succeeded.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options are the per-run overrides of a build.
type Options struct {
	// OutputDir defaults to the "server" directory beside the server file.
	OutputDir string
	// Force refetches every artifact and rewrites every generated file.
	Force bool
	// SkipStages are left untouched and write no lockfile entries.
	SkipStages []domain.StageName
	// Parallelism bounds concurrent work inside a stage. Zero means one per CPU.
	Parallelism int
}

// Pipeline runs builds.
type Pipeline struct {
	resolver  ports.Resolver
	fetcher   ports.Fetcher
	store     ports.LockfileStore
	logger    ports.Logger
	telemetry ports.Telemetry
	metrics   ports.Metrics
	env       domain.EnvLookup
}

// New creates a Pipeline.
func New(
	resolver ports.Resolver,
	fetcher ports.Fetcher,
	store ports.LockfileStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics ports.Metrics,
) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		fetcher:   fetcher,
		store:     store,
		logger:    logger,
		telemetry: telemetry,
		metrics:   metrics,
		env:       os.LookupEnv,
	}
}

// SetEnv replaces the environment used for config rendering and start scripts.
func (p *Pipeline) SetEnv(env domain.EnvLookup) {
	p.env = env
}

// buildContext is the state of one run.
type buildContext struct {
	server    *domain.Server
	outputDir string
	force     bool
	skip      []domain.StageName
	workers   int
	software  domain.SoftwareType
	old       *domain.Lockfile
	next      *domain.Lockfile
	// superseded files are removed once the new lockfile is saved.
	superseded []string
}

// Run builds server into the output directory and returns a per-stage report.
// On failure the previous lockfile stays in place and the report covers the
// stages that ran.
func (p *Pipeline) Run(ctx context.Context, server *domain.Server, opts Options) (*domain.BuildReport, error) {
	start := time.Now()

	bc, err := p.newBuildContext(server, opts)
	if err != nil {
		return nil, err
	}

	report := &domain.BuildReport{OutputDir: bc.outputDir}
	for _, stage := range domain.Stages() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		sr, err := p.runStage(ctx, bc, stage)
		report.Stages = append(report.Stages, sr)
		if err != nil {
			return report, zerr.With(zerr.Wrap(err, domain.ErrStageFailed.Error()), "stage", string(stage))
		}
	}

	if err := p.store.Save(bc.outputDir, bc.next); err != nil {
		return report, err
	}
	p.removeSuperseded(bc)

	report.Duration = time.Since(start)
	return report, nil
}

func (p *Pipeline) newBuildContext(server *domain.Server, opts Options) (*buildContext, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = domain.DefaultOutputDir(server)
	}
	outputDir = filepath.Clean(outputDir)

	if err := os.MkdirAll(outputDir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputDirCreateFailed.Error()), "path", outputDir)
	}

	old, err := p.store.Load(outputDir)
	if err != nil {
		return nil, err
	}

	workers := opts.Parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &buildContext{
		server:    server,
		outputDir: outputDir,
		force:     opts.Force,
		skip:      opts.SkipStages,
		workers:   workers,
		software:  server.SoftwareType(),
		old:       old,
		next:      domain.NewLockfile(),
	}, nil
}

func (p *Pipeline) runStage(ctx context.Context, bc *buildContext, stage domain.StageName) (domain.StageReport, error) {
	if slices.Contains(bc.skip, stage) {
		p.logger.Info("skipping " + string(stage))
		p.metrics.ObserveStage(stage, domain.VertexStatusSkipped, 0)
		return domain.StageReport{Stage: stage, Status: domain.VertexStatusSkipped}, nil
	}

	start := time.Now()
	ctx, vertex := p.telemetry.Record(ctx, string(stage))

	var (
		results []itemResult
		err     error
	)
	switch stage {
	case domain.StageConfig:
		results, err = p.renderConfig(ctx, bc)
	case domain.StageLauncher:
		results, err = p.writeLauncher(ctx, bc)
	default:
		results, err = p.download(ctx, bc, stage, vertex)
	}

	sr := domain.StageReport{Stage: stage}
	if err == nil {
		err = p.commit(bc, stage, results, &sr)
	}
	sr.Duration = time.Since(start)

	switch {
	case err != nil:
		sr.Status = domain.VertexStatusFailed
	case sr.Fetched == 0 && sr.Reused > 0:
		sr.Status = domain.VertexStatusCached
		vertex.Cached()
	default:
		sr.Status = domain.VertexStatusCompleted
	}
	vertex.Complete(err)
	p.metrics.ObserveStage(stage, sr.Status, sr.Duration)

	return sr, err
}

// commit records results in declaration order and reports dependencies that
// the previous build had but the server no longer declares.
func (p *Pipeline) commit(bc *buildContext, stage domain.StageName, results []itemResult, sr *domain.StageReport) error {
	for _, r := range results {
		if err := bc.next.Put(r.entry); err != nil {
			return err
		}
		if r.superseded != "" {
			bc.superseded = append(bc.superseded, r.superseded)
		}
		switch r.outcome {
		case domain.OutcomeReused:
			sr.Reused++
		default:
			sr.Fetched++
		}
		p.metrics.ObserveArtifact(stage, r.outcome)
	}

	for _, old := range bc.old.StageEntries(stage) {
		if _, ok := bc.next.Get(old.Key); ok {
			continue
		}
		sr.Removed = append(sr.Removed, old.Key)
		p.metrics.ObserveArtifact(stage, domain.OutcomeRemoved)
		p.logger.Warn(old.Key + " is no longer declared, " + old.Path + " was left on disk")
	}
	return nil
}

// reusable reports whether the previous entry under key can stand in for a
// fresh resolution without touching disk.
func (bc *buildContext) reusable(key string, artifact domain.Artifact, rel string) (domain.LockEntry, bool) {
	if bc.force {
		return domain.LockEntry{}, false
	}
	old, ok := bc.old.Get(key)
	if !ok || old.Path != rel || !old.Artifact.Equivalent(artifact) {
		return domain.LockEntry{}, false
	}
	if !fileExists(bc.abs(rel)) {
		return domain.LockEntry{}, false
	}
	return old, true
}

// abs maps a slash-separated output path to the file system.
func (bc *buildContext) abs(rel string) string {
	return filepath.Join(bc.outputDir, filepath.FromSlash(rel))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
