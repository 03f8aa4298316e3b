package pipeline

import (
	"context"
	"os"
	"path"

	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// item is one declared dependency of a download stage.
type item struct {
	key    string
	src    domain.Source
	dir    string
	target domain.ResolveTarget
}

type itemResult struct {
	entry   domain.LockEntry
	outcome domain.ItemOutcome
	// superseded is the file an earlier build wrote for this dependency under another name.
	superseded string
}

// items lists the dependencies a download stage materializes, in declaration order.
func (p *Pipeline) items(bc *buildContext, stage domain.StageName) []item {
	s := bc.server
	target := s.TargetFor(stage)

	switch stage {
	case domain.StageJar:
		if s.Jar.Kind == "" {
			p.logger.Warn("no server jar declared")
			return nil
		}
		return []item{{key: stageKey(stage, s.Jar), src: s.Jar, dir: ".", target: target}}

	case domain.StagePlugins:
		if len(s.Plugins) > 0 && !bc.software.AcceptsPlugins() {
			p.logger.Warn("plugins are declared but the " + string(bc.software) + " server software does not load plugins")
		}
		return p.group(stage, s.Plugins, domain.PluginsDirName, target)

	case domain.StageMods:
		if len(s.Mods) > 0 && !bc.software.AcceptsMods() {
			p.logger.Warn("mods are declared but the " + string(bc.software) + " server software does not load mods")
		}
		return p.group(stage, s.Mods, domain.ModsDirName, target)

	case domain.StageWorlds:
		var out []item
		for _, world := range s.WorldNames() {
			packs := p.group(domain.StageName(string(stage)+"/"+world), s.Worlds[world].Datapacks,
				path.Join(world, domain.DatapacksDirName), target)
			out = append(out, packs...)
		}
		return out
	}
	return nil
}

// group turns one declaration list into items, collapsing duplicates onto the first declaration.
func (p *Pipeline) group(prefix domain.StageName, srcs []domain.Source, dir string, target domain.ResolveTarget) []item {
	out := make([]item, 0, len(srcs))
	for _, src := range srcs {
		duplicate := false
		for _, seen := range out {
			if seen.src.IsSameAs(src) {
				duplicate = true
				break
			}
		}
		if duplicate {
			p.logger.Warn(src.String() + " is declared more than once in " + string(prefix) + ", using the first declaration")
			continue
		}
		out = append(out, item{key: stageKey(prefix, src), src: src, dir: dir, target: target})
	}
	return out
}

func stageKey(prefix domain.StageName, src domain.Source) string {
	return string(prefix) + "/" + src.Key()
}

// download resolves every item of the stage and fetches what changed.
func (p *Pipeline) download(ctx context.Context, bc *buildContext, stage domain.StageName, vertex ports.Vertex) ([]itemResult, error) {
	items := p.items(bc, stage)
	return runParallel(ctx, bc.workers, len(items), func(ctx context.Context, i int) (itemResult, error) {
		it := items[i]
		r, err := p.materialize(ctx, bc, stage, it, vertex)
		if err != nil {
			return itemResult{}, zerr.With(err, "dependency", it.src.String())
		}
		return r, nil
	})
}

func (p *Pipeline) materialize(
	ctx context.Context,
	bc *buildContext,
	stage domain.StageName,
	it item,
	vertex ports.Vertex,
) (itemResult, error) {
	artifact, err := p.resolver.Resolve(ctx, it.src, it.target)
	if err != nil {
		return itemResult{}, err
	}

	rel := path.Join(it.dir, artifact.Filename)
	if old, ok := bc.reusable(it.key, artifact, rel); ok {
		vertex.Log(domain.LogLevelDebug, "reused "+rel)
		return itemResult{entry: old, outcome: domain.OutcomeReused}, nil
	}

	body, err := p.resolver.Open(ctx, artifact)
	if err != nil {
		return itemResult{}, err
	}
	defer func() {
		_ = body.Close()
	}()

	if err := p.fetcher.Fetch(ctx, body, artifact, bc.abs(rel)); err != nil {
		return itemResult{}, err
	}
	p.logger.Info("fetched " + rel)

	var superseded string
	if old, ok := bc.old.Get(it.key); ok && old.Path != rel {
		superseded = old.Path
	}

	src := it.src
	return itemResult{
		superseded: superseded,
		entry: domain.LockEntry{
			Stage:    stage,
			Key:      it.key,
			Source:   &src,
			Artifact: artifact,
			Path:     rel,
		},
		outcome: domain.OutcomeFetched,
	}, nil
}

// removeSuperseded deletes files an earlier build wrote for dependencies whose
// filename has since changed. It runs only after the new lockfile was saved,
// and keeps any path the new lockfile still records.
func (p *Pipeline) removeSuperseded(bc *buildContext) {
	inUse := make(map[string]bool, bc.next.Len())
	for _, e := range bc.next.Entries() {
		inUse[e.Path] = true
	}
	for _, rel := range bc.superseded {
		if !inUse[rel] {
			p.removeFile(bc, rel)
		}
	}
}

func (p *Pipeline) removeFile(bc *buildContext, rel string) {
	err := os.Remove(bc.abs(rel))
	switch {
	case err == nil:
		p.logger.Info("removed superseded " + rel)
	case !os.IsNotExist(err):
		p.logger.Warn("could not remove superseded " + rel + ": " + err.Error())
	}
}

// runParallel runs work for indices [0, n) with at most limit in flight.
// Results keep index order. The first error cancels the remaining work.
func runParallel(
	ctx context.Context,
	limit, n int,
	work func(ctx context.Context, i int) (itemResult, error),
) ([]itemResult, error) {
	results := make([]itemResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range n {
		g.Go(func() error {
			r, err := work(gctx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
