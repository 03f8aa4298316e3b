// Package app implements the application layer for mcsmith.
package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/mcsmith/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// newWorldItem is the select entry that creates a world instead of picking one.
const newWorldItem = "+ New world entry"

// defaultWorldName is offered when a datapack creates the first world entry.
const defaultWorldName = "world"

// App represents the main application logic.
type App struct {
	configStore ports.ConfigStore
	pipeline    *pipeline.Pipeline
	cache       ports.MetadataCache
	prompter    ports.Prompter
	logger      ports.Logger
	metrics     ports.Metrics
	outputs     []any
}

// New creates a new App instance.
func New(
	store ports.ConfigStore,
	p *pipeline.Pipeline,
	cache ports.MetadataCache,
	prompter ports.Prompter,
	log ports.Logger,
	metrics ports.Metrics,
) *App {
	return &App{
		configStore: store,
		pipeline:    p,
		cache:       cache,
		prompter:    prompter,
		logger:      log,
		metrics:     metrics,
	}
}

// WithOutputs registers components whose terminal output is silenced by quiet builds.
func (a *App) WithOutputs(outputs ...any) *App {
	a.outputs = append(a.outputs, outputs...)
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	OutputDir   string
	Force       bool
	Skip        []domain.StageName
	Parallelism int
	// MetricsFile receives the build metrics in the Prometheus text format when set.
	MetricsFile string
	Quiet       bool
}

// Build materializes the server declared at path into the output directory.
func (a *App) Build(ctx context.Context, path string, opts BuildOptions) (*domain.BuildReport, error) {
	if opts.Quiet {
		a.silence()
	}

	server, err := a.configStore.Load(path)
	if err != nil {
		return nil, err
	}

	report, err := a.pipeline.Run(ctx, server, pipeline.Options{
		OutputDir:   opts.OutputDir,
		Force:       opts.Force,
		SkipStages:  opts.Skip,
		Parallelism: opts.Parallelism,
	})
	if err != nil {
		return report, zerr.With(zerr.Wrap(err, domain.ErrBuildFailed.Error()), "server", server.Name)
	}

	if opts.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return report, err
		}
	}

	a.logger.Info(fmt.Sprintf("built %s in %s: %d fetched, %d reused",
		report.OutputDir, report.Duration.Round(time.Millisecond), report.Fetched(), report.Reused()))
	return report, nil
}

func (a *App) silence() {
	type quieter interface{ SetQuiet(bool) }
	type progressOutput interface{ SetProgressOutput(io.Writer) }
	type statusOutput interface{ SetOutput(io.Writer) }

	if q, ok := a.logger.(quieter); ok {
		q.SetQuiet(true)
	}
	for _, out := range a.outputs {
		switch o := out.(type) {
		case progressOutput:
			o.SetProgressOutput(nil)
		case statusOutput:
			o.SetOutput(nil)
		}
	}
}

// AddOptions configuration for the AddAddon and AddDatapack methods.
type AddOptions struct {
	// Path is the server file or the directory holding it.
	Path string
	// Yes answers confirmation questions with yes.
	Yes bool
	// World is the world entry a datapack goes into. Empty asks the user.
	World string
}

// AddAddon declares a plugin or mod in the server file.
// AddonInferred derives the type from the server jar and asks when it cannot.
func (a *App) AddAddon(_ context.Context, addonType domain.AddonType, rawSource string, opts AddOptions) error {
	src, err := domain.ParseSource(rawSource)
	if err != nil {
		return err
	}

	server, err := a.configStore.Load(opts.Path)
	if err != nil {
		return err
	}

	if addonType == domain.AddonInferred {
		if addonType, err = a.inferAddonType(server); err != nil {
			return err
		}
	}

	list := server.Addons(addonType)
	if list == nil {
		return zerr.With(domain.ErrAddonTypeRequired, "type", string(addonType))
	}

	if n := countMatching(*list, src); n > 0 && !opts.Yes {
		ok, err := a.prompter.Confirm(fmt.Sprintf("%d matching %s(s) found in %s, add anyway?", n, addonType, server.Path))
		if err != nil {
			return err
		}
		if !ok {
			a.logger.Info(fmt.Sprintf("%s was not added", src))
			return nil
		}
	}

	*list = append(*list, src)
	if err := a.configStore.Save(server); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("added %s: %s", addonType, src))
	return nil
}

func (a *App) inferAddonType(server *domain.Server) (domain.AddonType, error) {
	if t, ok := domain.AddonTypeFor(server.SoftwareType()); ok {
		return t, nil
	}

	types := domain.AddonTypes()
	items := make([]string, len(types))
	for i, t := range types {
		items[i] = string(t)
	}

	idx, err := a.prompter.Select("Import as?", items)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(types) {
		return "", domain.ErrAddonTypeRequired
	}
	return types[idx], nil
}

// AddDatapack declares a datapack in a world entry of the server file.
func (a *App) AddDatapack(_ context.Context, rawSource string, opts AddOptions) error {
	src, err := domain.ParseSource(rawSource)
	if err != nil {
		return err
	}

	server, err := a.configStore.Load(opts.Path)
	if err != nil {
		return err
	}

	worldName := opts.World
	if worldName == "" {
		if worldName, err = a.chooseWorld(server); err != nil {
			return err
		}
		if _, ok := server.Worlds[worldName]; !ok {
			if server.Worlds == nil {
				server.Worlds = make(map[string]domain.World)
			}
			server.Worlds[worldName] = domain.World{}
		}
	}

	world, ok := server.Worlds[worldName]
	if !ok {
		return zerr.With(domain.ErrWorldNotFound, "world", worldName)
	}
	world.Datapacks = append(world.Datapacks, src)
	server.Worlds[worldName] = world

	if err := a.configStore.Save(server); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("added datapack %s to %s", src, worldName))
	return nil
}

func (a *App) chooseWorld(server *domain.Server) (string, error) {
	names := server.WorldNames()
	if len(names) > 0 {
		idx, err := a.prompter.Select("Add datapack to...", append(slices.Clone(names), newWorldItem))
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(names) {
			return names[idx], nil
		}
	}
	return a.prompter.Prompt("World Name", defaultWorldName)
}

// CleanCache removes every cached source response.
func (a *App) CleanCache(_ context.Context) error {
	a.logger.Info("removing metadata cache...")
	if err := a.cache.Clear(); err != nil {
		return err
	}
	a.logger.Info("removed metadata cache")
	return nil
}

func countMatching(list []domain.Source, src domain.Source) int {
	n := 0
	for _, s := range list {
		if s.IsSameAs(src) {
			n++
		}
	}
	return n
}
