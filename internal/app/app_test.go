package app_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/adapters/fetch"
	"go.trai.ch/mcsmith/internal/adapters/lockstore"
	"go.trai.ch/mcsmith/internal/adapters/metrics"
	"go.trai.ch/mcsmith/internal/adapters/telemetry/progrock"
	"go.trai.ch/mcsmith/internal/app"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports/mocks"
	"go.trai.ch/mcsmith/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store    *mocks.MockConfigStore
	resolver *mocks.MockResolver
	cache    *mocks.MockMetadataCache
	prompter *mocks.MockPrompter
	logger   *mocks.MockLogger
	metrics  *metrics.Collector
	fetcher  *fetch.Fetcher
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		store:    mocks.NewMockConfigStore(ctrl),
		resolver: mocks.NewMockResolver(ctrl),
		cache:    mocks.NewMockMetadataCache(ctrl),
		prompter: mocks.NewMockPrompter(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		metrics:  metrics.New(),
		fetcher:  fetch.New(),
	}
	f.fetcher.SetProgressOutput(nil)

	p := pipeline.New(
		f.resolver,
		f.fetcher,
		lockstore.NewStore(),
		f.logger,
		progrock.NewRecorder(progrock.NewLineWriter(io.Discard)),
		f.metrics,
	)
	p.SetEnv(func(string) (string, bool) { return "", false })

	f.app = app.New(f.store, p, f.cache, f.prompter, f.logger, f.metrics)
	return f
}

func testServer(t *testing.T) *domain.Server {
	t.Helper()
	s := domain.NewServer("lobby")
	s.Path = filepath.Join(t.TempDir(), domain.ServerTOMLFileName)
	s.MCVersion = "1.21"
	s.Launcher.Disable = true
	return s
}

var paper = domain.Source{Kind: domain.SourceKindPaperMC, ID: "paper"}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)
	server.Jar = paper

	content := "paper 1.21 build 11"
	sum := sha256.Sum256([]byte(content))
	artifact := domain.Artifact{
		Kind:      domain.SourceKindPaperMC,
		VersionID: "1.21",
		BuildID:   "11",
		Filename:  "paper-1.21-11.jar",
		Checksum:  "sha256:" + hex.EncodeToString(sum[:]),
		Size:      int64(len(content)),
	}

	f.store.EXPECT().Load("lobby").Return(server, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), paper, gomock.Any()).Return(artifact, nil)
	f.resolver.EXPECT().Open(gomock.Any(), artifact).Return(io.NopCloser(strings.NewReader(content)), nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	out := filepath.Join(t.TempDir(), "out")
	metricsFile := filepath.Join(t.TempDir(), "mcsmith.prom")

	report, err := f.app.Build(context.Background(), "lobby", app.BuildOptions{
		OutputDir:   out,
		MetricsFile: metricsFile,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched())

	got, err := os.ReadFile(filepath.Join(out, "paper-1.21-11.jar"))
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "mcsmith_artifacts_total")
}

func TestApp_Build_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	_, err := f.app.Build(context.Background(), ".", app.BuildOptions{})
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Build_StageFailure(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)
	server.Jar = paper

	f.store.EXPECT().Load(".").Return(server, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), paper, gomock.Any()).
		Return(domain.Artifact{}, domain.ErrVersionNotFound)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	_, err := f.app.Build(context.Background(), ".", app.BuildOptions{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrBuildFailed.Error())
	assert.Contains(t, err.Error(), domain.ErrStageFailed.Error())
}

func TestApp_Build_Quiet(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)

	recorder := &quietRecorder{}
	f.app.WithOutputs(f.fetcher, recorder)

	f.store.EXPECT().Load(".").Return(server, nil)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	_, err := f.app.Build(context.Background(), ".", app.BuildOptions{OutputDir: t.TempDir(), Quiet: true})
	require.NoError(t, err)
	assert.True(t, recorder.silenced)
}

type quietRecorder struct{ silenced bool }

func (q *quietRecorder) SetOutput(w io.Writer) { q.silenced = w == nil }

func TestApp_AddAddon_Plugin(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)

	f.store.EXPECT().Load(".").Return(server, nil)
	f.store.EXPECT().Save(server).Return(nil)
	f.logger.EXPECT().Info("added plugin: modrinth:luckperms@5.4.120")

	err := f.app.AddAddon(context.Background(), domain.AddonPlugin, "modrinth:luckperms@5.4.120", app.AddOptions{Path: "."})
	require.NoError(t, err)
	require.Len(t, server.Plugins, 1)
	assert.Equal(t, "5.4.120", server.Plugins[0].Version)
}

func TestApp_AddAddon_InferredFromJar(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)
	server.Jar = paper

	f.store.EXPECT().Load(".").Return(server, nil)
	f.store.EXPECT().Save(server).Return(nil)
	f.logger.EXPECT().Info(gomock.Any())

	err := f.app.AddAddon(context.Background(), domain.AddonInferred, "modrinth:luckperms", app.AddOptions{Path: "."})
	require.NoError(t, err)
	assert.Len(t, server.Plugins, 1)
	assert.Empty(t, server.Mods)
}

func TestApp_AddAddon_AsksWhenSoftwareUnknown(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)

	f.store.EXPECT().Load(".").Return(server, nil)
	f.prompter.EXPECT().Select("Import as?", []string{"plugin", "mod"}).Return(1, nil)
	f.store.EXPECT().Save(server).Return(nil)
	f.logger.EXPECT().Info(gomock.Any())

	err := f.app.AddAddon(context.Background(), domain.AddonInferred, "modrinth:lithium", app.AddOptions{Path: "."})
	require.NoError(t, err)
	assert.Len(t, server.Mods, 1)
	assert.Empty(t, server.Plugins)
}

func TestApp_AddAddon_Duplicate(t *testing.T) {
	existing := domain.Source{Kind: domain.SourceKindModrinth, ID: "luckperms"}

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Plugins = []domain.Source{existing}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.prompter.EXPECT().Confirm(gomock.Any()).DoAndReturn(func(label string) (bool, error) {
			assert.Contains(t, label, "1 matching plugin(s)")
			return false, nil
		})
		f.logger.EXPECT().Info(gomock.Any())

		err := f.app.AddAddon(context.Background(), domain.AddonPlugin, "modrinth:luckperms", app.AddOptions{Path: "."})
		require.NoError(t, err)
		assert.Len(t, server.Plugins, 1)
	})

	t.Run("confirmed", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Plugins = []domain.Source{existing}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.prompter.EXPECT().Confirm(gomock.Any()).Return(true, nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		err := f.app.AddAddon(context.Background(), domain.AddonPlugin, "modrinth:luckperms", app.AddOptions{Path: "."})
		require.NoError(t, err)
		assert.Len(t, server.Plugins, 2)
	})

	t.Run("assume yes", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Plugins = []domain.Source{existing}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		err := f.app.AddAddon(context.Background(), domain.AddonPlugin, "modrinth:luckperms", app.AddOptions{Path: ".", Yes: true})
		require.NoError(t, err)
		assert.Len(t, server.Plugins, 2)
	})
}

func TestApp_AddAddon_InvalidSource(t *testing.T) {
	f := newFixture(t)

	err := f.app.AddAddon(context.Background(), domain.AddonPlugin, "luckperms", app.AddOptions{Path: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidSource.Error())
}

func TestApp_AddAddon_PromptFailure(t *testing.T) {
	f := newFixture(t)
	server := testServer(t)
	promptErr := errors.New("interrupted")

	f.store.EXPECT().Load(".").Return(server, nil)
	f.prompter.EXPECT().Select(gomock.Any(), gomock.Any()).Return(0, promptErr)

	err := f.app.AddAddon(context.Background(), domain.AddonInferred, "modrinth:lithium", app.AddOptions{Path: "."})
	require.ErrorIs(t, err, promptErr)
}

func TestApp_AddDatapack(t *testing.T) {
	pack := "modrinth:terralith"

	t.Run("first world is created with a prompted name", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)

		f.store.EXPECT().Load(".").Return(server, nil)
		f.prompter.EXPECT().Prompt("World Name", "world").Return("world", nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info("added datapack modrinth:terralith to world")

		require.NoError(t, f.app.AddDatapack(context.Background(), pack, app.AddOptions{Path: "."}))
		assert.Len(t, server.Worlds["world"].Datapacks, 1)
	})

	t.Run("existing world is selected", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Worlds["lobby"] = domain.World{}
		server.Worlds["world"] = domain.World{}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.prompter.EXPECT().Select("Add datapack to...", []string{"lobby", "world", "+ New world entry"}).Return(1, nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		require.NoError(t, f.app.AddDatapack(context.Background(), pack, app.AddOptions{Path: "."}))
		assert.Len(t, server.Worlds["world"].Datapacks, 1)
		assert.Empty(t, server.Worlds["lobby"].Datapacks)
	})

	t.Run("new world entry from select", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Worlds["world"] = domain.World{}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.prompter.EXPECT().Select(gomock.Any(), gomock.Any()).Return(1, nil)
		f.prompter.EXPECT().Prompt("World Name", "world").Return("skyblock", nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		require.NoError(t, f.app.AddDatapack(context.Background(), pack, app.AddOptions{Path: "."}))
		assert.Len(t, server.Worlds["skyblock"].Datapacks, 1)
	})

	t.Run("named world", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)
		server.Worlds["world"] = domain.World{}

		f.store.EXPECT().Load(".").Return(server, nil)
		f.store.EXPECT().Save(server).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		require.NoError(t, f.app.AddDatapack(context.Background(), pack, app.AddOptions{Path: ".", World: "world"}))
		assert.Len(t, server.Worlds["world"].Datapacks, 1)
	})

	t.Run("named world missing", func(t *testing.T) {
		f := newFixture(t)
		server := testServer(t)

		f.store.EXPECT().Load(".").Return(server, nil)

		err := f.app.AddDatapack(context.Background(), pack, app.AddOptions{Path: ".", World: "nether"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrWorldNotFound.Error())
	})
}

func TestApp_CleanCache(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info("removing metadata cache...")
	f.logger.EXPECT().Info("removed metadata cache")
	f.cache.EXPECT().Clear().Return(nil)

	require.NoError(t, f.app.CleanCache(context.Background()))
}

func TestApp_CleanCache_Error(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any())
	f.cache.EXPECT().Clear().Return(domain.ErrCacheClearFailed)

	require.ErrorIs(t, f.app.CleanCache(context.Background()), domain.ErrCacheClearFailed)
}
