package papermc_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/adapters/sources/papermc"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const projectJSON = `{"project_id":"paper","versions":["1.19.4","1.20.1","1.20.4","1.21"]}`

const buildsJSON = `{"version":"1.21","builds":[
	{"build":10,"channel":"default","downloads":{"application":{"name":"paper-1.21-10.jar","sha256":"aa"}}},
	{"build":11,"channel":"default","downloads":{"application":{"name":"paper-1.21-11.jar","sha256":"BB"}}}
]}`

const builds1204JSON = `{"version":"1.20.4","builds":[
	{"build":499,"channel":"default","downloads":{"application":{"name":"paper-1.20.4-499.jar","sha256":"cc"}}}
]}`

// fakeAPI serves a minimal PaperMC API and counts requests per path.
type fakeAPI struct {
	mu   sync.Mutex
	hits map[string]int
	srv  *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{hits: make(map[string]int)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()

		switch r.URL.Path {
		case "/v2/projects/paper":
			_, _ = io.WriteString(w, projectJSON)
		case "/v2/projects/paper/versions/1.21/builds":
			_, _ = io.WriteString(w, buildsJSON)
		case "/v2/projects/paper/versions/1.20.4/builds":
			_, _ = io.WriteString(w, builds1204JSON)
		case "/v2/projects/paper/versions/1.21/builds/11/downloads/paper-1.21-11.jar":
			_, _ = io.WriteString(w, "jar-11")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) resolver(cache *mocks.MockMetadataCache) *papermc.Resolver {
	c := client.NewWithHTTPClient(f.srv.Client())
	if cache == nil {
		return papermc.NewWithBaseURL(c, nil, f.srv.URL)
	}
	return papermc.NewWithBaseURL(c, cache, f.srv.URL)
}

func paper(version, build string) domain.Source {
	return domain.Source{Kind: domain.SourceKindPaperMC, ID: "paper", Version: version, Build: build}
}

func TestResolve_LatestTakesLastVersionAndBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMetadataCache(ctrl)
	api := newFakeAPI(t)

	got, err := api.resolver(cache).Resolve(context.Background(), paper("latest", ""), domain.ResolveTarget{})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceKindPaperMC, got.Kind)
	assert.Equal(t, "1.21", got.VersionID)
	assert.Equal(t, "11", got.BuildID)
	assert.Equal(t, "paper-1.21-11.jar", got.Filename)
	assert.Equal(t, "sha256:bb", got.Checksum)
	assert.Equal(t, domain.UnknownSize, got.Size)
	assert.Equal(t, api.srv.URL+"/v2/projects/paper/versions/1.21/builds/11/downloads/paper-1.21-11.jar", got.URL)
}

func TestResolve_EmptyVersionUsesTargetGameVersion(t *testing.T) {
	api := newFakeAPI(t)

	got, err := api.resolver(nil).Resolve(context.Background(), paper("", ""), domain.ResolveTarget{MCVersion: "1.20.4"})
	require.NoError(t, err)
	assert.Equal(t, "1.20.4", got.VersionID)
	assert.Equal(t, "499", got.BuildID)
}

func TestResolve_RangeSelectsHighestMatch(t *testing.T) {
	api := newFakeAPI(t)

	got, err := api.resolver(nil).Resolve(context.Background(), paper("~1.20", ""), domain.ResolveTarget{})
	require.NoError(t, err)
	assert.Equal(t, "1.20.4", got.VersionID)
}

func TestResolve_ExactBuild(t *testing.T) {
	api := newFakeAPI(t)

	got, err := api.resolver(nil).Resolve(context.Background(), paper("1.21", "10"), domain.ResolveTarget{})
	require.NoError(t, err)
	assert.Equal(t, "10", got.BuildID)
	assert.Equal(t, "sha256:aa", got.Checksum)
}

func TestResolve_PinnedLookupUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockMetadataCache(ctrl)
	api := newFakeAPI(t)
	r := api.resolver(cache)

	var stored domain.Artifact
	cache.EXPECT().Get("papermc", "paper@1.21#11", gomock.Any()).Return(false, nil)
	cache.EXPECT().Put("papermc", "paper@1.21#11", gomock.Any()).DoAndReturn(func(_, _ string, v any) error {
		stored = v.(domain.Artifact)
		return nil
	})

	first, err := r.Resolve(context.Background(), paper("1.21", "11"), domain.ResolveTarget{})
	require.NoError(t, err)
	assert.Equal(t, first, stored)
	assert.Equal(t, 1, api.count("/v2/projects/paper"))

	cache.EXPECT().Get("papermc", "paper@1.21#11", gomock.Any()).DoAndReturn(func(_, _ string, out any) (bool, error) {
		*out.(*domain.Artifact) = stored
		return true, nil
	})

	second, err := r.Resolve(context.Background(), paper("1.21", "11"), domain.ResolveTarget{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.count("/v2/projects/paper"), "a cache hit must not reach the API")
}

func TestResolve_ProjectNotFound(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.resolver(nil).Resolve(context.Background(),
		domain.Source{Kind: domain.SourceKindPaperMC, ID: "spigot"}, domain.ResolveTarget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrSourceNotFound.Error())
}

func TestResolve_MissingVersionSkipsBuildListing(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.resolver(nil).Resolve(context.Background(), paper("1.8.8", ""), domain.ResolveTarget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrVersionNotFound.Error())
	assert.Zero(t, api.count("/v2/projects/paper/versions/1.8.8/builds"))
}

func TestResolve_BuildListing404IsVersionNotFound(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.resolver(nil).Resolve(context.Background(), paper("1.19.4", ""), domain.ResolveTarget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrVersionNotFound.Error())
	assert.Equal(t, 1, api.count("/v2/projects/paper/versions/1.19.4/builds"))
}

func TestResolve_BuildNotFound(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.resolver(nil).Resolve(context.Background(), paper("1.21", "999"), domain.ResolveTarget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrBuildNotFound.Error())
}

func TestOpen(t *testing.T) {
	api := newFakeAPI(t)
	r := api.resolver(nil)

	artifact, err := r.Resolve(context.Background(), paper("1.21", "11"), domain.ResolveTarget{})
	require.NoError(t, err)

	body, err := r.Open(context.Background(), artifact)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "jar-11", string(data))
}
