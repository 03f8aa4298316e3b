// Package papermc resolves server jars from the PaperMC downloads API (v2).
package papermc

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"

	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBaseURL is the public PaperMC API.
const DefaultBaseURL = "https://api.papermc.io"

const cacheNamespace = string(domain.SourceKindPaperMC)

type projectResponse struct {
	ProjectID string   `json:"project_id"`
	Versions  []string `json:"versions"`
}

type buildsResponse struct {
	Version string  `json:"version"`
	Builds  []build `json:"builds"`
}

type build struct {
	Build     int    `json:"build"`
	Channel   string `json:"channel"`
	Downloads struct {
		Application struct {
			Name   string `json:"name"`
			SHA256 string `json:"sha256"`
		} `json:"application"`
	} `json:"downloads"`
}

// Resolver implements ports.Resolver for papermc sources.
type Resolver struct {
	client  *client.Client
	cache   ports.MetadataCache
	baseURL string
}

// New creates a resolver. cache may be nil.
func New(c *client.Client, cache ports.MetadataCache) *Resolver {
	return NewWithBaseURL(c, cache, DefaultBaseURL)
}

// NewWithBaseURL creates a resolver against another API host.
func NewWithBaseURL(c *client.Client, cache ports.MetadataCache, baseURL string) *Resolver {
	return &Resolver{
		client:  c,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Resolve selects a version of the project and a build within it.
// An empty version selector falls back to the target game version, then to "latest".
// Only fully pinned lookups go through the metadata cache.
func (r *Resolver) Resolve(ctx context.Context, src domain.Source, target domain.ResolveTarget) (domain.Artifact, error) {
	versionSel := src.Version
	if versionSel == "" {
		versionSel = target.MCVersion
	}
	if versionSel == "" {
		versionSel = domain.LatestSelector
	}
	buildSel := src.BuildOrLatest()

	pinned := !domain.IsLatest(versionSel) && !domain.IsRange(versionSel) && !domain.IsLatest(buildSel)
	cacheKey := src.ID + "@" + versionSel + "#" + buildSel
	if pinned && r.cache != nil {
		var cached domain.Artifact
		if ok, err := r.cache.Get(cacheNamespace, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	version, err := r.selectVersion(ctx, src.ID, versionSel)
	if err != nil {
		return domain.Artifact{}, err
	}

	b, err := r.selectBuild(ctx, src.ID, version, buildSel)
	if err != nil {
		return domain.Artifact{}, err
	}

	app := b.Downloads.Application
	artifact := domain.Artifact{
		Kind:      domain.SourceKindPaperMC,
		VersionID: version,
		BuildID:   strconv.Itoa(b.Build),
		Filename:  app.Name,
		Size:      domain.UnknownSize,
		URL:       r.downloadURL(src.ID, version, b.Build, app.Name),
	}
	if app.SHA256 != "" {
		artifact.Checksum = "sha256:" + strings.ToLower(app.SHA256)
	}

	if pinned && r.cache != nil {
		// Cache write failures are not fatal.
		_ = r.cache.Put(cacheNamespace, cacheKey, artifact)
	}
	return artifact, nil
}

// Open downloads the build.
func (r *Resolver) Open(ctx context.Context, artifact domain.Artifact) (io.ReadCloser, error) {
	body, _, err := r.client.Open(ctx, artifact.URL)
	return body, err
}

func (r *Resolver) selectVersion(ctx context.Context, project, selector string) (string, error) {
	var resp projectResponse
	found, err := r.client.GetJSON(ctx, r.baseURL+"/v2/projects/"+url.PathEscape(project), &resp)
	if err != nil {
		return "", zerr.With(err, "id", project)
	}
	if !found {
		return "", notFound(domain.ErrSourceNotFound, project, selector, "")
	}

	version, ok := domain.SelectVersion(resp.Versions, selector, true)
	if !ok {
		return "", notFound(domain.ErrVersionNotFound, project, selector, "")
	}
	return version, nil
}

func (r *Resolver) selectBuild(ctx context.Context, project, version, selector string) (build, error) {
	var resp buildsResponse
	endpoint := r.baseURL + "/v2/projects/" + url.PathEscape(project) + "/versions/" + url.PathEscape(version) + "/builds"
	found, err := r.client.GetJSON(ctx, endpoint, &resp)
	if err != nil {
		return build{}, zerr.With(zerr.With(err, "id", project), "version", version)
	}
	if !found {
		return build{}, notFound(domain.ErrVersionNotFound, project, version, "")
	}
	if len(resp.Builds) == 0 {
		return build{}, notFound(domain.ErrBuildNotFound, project, version, selector)
	}

	if domain.IsLatest(selector) {
		return resp.Builds[len(resp.Builds)-1], nil
	}
	for _, b := range resp.Builds {
		if strconv.Itoa(b.Build) == selector {
			return b, nil
		}
	}
	return build{}, notFound(domain.ErrBuildNotFound, project, version, selector)
}

func (r *Resolver) downloadURL(project, version string, buildNumber int, name string) string {
	return r.baseURL + "/v2/projects/" + url.PathEscape(project) +
		"/versions/" + url.PathEscape(version) +
		"/builds/" + strconv.Itoa(buildNumber) +
		"/downloads/" + url.PathEscape(name)
}

func notFound(sentinel error, project, version, buildSel string) error {
	err := zerr.With(sentinel, "kind", string(domain.SourceKindPaperMC))
	err = zerr.With(err, "id", project)
	if version != "" {
		err = zerr.With(err, "version", version)
	}
	if buildSel != "" {
		err = zerr.With(err, "build", buildSel)
	}
	return err
}
