// Package modrinth resolves plugins, mods and datapacks from the Modrinth API (v2).
package modrinth

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"go.trai.ch/mcsmith/internal/adapters/sources/client"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBaseURL is the public Modrinth API.
const DefaultBaseURL = "https://api.modrinth.com"

const cacheNamespace = string(domain.SourceKindModrinth)

type version struct {
	ID            string   `json:"id"`
	VersionNumber string   `json:"version_number"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
	Files         []file   `json:"files"`
}

type file struct {
	Hashes struct {
		SHA512 string `json:"sha512"`
		SHA1   string `json:"sha1"`
	} `json:"hashes"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
}

// Resolver implements ports.Resolver for modrinth sources.
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

// Resolve lists the project's versions compatible with target and picks one.
// Modrinth lists newest first, so "latest" is the first compatible version.
func (r *Resolver) Resolve(ctx context.Context, src domain.Source, target domain.ResolveTarget) (domain.Artifact, error) {
	selector := src.VersionOrLatest()

	pinned := !domain.IsLatest(selector) && !domain.IsRange(selector)
	cacheKey := src.ID + "@" + selector + "|" + strings.Join(target.Loaders, ",") + "|" + target.MCVersion
	if pinned && r.cache != nil {
		var cached domain.Artifact
		if ok, err := r.cache.Get(cacheNamespace, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	versions, err := r.listVersions(ctx, src.ID, target)
	if err != nil {
		return domain.Artifact{}, err
	}

	v, ok := pick(versions, selector)
	if !ok {
		return domain.Artifact{}, notFound(domain.ErrVersionNotFound, src.ID, selector)
	}

	f, ok := primaryFile(v.Files)
	if !ok {
		return domain.Artifact{}, notFound(domain.ErrBuildNotFound, src.ID, v.VersionNumber)
	}

	artifact := domain.Artifact{
		Kind:      domain.SourceKindModrinth,
		VersionID: v.VersionNumber,
		BuildID:   v.ID,
		Filename:  f.Filename,
		Size:      f.Size,
		URL:       f.URL,
	}
	if artifact.Size <= 0 {
		artifact.Size = domain.UnknownSize
	}
	if f.Hashes.SHA512 != "" {
		artifact.Checksum = "sha512:" + strings.ToLower(f.Hashes.SHA512)
	}

	if pinned && r.cache != nil {
		_ = r.cache.Put(cacheNamespace, cacheKey, artifact)
	}
	return artifact, nil
}

// Open downloads the version's primary file.
func (r *Resolver) Open(ctx context.Context, artifact domain.Artifact) (io.ReadCloser, error) {
	body, _, err := r.client.Open(ctx, artifact.URL)
	return body, err
}

func (r *Resolver) listVersions(ctx context.Context, project string, target domain.ResolveTarget) ([]version, error) {
	query := url.Values{}
	if len(target.Loaders) > 0 {
		query.Set("loaders", jsonArray(target.Loaders))
	}
	if target.MCVersion != "" {
		query.Set("game_versions", jsonArray([]string{target.MCVersion}))
	}

	endpoint := r.baseURL + "/v2/project/" + url.PathEscape(project) + "/version"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var versions []version
	found, err := r.client.GetJSON(ctx, endpoint, &versions)
	if err != nil {
		return nil, zerr.With(err, "id", project)
	}
	if !found {
		return nil, notFound(domain.ErrSourceNotFound, project, "")
	}
	return versions, nil
}

// pick matches selector against version numbers, then against version ids.
func pick(versions []version, selector string) (version, bool) {
	numbers := make([]string, len(versions))
	for i, v := range versions {
		numbers[i] = v.VersionNumber
	}

	if chosen, ok := domain.SelectVersion(numbers, selector, false); ok {
		for _, v := range versions {
			if v.VersionNumber == chosen {
				return v, true
			}
		}
	}

	for _, v := range versions {
		if v.ID == selector {
			return v, true
		}
	}
	return version{}, false
}

func primaryFile(files []file) (file, bool) {
	for _, f := range files {
		if f.Primary {
			return f, true
		}
	}
	if len(files) == 0 {
		return file{}, false
	}
	return files[0], true
}

func jsonArray(items []string) string {
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func notFound(sentinel error, project, selector string) error {
	err := zerr.With(sentinel, "kind", string(domain.SourceKindModrinth))
	err = zerr.With(err, "id", project)
	if selector != "" {
		err = zerr.With(err, "version", selector)
	}
	return err
}
