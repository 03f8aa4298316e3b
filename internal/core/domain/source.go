package domain

import (
	"net/url"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// SourceKind identifies the remote service a downloadable is fetched from.
type SourceKind string

const (
	// SourceKindPaperMC is the PaperMC downloads API (paper, folia, velocity, waterfall).
	SourceKindPaperMC SourceKind = "papermc"
	// SourceKindModrinth is the Modrinth project API.
	SourceKindModrinth SourceKind = "modrinth"
	// SourceKindURL is a plain URL with no version metadata.
	SourceKindURL SourceKind = "url"
)

// LatestSelector selects the most recently published version or build.
const LatestSelector = "latest"

// Source is the declarative identification of one dependency to fetch.
// It is immutable once loaded from the server file.
type Source struct {
	// Kind is the source type.
	Kind SourceKind `json:"kind"`
	// ID is the project id, slug, or URL depending on Kind.
	ID string `json:"id"`
	// Version is the version selector: an exact version, "latest", or a range.
	Version string `json:"version,omitempty"`
	// Build selects a build within the version for build-granular sources.
	Build string `json:"build,omitempty"`
	// Filename overrides the artifact filename for url sources.
	Filename string `json:"filename,omitempty"`
}

// Key returns the stable, version-independent key of the source.
func (s Source) Key() string {
	return string(s.Kind) + ":" + s.ID
}

// IsSameAs reports whether both sources point at the same project, ignoring selectors.
func (s Source) IsSameAs(other Source) bool {
	return s.Kind == other.Kind && s.ID == other.ID
}

// String returns a short human-readable form such as "modrinth:luckperms@latest".
func (s Source) String() string {
	if s.Kind == SourceKindURL {
		return s.ID
	}

	var b strings.Builder
	b.WriteString(s.Key())
	if s.Version != "" {
		b.WriteString("@")
		b.WriteString(s.Version)
	}
	if s.Build != "" {
		b.WriteString("#")
		b.WriteString(s.Build)
	}
	return b.String()
}

// VersionOrLatest returns the version selector, defaulting to "latest".
func (s Source) VersionOrLatest() string {
	if s.Version == "" {
		return LatestSelector
	}
	return s.Version
}

// BuildOrLatest returns the build selector, defaulting to "latest".
func (s Source) BuildOrLatest() string {
	if s.Build == "" {
		return LatestSelector
	}
	return s.Build
}

// URLFilename returns the last path segment of a url source.
func (s Source) URLFilename() string {
	if s.Filename != "" {
		return s.Filename
	}
	u, err := url.Parse(s.ID)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// Validate checks that the source has the fields its kind requires.
func (s Source) Validate() error {
	switch s.Kind {
	case SourceKindPaperMC, SourceKindModrinth:
		if s.ID == "" {
			return zerr.With(ErrInvalidSource, "kind", string(s.Kind))
		}
	case SourceKindURL:
		u, err := url.Parse(s.ID)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return zerr.With(zerr.With(ErrInvalidSource, "kind", string(s.Kind)), "id", s.ID)
		}
	default:
		return zerr.With(ErrUnsupportedSource, "kind", string(s.Kind))
	}
	return nil
}

// ParseSource parses the CLI shorthand "kind:id[@version[#build]]".
// A bare http(s) URL is parsed as a url source.
func ParseSource(spec string) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Source{}, zerr.With(ErrInvalidSource, "spec", spec)
	}

	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		src := Source{Kind: SourceKindURL, ID: spec}
		return src, src.Validate()
	}

	kind, rest, ok := strings.Cut(spec, ":")
	if !ok || rest == "" {
		return Source{}, zerr.With(ErrInvalidSource, "spec", spec)
	}

	src := Source{Kind: SourceKind(strings.ToLower(kind))}
	if src.Kind == SourceKindURL {
		src.ID = rest
		return src, src.Validate()
	}

	id, selector, _ := strings.Cut(rest, "@")
	src.ID = id
	src.Version, src.Build, _ = strings.Cut(selector, "#")

	if err := src.Validate(); err != nil {
		return Source{}, zerr.With(err, "spec", spec)
	}
	return src, nil
}
