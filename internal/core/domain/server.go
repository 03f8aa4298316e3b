package domain

import (
	"maps"
	"path/filepath"
	"slices"
)

// World is a named world entry and the datapacks installed into it.
type World struct {
	Datapacks []Source
}

// Server is the declared server model loaded from the server file.
// The build pipeline only reads it.
type Server struct {
	// Path is the server file this model was loaded from.
	Path string

	Name      string
	MCVersion string
	// Software overrides the type inferred from the jar source.
	Software SoftwareType
	// Loader is the mod loader (fabric, forge, neoforge, quilt) used to filter mod versions.
	Loader    string
	Jar       Source
	Plugins   []Source
	Mods      []Source
	Worlds    map[string]World
	Launcher  Launcher
	Variables map[string]string
}

// NewServer returns a server model with default launcher settings.
func NewServer(name string) *Server {
	return &Server{
		Name:      name,
		Worlds:    make(map[string]World),
		Launcher:  DefaultLauncher(),
		Variables: make(map[string]string),
	}
}

// Dir returns the directory that holds the server file.
func (s *Server) Dir() string {
	if s.Path == "" {
		return "."
	}
	return filepath.Dir(s.Path)
}

// WorldNames returns the declared world names in sorted order.
func (s *Server) WorldNames() []string {
	return slices.Sorted(maps.Keys(s.Worlds))
}

// SoftwareType reports the server software, honoring the explicit override.
func (s *Server) SoftwareType() SoftwareType {
	if s.Software != "" && s.Software != SoftwareUnknown {
		return s.Software
	}
	return InferSoftware(s.Jar)
}
