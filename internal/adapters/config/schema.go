package config

import _ "embed"

//go:embed schema.json
var schemaJSON []byte

// ServerFile is the on-disk shape of server.toml and server.yaml.
type ServerFile struct {
	Name      string              `toml:"name" yaml:"name"`
	MCVersion string              `toml:"mc_version,omitempty" yaml:"mc_version,omitempty"`
	Software  string              `toml:"software,omitempty" yaml:"software,omitempty"`
	Loader    string              `toml:"loader,omitempty" yaml:"loader,omitempty"`
	Jar       *SourceDTO          `toml:"jar,omitempty" yaml:"jar,omitempty"`
	Plugins   []SourceDTO         `toml:"plugins,omitempty" yaml:"plugins,omitempty"`
	Mods      []SourceDTO         `toml:"mods,omitempty" yaml:"mods,omitempty"`
	Worlds    map[string]WorldDTO `toml:"worlds,omitempty" yaml:"worlds,omitempty"`
	Launcher  *LauncherDTO        `toml:"launcher,omitempty" yaml:"launcher,omitempty"`
	Variables map[string]string   `toml:"variables,omitempty" yaml:"variables,omitempty"`
}

// SourceDTO is a downloadable as written in the server file.
// papermc sources name a project, modrinth sources an id, url sources a url.
type SourceDTO struct {
	Type     string `toml:"type" yaml:"type"`
	Project  string `toml:"project,omitempty" yaml:"project,omitempty"`
	ID       string `toml:"id,omitempty" yaml:"id,omitempty"`
	URL      string `toml:"url,omitempty" yaml:"url,omitempty"`
	Version  string `toml:"version,omitempty" yaml:"version,omitempty"`
	Build    string `toml:"build,omitempty" yaml:"build,omitempty"`
	Filename string `toml:"filename,omitempty" yaml:"filename,omitempty"`
}

// WorldDTO is a world entry.
type WorldDTO struct {
	Datapacks []SourceDTO `toml:"datapacks,omitempty" yaml:"datapacks,omitempty"`
}

// LauncherDTO holds start script settings. Booleans are pointers so that an
// omitted key keeps its default.
type LauncherDTO struct {
	EulaArgs    *bool             `toml:"eula_args,omitempty" yaml:"eula_args,omitempty"`
	NoGUI       *bool             `toml:"nogui,omitempty" yaml:"nogui,omitempty"`
	PresetFlags string            `toml:"preset_flags,omitempty" yaml:"preset_flags,omitempty"`
	Disable     bool              `toml:"disable,omitempty" yaml:"disable,omitempty"`
	JVMArgs     string            `toml:"jvm_args,omitempty" yaml:"jvm_args,omitempty"`
	GameArgs    string            `toml:"game_args,omitempty" yaml:"game_args,omitempty"`
	Memory      string            `toml:"memory,omitempty" yaml:"memory,omitempty"`
	Properties  map[string]string `toml:"properties,omitempty" yaml:"properties,omitempty"`
	Prelaunch   []string          `toml:"prelaunch,omitempty" yaml:"prelaunch,omitempty"`
	Postlaunch  []string          `toml:"postlaunch,omitempty" yaml:"postlaunch,omitempty"`
	JavaVersion string            `toml:"java_version,omitempty" yaml:"java_version,omitempty"`
}
