package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// StageName names one phase of the build pipeline.
type StageName string

const (
	// StageJar downloads the server jar.
	StageJar StageName = "jar"
	// StagePlugins downloads plugins into plugins/.
	StagePlugins StageName = "plugins"
	// StageMods downloads mods into mods/.
	StageMods StageName = "mods"
	// StageWorlds downloads datapacks into each world's datapacks/ directory.
	StageWorlds StageName = "worlds"
	// StageConfig renders the server's config/ tree into the output directory.
	StageConfig StageName = "config"
	// StageLauncher writes the start scripts.
	StageLauncher StageName = "launcher"
)

// Stages returns every stage in execution order.
// The jar stage comes first because later stages depend on the software type it reveals.
func Stages() []StageName {
	return []StageName{StageJar, StagePlugins, StageMods, StageWorlds, StageConfig, StageLauncher}
}

// ParseStageNames validates user-supplied stage names, accepting comma-separated lists.
func ParseStageNames(raw []string) ([]StageName, error) {
	known := Stages()
	var names []StageName
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part == "" {
				continue
			}
			name := StageName(part)
			if !slices.Contains(known, name) {
				return nil, zerr.With(ErrUnknownStage, "stage", part)
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names, nil
}
