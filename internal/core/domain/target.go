package domain

import "strings"

// DatapackLoader is the Modrinth loader tag of datapacks.
const DatapackLoader = "datapack"

// ResolveTarget narrows a resolution to versions compatible with the server being built.
// Empty fields do not filter.
type ResolveTarget struct {
	MCVersion string
	Loaders   []string
}

// PluginLoaders returns the plugin platforms the server jar can load.
func (s *Server) PluginLoaders() []string {
	if s.Jar.Kind != SourceKindPaperMC {
		return nil
	}
	switch strings.ToLower(s.Jar.ID) {
	case "paper":
		return []string{"paper", "spigot", "bukkit"}
	case "purpur":
		return []string{"purpur", "paper", "spigot", "bukkit"}
	case "folia":
		return []string{"folia"}
	case "velocity":
		return []string{"velocity"}
	case "waterfall", "travertine":
		return []string{"waterfall", "bungeecord"}
	default:
		return nil
	}
}

// TargetFor returns the resolution target of a stage.
func (s *Server) TargetFor(stage StageName) ResolveTarget {
	t := ResolveTarget{MCVersion: s.MCVersion}
	switch stage {
	case StagePlugins:
		t.Loaders = s.PluginLoaders()
	case StageMods:
		if s.Loader != "" {
			t.Loaders = []string{strings.ToLower(s.Loader)}
		}
	case StageWorlds:
		t.Loaders = []string{DatapackLoader}
	case StageJar:
		// Proxies are versioned independently of the game.
		if s.SoftwareType() == SoftwareProxy {
			t.MCVersion = ""
		}
	}
	return t
}
