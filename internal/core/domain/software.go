package domain

import "strings"

// SoftwareType describes what kind of addons a server jar accepts.
type SoftwareType string

const (
	// SoftwareNormal is a plugin-based server (Paper, Folia, Purpur).
	SoftwareNormal SoftwareType = "normal"
	// SoftwareModded is a mod-loader based server.
	SoftwareModded SoftwareType = "modded"
	// SoftwareProxy is a network proxy (Velocity, Waterfall) that takes plugins.
	SoftwareProxy SoftwareType = "proxy"
	// SoftwareUnknown means the jar gives no hint.
	SoftwareUnknown SoftwareType = "unknown"
)

// AcceptsPlugins reports whether plugins make sense on this software.
func (t SoftwareType) AcceptsPlugins() bool {
	return t == SoftwareNormal || t == SoftwareProxy || t == SoftwareUnknown
}

// AcceptsMods reports whether mods make sense on this software.
func (t SoftwareType) AcceptsMods() bool {
	return t == SoftwareModded || t == SoftwareUnknown
}

// InferSoftware derives the software type from the server jar source.
func InferSoftware(jar Source) SoftwareType {
	if jar.Kind != SourceKindPaperMC {
		return SoftwareUnknown
	}
	switch strings.ToLower(jar.ID) {
	case "paper", "folia", "purpur":
		return SoftwareNormal
	case "velocity", "waterfall", "travertine":
		return SoftwareProxy
	default:
		return SoftwareUnknown
	}
}

// ParseSoftwareType maps a config string to a SoftwareType, defaulting to unknown.
func ParseSoftwareType(s string) SoftwareType {
	switch SoftwareType(strings.ToLower(s)) {
	case SoftwareNormal:
		return SoftwareNormal
	case SoftwareModded:
		return SoftwareModded
	case SoftwareProxy:
		return SoftwareProxy
	default:
		return SoftwareUnknown
	}
}
