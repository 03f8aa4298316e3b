package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// AddonType says whether a declared addon is a plugin or a mod.
type AddonType string

const (
	// AddonPlugin is installed into plugins/.
	AddonPlugin AddonType = "plugin"
	// AddonMod is installed into mods/.
	AddonMod AddonType = "mod"
	// AddonInferred asks for the type to be derived from the server jar.
	AddonInferred AddonType = "addon"
)

// AddonTypes lists the concrete addon types in the order they are offered to the user.
func AddonTypes() []AddonType {
	return []AddonType{AddonPlugin, AddonMod}
}

// ParseAddonType maps a command word to an AddonType.
func ParseAddonType(s string) (AddonType, error) {
	switch t := AddonType(strings.ToLower(strings.TrimSpace(s))); t {
	case AddonPlugin, AddonMod, AddonInferred:
		return t, nil
	default:
		return "", zerr.With(ErrAddonTypeRequired, "type", s)
	}
}

// AddonTypeFor returns the addon type a software accepts.
// It returns false when the software gives no answer.
func AddonTypeFor(software SoftwareType) (AddonType, bool) {
	switch software {
	case SoftwareNormal, SoftwareProxy:
		return AddonPlugin, true
	case SoftwareModded:
		return AddonMod, true
	default:
		return "", false
	}
}

// Addons returns the declared list an addon type is stored in.
func (s *Server) Addons(t AddonType) *[]Source {
	switch t {
	case AddonPlugin:
		return &s.Plugins
	case AddonMod:
		return &s.Mods
	default:
		return nil
	}
}
