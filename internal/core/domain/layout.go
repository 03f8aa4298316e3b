package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppName is used for the cache directory and the HTTP user agent.
	AppName = "mcsmith"

	// ServerTOMLFileName is the preferred server file name.
	ServerTOMLFileName = "server.toml"

	// ServerYAMLFileName is the alternative server file name.
	ServerYAMLFileName = "server.yaml"

	// LockfileName is the lockfile written into the output directory.
	LockfileName = "mcsmith.lock"

	// DefaultOutputDirName is the output directory created next to the server file.
	DefaultOutputDirName = "server"

	// ConfigDirName holds config files rendered by the config stage.
	ConfigDirName = "config"

	// PluginsDirName is where the plugins stage writes.
	PluginsDirName = "plugins"

	// ModsDirName is where the mods stage writes.
	ModsDirName = "mods"

	// DatapacksDirName is the datapack directory inside each world.
	DatapacksDirName = "datapacks"

	// LinuxScriptName is the generated POSIX start script.
	LinuxScriptName = "start.sh"

	// WindowsScriptName is the generated Windows start script.
	WindowsScriptName = "start.bat"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission for generated scripts (rwxr-xr-x).
	ExecPerm = 0o755
)

// DefaultCachePath returns the metadata cache root under the user cache directory.
// It falls back to a hidden directory in the working directory when none is configured.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join("."+AppName, "cache")
	}
	return filepath.Join(dir, AppName)
}

// DefaultOutputDir returns the output directory used when none is given.
func DefaultOutputDir(s *Server) string {
	return filepath.Join(s.Dir(), DefaultOutputDirName)
}
