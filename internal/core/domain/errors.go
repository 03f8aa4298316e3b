package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidSource is returned when a source descriptor is missing required fields.
	ErrInvalidSource = zerr.New("invalid source")

	// ErrUnsupportedSource is returned when no resolver handles a source kind.
	ErrUnsupportedSource = zerr.New("unsupported source kind")

	// ErrSourceNotFound is returned when the named project, slug or URL does not exist.
	ErrSourceNotFound = zerr.New("source not found")

	// ErrVersionNotFound is returned when no version matches the selector.
	ErrVersionNotFound = zerr.New("version not found")

	// ErrBuildNotFound is returned when no build matches the selector.
	ErrBuildNotFound = zerr.New("build not found")

	// ErrSourceRequestFailed is returned when a source API request fails.
	ErrSourceRequestFailed = zerr.New("source request failed")

	// ErrSourceResponseInvalid is returned when a source API answers with a malformed payload.
	ErrSourceResponseInvalid = zerr.New("malformed source response")

	// ErrDownloadFailed is returned when an artifact stream cannot be opened.
	ErrDownloadFailed = zerr.New("failed to download artifact")

	// ErrChecksumMismatch is returned when downloaded bytes do not match the published checksum.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrUnsupportedChecksum is returned when a checksum uses an unknown algorithm.
	ErrUnsupportedChecksum = zerr.New("unsupported checksum algorithm")

	// ErrArtifactWriteFailed is returned when an artifact cannot be written to disk.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrOutputDirCreateFailed is returned when the output directory cannot be created.
	ErrOutputDirCreateFailed = zerr.New("failed to create output directory")

	// ErrDuplicateLockEntry is returned when a lockfile key is written twice.
	ErrDuplicateLockEntry = zerr.New("duplicate lockfile entry")

	// ErrInvalidLockEntry is returned when a lockfile entry lacks a key or path.
	ErrInvalidLockEntry = zerr.New("invalid lockfile entry")

	// ErrUnsupportedLockfile is returned when the lockfile format version is unknown.
	ErrUnsupportedLockfile = zerr.New("unsupported lockfile version")

	// ErrLockfileReadFailed is returned when the lockfile cannot be read.
	ErrLockfileReadFailed = zerr.New("failed to read lockfile")

	// ErrLockfileParseFailed is returned when the lockfile cannot be decoded.
	ErrLockfileParseFailed = zerr.New("failed to parse lockfile")

	// ErrLockfileWriteFailed is returned when the lockfile cannot be replaced.
	ErrLockfileWriteFailed = zerr.New("failed to write lockfile")

	// ErrCacheReadFailed is returned when a metadata cache entry exists but cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read metadata cache entry")

	// ErrCacheWriteFailed is returned when a metadata cache entry cannot be stored.
	ErrCacheWriteFailed = zerr.New("failed to write metadata cache entry")

	// ErrCacheClearFailed is returned when the metadata cache cannot be removed.
	ErrCacheClearFailed = zerr.New("failed to clear metadata cache")

	// ErrConfigNotFound is returned when no server file can be found.
	ErrConfigNotFound = zerr.New("could not find server.toml or server.yaml")

	// ErrConfigReadFailed is returned when the server file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read server file")

	// ErrConfigParseFailed is returned when the server file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse server file")

	// ErrConfigInvalid is returned when the server file does not match the schema.
	ErrConfigInvalid = zerr.New("server file is invalid")

	// ErrConfigWriteFailed is returned when the server file cannot be saved.
	ErrConfigWriteFailed = zerr.New("failed to write server file")

	// ErrUnknownStage is returned when a skip list names a stage that does not exist.
	ErrUnknownStage = zerr.New("unknown stage")

	// ErrStageFailed is returned when a pipeline stage aborts.
	ErrStageFailed = zerr.New("stage failed")

	// ErrBuildFailed is returned when the build does not complete.
	ErrBuildFailed = zerr.New("build failed")

	// ErrWorldNotFound is returned when a datapack targets a world entry that does not exist.
	ErrWorldNotFound = zerr.New("world entry does not exist")

	// ErrConfigRenderFailed is returned when a config file cannot be rendered.
	ErrConfigRenderFailed = zerr.New("failed to render config file")

	// ErrPromptFailed is returned when the user could not be asked a question.
	ErrPromptFailed = zerr.New("prompt failed")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")

	// ErrAddonTypeRequired is returned when an addon type cannot be inferred or chosen.
	ErrAddonTypeRequired = zerr.New("addon type could not be determined")
)
