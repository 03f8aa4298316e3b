// Package config loads and saves the declared server model (server.toml or server.yaml).
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/mcsmith/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a server file.
type Format string

const (
	// FormatTOML is server.toml.
	FormatTOML Format = "toml"
	// FormatYAML is server.yaml.
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Store implements ports.ConfigStore.
type Store struct {
	Logger ports.Logger
	schema *gojsonschema.Schema
}

// NewStore creates a store. It panics if the embedded schema does not compile.
func NewStore(logger ports.Logger) *Store {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(err)
	}
	return &Store{Logger: logger, schema: schema}
}

// Load reads the server file at path. A directory is searched for
// server.toml, then server.yaml.
func (s *Store) Load(path string) (*domain.Server, error) {
	configPath, err := s.findServerFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	format := FormatOf(configPath)
	if err := s.validate(data, format); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	var file ServerFile
	if err := unmarshal(data, format, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	server, err := toDomain(&file, configPath)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return server, nil
}

// Save writes server back to the file it was loaded from, in the same format.
func (s *Store) Save(server *domain.Server) error {
	if server.Path == "" {
		return zerr.With(domain.ErrConfigWriteFailed, "name", server.Name)
	}

	file := fromDomain(server)

	var (
		data []byte
		err  error
	)
	switch FormatOf(server.Path) {
	case FormatYAML:
		data, err = yaml.Marshal(file)
	default:
		data, err = toml.Marshal(file)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWriteFailed.Error()), "path", server.Path)
	}

	if err := renameio.WriteFile(server.Path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigWriteFailed.Error()), "path", server.Path)
	}
	return nil
}

func (s *Store) findServerFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(domain.ErrConfigNotFound, "path", path)
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	tomlPath := filepath.Join(path, domain.ServerTOMLFileName)
	yamlPath := filepath.Join(path, domain.ServerYAMLFileName)
	hasTOML := fileExists(tomlPath)
	hasYAML := fileExists(yamlPath)

	switch {
	case hasTOML && hasYAML:
		s.Logger.Warn("both " + domain.ServerTOMLFileName + " and " + domain.ServerYAMLFileName +
			" found, using " + domain.ServerTOMLFileName)
		return tomlPath, nil
	case hasTOML:
		return tomlPath, nil
	case hasYAML:
		return yamlPath, nil
	default:
		return "", zerr.With(domain.ErrConfigNotFound, "path", path)
	}
}

// validate checks the raw document against the embedded schema and reports
// every violation at once.
func (s *Store) validate(data []byte, format Format) error {
	doc := map[string]any{}
	if err := unmarshal(data, format, &doc); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return zerr.With(domain.ErrConfigInvalid, "violations", strings.Join(violations, "; "))
}

func unmarshal(data []byte, format Format, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if format == FormatYAML {
		return yaml.Unmarshal(data, out)
	}
	return toml.Unmarshal(data, out)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func toDomain(file *ServerFile, path string) (*domain.Server, error) {
	name := file.Name
	if name == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err == nil {
			name = filepath.Base(abs)
		}
	}

	server := domain.NewServer(name)
	server.Path = path
	server.MCVersion = file.MCVersion
	if file.Software != "" {
		server.Software = domain.ParseSoftwareType(file.Software)
	}
	server.Loader = file.Loader

	if file.Jar != nil {
		jar, err := sourceToDomain(*file.Jar)
		if err != nil {
			return nil, zerr.With(err, "field", "jar")
		}
		server.Jar = jar
	}

	var err error
	if server.Plugins, err = sourcesToDomain(file.Plugins, "plugins"); err != nil {
		return nil, err
	}
	if server.Mods, err = sourcesToDomain(file.Mods, "mods"); err != nil {
		return nil, err
	}

	for worldName, world := range file.Worlds {
		datapacks, err := sourcesToDomain(world.Datapacks, "worlds."+worldName+".datapacks")
		if err != nil {
			return nil, err
		}
		server.Worlds[worldName] = domain.World{Datapacks: datapacks}
	}

	if file.Launcher != nil {
		server.Launcher = launcherToDomain(*file.Launcher)
	}
	for k, v := range file.Variables {
		server.Variables[k] = v
	}
	return server, nil
}

func sourcesToDomain(dtos []SourceDTO, field string) ([]domain.Source, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	out := make([]domain.Source, 0, len(dtos))
	for _, dto := range dtos {
		src, err := sourceToDomain(dto)
		if err != nil {
			return nil, zerr.With(err, "field", field)
		}
		out = append(out, src)
	}
	return out, nil
}

func sourceToDomain(dto SourceDTO) (domain.Source, error) {
	src := domain.Source{
		Kind:     domain.SourceKind(strings.ToLower(dto.Type)),
		Version:  dto.Version,
		Build:    dto.Build,
		Filename: dto.Filename,
	}
	switch src.Kind {
	case domain.SourceKindURL:
		src.ID = dto.URL
	case domain.SourceKindPaperMC:
		src.ID = firstNonEmpty(dto.Project, dto.ID)
	default:
		src.ID = firstNonEmpty(dto.ID, dto.Project)
	}
	if err := src.Validate(); err != nil {
		return domain.Source{}, zerr.Wrap(err, domain.ErrConfigInvalid.Error())
	}
	return src, nil
}

func sourceFromDomain(src domain.Source) SourceDTO {
	dto := SourceDTO{
		Type:     string(src.Kind),
		Version:  src.Version,
		Build:    src.Build,
		Filename: src.Filename,
	}
	switch src.Kind {
	case domain.SourceKindURL:
		dto.URL = src.ID
	case domain.SourceKindPaperMC:
		dto.Project = src.ID
	default:
		dto.ID = src.ID
	}
	return dto
}

func sourcesFromDomain(srcs []domain.Source) []SourceDTO {
	if len(srcs) == 0 {
		return nil
	}
	out := make([]SourceDTO, len(srcs))
	for i, src := range srcs {
		out[i] = sourceFromDomain(src)
	}
	return out
}

func launcherToDomain(dto LauncherDTO) domain.Launcher {
	l := domain.DefaultLauncher()
	if dto.EulaArgs != nil {
		l.EulaArgs = *dto.EulaArgs
	}
	if dto.NoGUI != nil {
		l.NoGUI = *dto.NoGUI
	}
	if dto.PresetFlags != "" {
		l.PresetFlags = domain.PresetFlags(strings.ToLower(dto.PresetFlags))
	}
	l.Disable = dto.Disable
	l.JVMArgs = dto.JVMArgs
	l.GameArgs = dto.GameArgs
	l.Memory = dto.Memory
	l.Properties = dto.Properties
	l.Prelaunch = dto.Prelaunch
	l.Postlaunch = dto.Postlaunch
	l.JavaVersion = dto.JavaVersion
	return l
}

// launcherFromDomain writes only the settings that differ from the defaults.
func launcherFromDomain(l domain.Launcher) *LauncherDTO {
	defaults := domain.DefaultLauncher()
	dto := LauncherDTO{
		Disable:     l.Disable,
		JVMArgs:     l.JVMArgs,
		GameArgs:    l.GameArgs,
		Memory:      l.Memory,
		Properties:  l.Properties,
		Prelaunch:   l.Prelaunch,
		Postlaunch:  l.Postlaunch,
		JavaVersion: l.JavaVersion,
	}
	if l.EulaArgs != defaults.EulaArgs {
		dto.EulaArgs = &l.EulaArgs
	}
	if l.NoGUI != defaults.NoGUI {
		dto.NoGUI = &l.NoGUI
	}
	if l.PresetFlags != defaults.PresetFlags && l.PresetFlags != "" {
		dto.PresetFlags = string(l.PresetFlags)
	}
	if reflect.ValueOf(dto).IsZero() {
		return nil
	}
	return &dto
}

func fromDomain(server *domain.Server) ServerFile {
	file := ServerFile{
		Name:      server.Name,
		MCVersion: server.MCVersion,
		Loader:    server.Loader,
		Plugins:   sourcesFromDomain(server.Plugins),
		Mods:      sourcesFromDomain(server.Mods),
		Launcher:  launcherFromDomain(server.Launcher),
	}
	if server.Software != "" {
		file.Software = string(server.Software)
	}
	if server.Jar.Kind != "" {
		jar := sourceFromDomain(server.Jar)
		file.Jar = &jar
	}
	if len(server.Worlds) > 0 {
		file.Worlds = make(map[string]WorldDTO, len(server.Worlds))
		for name, world := range server.Worlds {
			file.Worlds[name] = WorldDTO{Datapacks: sourcesFromDomain(world.Datapacks)}
		}
	}
	if len(server.Variables) > 0 {
		file.Variables = server.Variables
	}
	return file
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
