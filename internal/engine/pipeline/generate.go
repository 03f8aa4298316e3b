package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/mcsmith/internal/core/domain"
	"go.trai.ch/zerr"
)

// textExtensions are rendered; other config files are copied byte for byte.
var textExtensions = map[string]bool{
	".properties": true,
	".txt":        true,
	".yaml":       true,
	".yml":        true,
	".conf":       true,
	".config":     true,
	".toml":       true,
	".json":       true,
	".json5":      true,
	".secret":     true,
}

var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// generated is a file produced by the build itself rather than downloaded.
type generated struct {
	key  string
	rel  string
	data []byte
	perm os.FileMode
}

// renderConfig mirrors <server dir>/config into the output root, substituting
// ${VAR} references in text files.
func (p *Pipeline) renderConfig(ctx context.Context, bc *buildContext) ([]itemResult, error) {
	root := filepath.Join(bc.server.Dir(), domain.ConfigDirName)
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigRenderFailed.Error()), "path", root)
	case !info.IsDir():
		return nil, nil
	}

	var files []generated
	err = filepath.WalkDir(root, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(root, file)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(file) //nolint:gosec // walking the server's own config directory
		if err != nil {
			return err
		}
		if textExtensions[strings.ToLower(filepath.Ext(file))] {
			data = render(data, func(name string) (string, bool) { return lookupVar(bc.server, name, p.env) })
		}
		rel := filepath.ToSlash(relPath)
		files = append(files, generated{key: string(domain.StageConfig) + "/" + rel, rel: rel, data: data, perm: domain.FilePerm})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigRenderFailed.Error()), "path", root)
	}

	return p.writeGenerated(ctx, bc, domain.StageConfig, files)
}

// writeLauncher writes start.sh and start.bat for the server jar.
func (p *Pipeline) writeLauncher(ctx context.Context, bc *buildContext) ([]itemResult, error) {
	launcher := bc.server.Launcher
	if launcher.Disable {
		return nil, nil
	}

	jar := bc.jarPath()
	if jar == "" {
		p.logger.Warn("no server jar built, start scripts were not written")
		return nil, nil
	}

	files := []generated{
		{
			key:  string(domain.StageLauncher) + "/" + domain.LinuxScriptName,
			rel:  domain.LinuxScriptName,
			data: []byte(launcher.LinuxScript(jar, p.env)),
			perm: domain.ExecPerm,
		},
		{
			key:  string(domain.StageLauncher) + "/" + domain.WindowsScriptName,
			rel:  domain.WindowsScriptName,
			data: []byte(launcher.WindowsScript(bc.server.Name, jar, p.env)),
			perm: domain.FilePerm,
		},
	}
	return p.writeGenerated(ctx, bc, domain.StageLauncher, files)
}

// jarPath returns the server jar of this build, falling back to the previous one.
func (bc *buildContext) jarPath() string {
	if entries := bc.next.StageEntries(domain.StageJar); len(entries) > 0 {
		return entries[0].Path
	}
	if entries := bc.old.StageEntries(domain.StageJar); len(entries) > 0 {
		return entries[0].Path
	}
	return ""
}

// writeGenerated writes files whose content changed and reuses the rest.
func (p *Pipeline) writeGenerated(ctx context.Context, bc *buildContext, stage domain.StageName, files []generated) ([]itemResult, error) {
	return runParallel(ctx, bc.workers, len(files), func(ctx context.Context, i int) (itemResult, error) {
		f := files[i]
		artifact := domain.Artifact{
			Filename: path.Base(f.rel),
			Checksum: domain.XXH64Checksum(f.data),
			Size:     int64(len(f.data)),
		}

		if old, ok := bc.reusable(f.key, artifact, f.rel); ok {
			return itemResult{entry: old, outcome: domain.OutcomeReused}, nil
		}

		dest := bc.abs(f.rel)
		if err := p.fetcher.Fetch(ctx, bytes.NewReader(f.data), artifact, dest); err != nil {
			return itemResult{}, zerr.With(err, "file", f.rel)
		}
		if f.perm != domain.FilePerm {
			if err := os.Chmod(dest, f.perm); err != nil {
				return itemResult{}, zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", dest)
			}
		}
		p.logger.Info("wrote " + f.rel)

		return itemResult{
			entry:   domain.LockEntry{Stage: stage, Key: f.key, Artifact: artifact, Path: f.rel},
			outcome: domain.OutcomeFetched,
		}, nil
	})
}

// render replaces ${NAME} references. Unknown names are left as written.
func render(data []byte, lookup func(string) (string, bool)) []byte {
	return variablePattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := string(match[2 : len(match)-1])
		if value, ok := lookup(name); ok {
			return []byte(value)
		}
		return match
	})
}

// lookupVar resolves a variable from the server file, then the built-ins,
// then the process environment.
func lookupVar(server *domain.Server, name string, env domain.EnvLookup) (string, bool) {
	if v, ok := server.Variables[name]; ok {
		return v, true
	}
	switch name {
	case "SERVER_NAME":
		return server.Name, true
	case "SERVER_VERSION":
		return server.MCVersion, true
	}
	if env != nil {
		return env(name)
	}
	return "", false
}
