// Package config loads yap configuration files. YAML, JSON and CUE are
// supported, with CUE as the underlying parser, so several files can be
// unified into one document.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
)

// LoadValueFromReader parses YAML (and therefore JSON) from r.
// For .cue files with imports, use LoadValue instead.
func LoadValueFromReader(r io.Reader) (cue.Value, error) {
	ctx := cuecontext.New()

	data, err := io.ReadAll(r)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}

	file, err := yaml.Extract("", data)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to parse config: %w", err)
	}

	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}

	return val, nil
}

// LoadValue loads a file or directory and returns its CUE value.
//
// For .cue files and directories: uses load.Instances so packages with
// imports work. For .yaml/.yml/.json files: parses the data directly.
// Anything else is tried as YAML.
func LoadValue(path string) (cue.Value, error) {
	return loadValue(cuecontext.New(), path)
}

func loadValue(ctx *cue.Context, path string) (cue.Value, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to stat path: %w", err)
	}

	var val cue.Value

	if fileInfo.IsDir() || strings.HasSuffix(strings.ToLower(path), ".cue") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to resolve path: %w", err)
		}

		cfg := &load.Config{
			Dir:       filepath.Dir(absPath),
			DataFiles: true,
		}

		args := []string{absPath}
		if fileInfo.IsDir() {
			cfg.Dir = absPath
			args = []string{"."}
		}

		instances := load.Instances(args, cfg)
		if len(instances) == 0 {
			return cue.Value{}, fmt.Errorf("no instances loaded from %s", path)
		}

		inst := instances[0]
		if inst.Err != nil {
			return cue.Value{}, fmt.Errorf("failed to load config: %w", inst.Err)
		}

		val = ctx.BuildInstance(inst)
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to read file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			val = ctx.CompileBytes(data, cue.Filename(path))
		default:
			file, err := yaml.Extract(path, data)
			if err != nil {
				return cue.Value{}, fmt.Errorf("failed to parse YAML: %w", err)
			}
			val = ctx.BuildFile(file)
		}
	}

	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}

// LoadAndUnifyPaths loads every file matching the glob patterns and unifies
// them into one value. Patterns matching nothing are skipped, so the result
// may be an empty struct. A leading "~/" expands to the home directory.
//
// Conflicting values across files are an error.
func LoadAndUnifyPaths(patterns []string) (cue.Value, error) {
	ctx := cuecontext.New()
	result := ctx.CompileString("{}")

	for _, pattern := range patterns {
		matches, err := filepath.Glob(expandHome(pattern))
		if err != nil {
			return cue.Value{}, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
		}

		for _, path := range matches {
			val, err := loadValue(ctx, path)
			if err != nil {
				return cue.Value{}, fmt.Errorf("%s: %w", path, err)
			}

			result = result.Unify(val)
			if err := result.Validate(); err != nil {
				return cue.Value{}, fmt.Errorf("%s: conflicting configuration: %w", path, err)
			}
		}
	}

	return result, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// LoadFromFile loads a file or directory into T.
//
// Examples:
//
//	cfg, err := LoadFromFile[Config]("yap.yaml")
//	cfg, err := LoadFromFile[Config]("./config") // loads .cue directory
func LoadFromFile[T any](path string) (*T, error) {
	val, err := LoadValue(path)
	if err != nil {
		return nil, err
	}

	var config T
	if err := val.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
}
