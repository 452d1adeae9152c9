package cascade

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// source supplies configuration as a normalized map:
//   - keys are lower case and contain no "."; dotted keys are expanded into nested maps
//   - values are nested map[string]any, scalars (int, float64, bool, string), []string, or nil
type source interface {
	provenance() Provenance
	load() (map[string]any, error)
}

type mapSource struct {
	m map[string]any
}

func (s *mapSource) provenance() Provenance { return Provenance{SourceType: SourceDefault} }

func (s *mapSource) load() (map[string]any, error) {
	out := map[string]any{}
	for k, v := range s.m {
		nv, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		if err := insert(out, k, nv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// fileSource is a JSON or YAML file, chosen by extension.
type fileSource struct {
	path string
}

func (s *fileSource) provenance() Provenance {
	return Provenance{SourceType: SourceFile, SourceIdentifier: ExpandPath(s.path)}
}

func (s *fileSource) load() (map[string]any, error) {
	data, err := os.ReadFile(ExpandPath(s.path))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(s.path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	nv, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := nv.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level must be an object")
	}
	return obj, nil
}

// envSource maps keys to environment variable names.
type envSource struct {
	keyToEnv map[string]string
}

func (s *envSource) provenance() Provenance { return Provenance{SourceType: SourceEnv} }

func (s *envSource) load() (map[string]any, error) {
	out := map[string]any{}
	for key, envVar := range s.keyToEnv {
		// An empty variable is treated as unset so it can't blank out a file setting.
		val := os.Getenv(envVar)
		if envVar == "" || val == "" {
			continue
		}
		if err := insert(out, key, val); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// insert stores v in obj at the dotted key, creating intermediate maps. Maps at the leaf are merged.
func insert(obj map[string]any, key string, v any) error {
	parts := strings.Split(strings.ToLower(key), ".")
	for _, part := range parts[:len(parts)-1] {
		next, exists := obj[part]
		if !exists {
			child := map[string]any{}
			obj[part] = child
			obj = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("key conflict at %q: %q is not an object", key, part)
		}
		obj = child
	}

	leaf := parts[len(parts)-1]
	existing, exists := obj[leaf]
	if !exists {
		obj[leaf] = v
		return nil
	}
	dst, dstIsMap := existing.(map[string]any)
	src, srcIsMap := v.(map[string]any)
	if !dstIsMap || !srcIsMap {
		return fmt.Errorf("key conflict: %q was already set", key)
	}
	for k, sv := range src {
		if err := insert(dst, k, sv); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// normalize converts decoded JSON/YAML (or a caller's defaults) into the normalized value forms.
func normalize(v any) (any, error) {
	switch vv := v.(type) {
	case nil, bool, string, int, float64:
		return vv, nil
	case int64:
		return int(vv), nil
	case []string:
		return vv, nil
	case map[string]any:
		out := map[string]any{}
		for k, e := range vv {
			ne, err := normalize(e)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			if err := insert(out, k, ne); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []any:
		out := make([]string, len(vv))
		for i, e := range vv {
			switch ee := e.(type) {
			case string:
				out[i] = ee
			case int, float64, bool:
				out[i] = fmt.Sprint(ee)
			default:
				return nil, fmt.Errorf("list element %d: unsupported type %T", i, e)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
