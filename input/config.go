package input

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"gopkg.in/yaml.v3"
)

// SettingsEnv names the YAML file describing the input formats.
const SettingsEnv = "PROVENANCE_SETTINGS"

const DefaultTTL = 10 * time.Minute

var ErrNoSettings = errors.New("no input settings")

// Config is the YAML layout of the settings file:
//
//	formats:
//	  - name: sample
//	    ttl: 5m
//	    file: sample.json
//	    variables:
//	      - {name: id, type: s, signable: true}
//	      - {name: size, type: i}
//	    records:
//	      - {id: a, size: 3}
type Config struct {
	Formats []FormatConfig `yaml:"formats"`
}

type FormatConfig struct {
	Name      string           `yaml:"name"`
	TTL       time.Duration    `yaml:"ttl"`
	File      string           `yaml:"file"`
	Variables []VariableConfig `yaml:"variables"`
	Records   []map[string]any `yaml:"records"`
}

// VariableConfig gives a variable's type as a descriptor.
type VariableConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Signable bool   `yaml:"signable"`
}

// LoadEnv loads the settings file named by PROVENANCE_SETTINGS.
func LoadEnv() (*Set, error) {
	path := os.Getenv(SettingsEnv)
	if path == "" {
		return nil, ErrNoSettings
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(b, filepath.Dir(path))
}

// Load builds providers from YAML settings.  Relative record files are
// resolved against dir.
func Load(b []byte, dir string) (*Set, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("input settings: %w", err)
	}
	set := NewSet()
	for _, fc := range c.Formats {
		p, err := fc.provider(dir)
		if err != nil {
			return nil, fmt.Errorf("input format %s: %w", fc.Name, err)
		}
		ttl := fc.TTL
		if ttl == 0 {
			ttl = DefaultTTL
		}
		if err := set.Add(p, ttl); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (fc *FormatConfig) provider(dir string) (Provider, error) {
	if fc.Name == "" {
		return nil, errors.New("format has no name")
	}
	vars := make([]definitions.Variable, 0, len(fc.Variables))
	for _, v := range fc.Variables {
		typ, err := shesmu.ParseDescriptor(v.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		vars = append(vars, definitions.Variable{Name: v.Name, Type: typ, Signable: v.Signable})
	}
	if fc.File != "" {
		path := fc.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return &JSONFile{Name: fc.Name, Vars: vars, Path: path}, nil
	}
	docs := make([]any, 0, len(fc.Records))
	for _, r := range fc.Records {
		docs = append(docs, jsonOfYAML(r))
	}
	recs, err := decode(vars, docs)
	if err != nil {
		return nil, err
	}
	return &Static{Name: fc.Name, Vars: vars, Recs: recs}, nil
}

// JSONFile reads a JSON array of objects, one per record, on every
// refresh.
type JSONFile struct {
	Name string
	Vars []definitions.Variable
	Path string
}

func (j *JSONFile) FormatName() string                { return j.Name }
func (j *JSONFile) Variables() []definitions.Variable { return j.Vars }

func (j *JSONFile) Records(ctx context.Context) ([][]shesmu.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, err
	}
	var docs []any
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", j.Path, err)
	}
	return decode(j.Vars, docs)
}

func decode(vars []definitions.Variable, docs []any) ([][]shesmu.Value, error) {
	recs := make([][]shesmu.Value, 0, len(docs))
	for i, doc := range docs {
		obj, ok := doc.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is not an object", i)
		}
		rec := make([]shesmu.Value, 0, len(vars))
		for _, v := range vars {
			val, ok := shesmu.FromJSON(v.Type, obj[v.Name])
			if !ok {
				return nil, fmt.Errorf("record %d: field %s is not %s", i, v.Name, v.Type.Name())
			}
			rec = append(rec, val)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// jsonOfYAML converts decoded YAML to the shapes encoding/json produces.
func jsonOfYAML(v any) any {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case []any:
		out := make([]any, 0, len(v))
		for _, e := range v {
			out = append(out, jsonOfYAML(e))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonOfYAML(e)
		}
		return out
	}
	return v
}
