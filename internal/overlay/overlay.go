package overlay

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"arcrun/internal/system"
)

// Document is a parsed YAML configuration document. The schema is owned by
// the external workflow framework; arcrun treats it as loosely-typed data.
type Document map[string]any

// Load reads and parses a single YAML file.
func Load(fs system.FileSystem, path string) (Document, error) {
	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// LoadAll loads the given files in order and merges them, later files
// overriding earlier ones. The caller supplies paths with the base file
// first; this mirrors the ordered --configfile semantics of the external
// workflow engine but performs a real nested merge instead of the
// copy-base-over-default workaround the old batch scripts used.
func LoadAll(fs system.FileSystem, paths []string) (Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no config files given")
	}

	merged := Document{}
	for _, path := range paths {
		doc, err := Load(fs, path)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, doc)
	}
	return merged, nil
}

// Merge deep-merges override into base and returns the result. Maps are
// merged recursively; scalars and lists are replaced wholesale by the
// override (a scenario that narrows a carrier list must not inherit entries
// from the base list).
func Merge(base, override Document) Document {
	out := make(Document, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}

	for k, v := range override {
		existing, ok := out[k]
		if !ok {
			out[k] = v
			continue
		}

		existingMap, eOK := asMap(existing)
		overrideMap, oOK := asMap(v)
		if eOK && oOK {
			out[k] = Merge(existingMap, overrideMap)
		} else {
			out[k] = v
		}
	}
	return out
}

// asMap normalizes the two map shapes yaml.v3 can produce.
func asMap(v any) (Document, bool) {
	switch m := v.(type) {
	case Document:
		return m, true
	case map[string]any:
		return Document(m), true
	default:
		return nil, false
	}
}

// Marshal renders the document back to YAML, for provenance copies of the
// merged configuration.
func (d Document) Marshal() ([]byte, error) {
	return yaml.Marshal(map[string]any(d))
}

// Lookup walks a dotted path of keys and returns the value if present.
func (d Document) Lookup(keys ...string) (any, bool) {
	var cur any = d
	for _, k := range keys {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// StringList extracts a list of strings at the dotted path.
func (d Document) StringList(keys ...string) ([]string, bool) {
	v, ok := d.Lookup(keys...)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Number coerces the YAML scalar types that can carry a numeric value.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
