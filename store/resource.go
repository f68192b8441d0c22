package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/transtree"
)

// ReadResourceFile loads a translation resource from a .json, .yaml, .yml
// or .toml file into a flat map. Nested tables are flattened with dots:
// {"menu": {"title": "File"}} becomes "menu.title".
func ReadResourceFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &transtree.StoreError{Message: fmt.Sprintf("read resource %s", path), Cause: err}
	}
	return parseResource(filepath.Ext(path), data)
}

// ReadResourceFS is ReadResourceFile over an fs.FS, for embedded resources.
func ReadResourceFS(fsys fs.FS, path string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &transtree.StoreError{Message: fmt.Sprintf("read resource %s", path), Cause: err}
	}
	return parseResource(filepath.Ext(path), data)
}

// WriteResourceFile writes a flat resource map in the format named by the
// file extension.
func WriteResourceFile(path string, resource map[string]string) error {
	data, err := encodeResource(filepath.Ext(path), resource)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &transtree.StoreError{Message: fmt.Sprintf("write resource %s", path), Cause: err}
	}
	return nil
}

func parseResource(ext string, data []byte) (map[string]string, error) {
	var nested map[string]any
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, &transtree.StoreError{Message: "parse json resource", Cause: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &nested); err != nil {
			return nil, &transtree.StoreError{Message: "parse yaml resource", Cause: err}
		}
	case ".toml":
		if err := toml.Unmarshal(data, &nested); err != nil {
			return nil, &transtree.StoreError{Message: "parse toml resource", Cause: err}
		}
	default:
		return nil, &transtree.StoreError{Message: fmt.Sprintf("unsupported resource format %q", ext)}
	}

	flat := make(map[string]string)
	flattenInto(flat, "", nested)
	return flat, nil
}

func flattenInto(out map[string]string, prefix string, in map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flattenInto(out, key, v)
		case string:
			out[key] = v
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
}

func encodeResource(ext string, resource map[string]string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		data, err := json.MarshalIndent(resource, "", "  ")
		if err != nil {
			return nil, &transtree.StoreError{Message: "encode json resource", Cause: err}
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		data, err := yaml.Marshal(resource)
		if err != nil {
			return nil, &transtree.StoreError{Message: "encode yaml resource", Cause: err}
		}
		return data, nil
	case ".toml":
		data, err := toml.Marshal(resource)
		if err != nil {
			return nil, &transtree.StoreError{Message: "encode toml resource", Cause: err}
		}
		return data, nil
	}
	return nil, &transtree.StoreError{Message: fmt.Sprintf("unsupported resource format %q", ext)}
}
