package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/hpos-config/pkg/schema"
)

// StdinName labels documents read from standard input.
const StdinName = "stdin"

// ReadDocument returns the contents of path, or of stdin when path is empty or "-",
// together with a display name for the source.
func ReadDocument(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, StdinName, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, StdinName, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, filepath.Base(path), nil
}

// IsYAML reports whether path names a YAML file.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// DecodeData decodes a data document. YAML files are picked by extension,
// everything else is JSON decoded by v, so malformed JSON is a DecodeError
// labelled with the validator's root.
func DecodeData(v *schema.Validator, path string, data []byte) (any, error) {
	if IsYAML(path) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return doc, nil
	}
	return v.Decode(data)
}

// LoadSchema reads a YAML schema document.
func LoadSchema(path string, preds schema.PredicateLookup) (schema.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	node, err := schema.ParseYAML(data, preds)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", filepath.Base(path), err)
	}
	return node, nil
}
