// File: lixenwraith/optmap/io.go
package optmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file encoding
type Format string

const (
	// FormatAuto detects the format from the file extension, then the content
	FormatAuto Format = ""
	// FormatTOML is TOML v1.0
	FormatTOML Format = "toml"
	// FormatJSON is strict JSON
	FormatJSON Format = "json"
	// FormatJSONC is JSON with comments and trailing commas
	FormatJSONC Format = "jsonc"
	// FormatYAML is YAML 1.2
	FormatYAML Format = "yaml"
	// FormatCBOR is binary CBOR (RFC 8949)
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name. An empty name selects FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, FormatTOML, FormatJSON, FormatJSONC, FormatYAML, FormatCBOR:
		return f, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// DetectFormat determines the format from a file extension, FormatAuto if unknown
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".jsonc":
		return FormatJSONC
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatAuto
	}
}

// detectFormatFromContent attempts to detect a text format by parsing.
// TOML is tried before YAML because most TOML documents are valid YAML scalars.
func detectFormatFromContent(data []byte) Format {
	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err == nil {
		return FormatJSON
	}

	probe = nil
	if err := toml.Unmarshal(data, &probe); err == nil {
		return FormatTOML
	}

	probe = nil
	if err := yaml.Unmarshal(data, &probe); err == nil {
		return FormatYAML
	}

	return FormatAuto
}

// Parse decodes data in the given format into a Map with every nested mapping converted
func Parse(data []byte, format Format) (*Map, error) {
	if format == FormatAuto {
		format = detectFormatFromContent(data)
		if format == FormatAuto {
			return nil, ErrUnknownFormat
		}
	}

	m := New()
	switch format {
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		m = Convert(raw)
	case FormatJSON, FormatJSONC:
		if format == FormatJSONC {
			data = jsonc.ToJSON(data)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return m, nil
		}
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatCBOR:
		if err := m.UnmarshalCBOR(data); err != nil {
			return nil, fmt.Errorf("failed to parse CBOR: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return m, nil
}

// Encode serializes m in the given format. FormatAuto encodes TOML.
func Encode(m *Map, format Format) ([]byte, error) {
	switch format {
	case FormatAuto, FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m.ToMap()); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case FormatCBOR:
		return m.MarshalCBOR()
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// LoadFile reads and parses a configuration file. FormatAuto uses the file
// extension and falls back to content detection.
// A missing file returns an error wrapping ErrFileNotFound.
func LoadFile(path string, format Format) (*Map, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("config path '%s' is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if format == FormatAuto {
		format = DetectFormat(path)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", path, err)
	}
	return m, nil
}

// SaveFile writes m to path atomically. FormatAuto uses the file extension, then TOML.
func SaveFile(path string, m *Map, format Format) error {
	if format == FormatAuto {
		format = DetectFormat(path)
	}
	data, err := Encode(m, format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
