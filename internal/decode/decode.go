// Package decode parses profile and configuration documents. It isolates the
// YAML and TOML libraries so callers only deal with a Format.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// MaxInputSize limits input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData           = errors.New("decode: nil or empty data")
	ErrNilDestination    = errors.New("decode: nil destination pointer")
	ErrInputTooLarge     = errors.New("decode: input exceeds maximum size")
	ErrUnsupportedFormat = errors.New("decode: unsupported format")
)

// Format is a document encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsDocument reports whether path has a profile document extension.
func IsDocument(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data in the given format, ignoring unknown fields.
func Unmarshal(format Format, data []byte, v any) error {
	return unmarshal(format, data, v, false)
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(format Format, data []byte, v any) error {
	return unmarshal(format, data, v, true)
}

func unmarshal(format Format, data []byte, v any, strict bool) error {
	if err := validateInput(data, v); err != nil {
		return err
	}

	switch format {
	case YAML:
		var opts []yaml.DecodeOption
		if strict {
			opts = append(opts, yaml.Strict())
		}
		if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
			return fmt.Errorf("decode: yaml: %w", err)
		}
	case TOML:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return fmt.Errorf("decode: toml: %w", err)
		}
		if undecoded := md.Undecoded(); strict && len(undecoded) > 0 {
			return fmt.Errorf("decode: toml: unknown field %q", undecoded[0].String())
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode: json: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// MarshalYAML encodes v as YAML.
func MarshalYAML(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("decode: yaml: %w", err)
	}
	return result, nil
}
