package meeting

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imtaco/meet-embed/internal/errors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder by file extension; anything not yaml is json.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DecodeHostProps parses host props. Listeners are never decoded.
func DecodeHostProps(data []byte, format Format) (*HostProps, error) {
	var props HostProps
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, errors.Wrap(ErrInvalidHostProps, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&props); err != nil {
			return nil, errors.Wrap(ErrInvalidHostProps, err, "decode json")
		}
	default:
		return nil, errors.Newf(ErrInvalidHostProps, "unknown format %q", format)
	}
	return &props, nil
}
