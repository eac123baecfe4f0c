// Package transfer exports the settings store as a flat key/value document and
// imports such documents back. An import is all or nothing: the document is
// decoded, checked against the generated JSON Schema, coerced and repaired
// before a single batch write, so a malformed document never touches the
// store.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/validate"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// FileName is the document kept inside the download folder.
const FileName = "wallpaper-settings.json"

// Format of an exported document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var log = logging.NewLogger("transfer")

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown export format %q", s))
}

// Export renders every key of store, sorted by name.
func Export(store settings.Reader, format Format) ([]byte, error) {
	doc := make(map[string]interface{})
	for _, key := range store.Schema().Keys() {
		doc[string(key)] = store.Get(key)
	}

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode settings")
		}
		return data, nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode settings")
		}
		return append(data, '\n'), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown export format %q", format))
}

// Decode parses a document of schema s without touching any store. JSON is
// detected by a leading brace; anything else is read as YAML.
func Decode(s *schema.Schema, data []byte) (map[schema.Key]interface{}, error) {
	raw, err := decodeRaw(data)
	if err != nil {
		return nil, errors.ImportMalformed(err)
	}

	docValidator, err := schema.NewValidator(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build document schema")
	}
	if err := docValidator.Validate(raw); err != nil {
		return nil, errors.ImportMalformed(err)
	}

	doc, err := newTarget(s)
	if err != nil {
		return nil, err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      doc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create document decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.ImportMalformed(err)
	}

	values := doc.Values()
	for key, v := range values {
		def, err := s.MustLookup(key)
		if err != nil {
			return nil, errors.ImportMalformed(err)
		}
		coerced, err := def.Coerce(v)
		if err != nil {
			return nil, errors.ImportMalformed(err)
		}
		values[key] = coerced
	}
	return values, nil
}

// Import applies a document to store. The values are repaired by v exactly
// as startup validation would and then written as one batch with the import
// origin.
func Import(store *settings.Store, v *validate.Validator, data []byte) error {
	values, err := Decode(store.Schema(), data)
	if err != nil {
		log.WithError(err).Debug("Rejected settings document")
		return err
	}

	sanitized := v.Sanitize(values)
	if err := store.SetMany(sanitized, settings.OriginImport); err != nil {
		return err
	}
	log.WithField("keys", len(values)).Info("Imported settings")
	return nil
}

// ExportToDir writes the JSON document into dir so the folder carries its own
// settings.
func ExportToDir(store settings.Reader, dir string) (string, error) {
	data, err := Export(store, FormatJSON)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create export folder")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to write settings document")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to write settings document")
	}
	return path, nil
}

// ImportFromDir imports the document previously written by ExportToDir.
func ImportFromDir(store *settings.Store, v *validate.Validator, dir string) error {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.ConfigNotFound(path)
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to read settings document")
	}
	return Import(store, v, data)
}

func decodeRaw(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	raw := map[string]interface{}{}
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if dec.More() {
			return nil, fmt.Errorf("invalid JSON: trailing data")
		}
		for k, v := range raw {
			if n, ok := v.(json.Number); ok {
				raw[k] = numberValue(n)
			}
		}
		return raw, nil
	}

	if err := yaml.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return raw, nil
}

// numberValue keeps integers exact and lets 3.0 reach integer keys as 3.
func numberValue(n json.Number) interface{} {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
