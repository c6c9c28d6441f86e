package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Codec converts between file bytes and generic documents (maps, slices,
// strings, numbers, booleans).
type Codec interface {
	Name() string
	Decode(data []byte) (any, error)
	Encode(doc any) ([]byte, error)
}

// CodecFor returns the codec for a snapshot path, chosen by extension.
func CodecFor(path string) (Codec, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	case ".cbor":
		return newCBORCodec()
	default:
		return nil, fmt.Errorf("unsupported snapshot extension %q (want .json, .jsonc, .yaml, .yml or .cbor)", ext)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Decode(data []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (jsonCodec) Encode(doc any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Decode(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return stringKeys(doc), nil
}

func (yamlCodec) Encode(doc any) ([]byte, error) {
	generic, err := toGeneric(doc)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func newCBORCodec() (cborCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("cbor encoder: %w", err)
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return cborCodec{}, fmt.Errorf("cbor decoder: %w", err)
	}
	return cborCodec{enc: enc, dec: dec}, nil
}

func (cborCodec) Name() string { return "cbor" }

func (c cborCodec) Decode(data []byte) (any, error) {
	var doc any
	if err := c.dec.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return stringKeys(doc), nil
}

func (c cborCodec) Encode(doc any) ([]byte, error) {
	generic, err := toGeneric(doc)
	if err != nil {
		return nil, err
	}
	return c.enc.Marshal(generic)
}

// toGeneric converts a typed value into the generic form JSON decoding
// produces, so every codec writes the same field names.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// stringKeys rewrites map[any]any values (YAML maps with non-string keys)
// into map[string]any so the document can be re-encoded as JSON.
func stringKeys(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case map[string]any:
		for k, item := range val {
			val[k] = stringKeys(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = stringKeys(item)
		}
		return val
	default:
		return v
	}
}
