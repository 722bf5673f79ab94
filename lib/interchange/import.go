// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/verifyica/pipeliner-ipc/lib/codec"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

// Unmarshal parses a document in format into a property map. An empty
// document (or a null one) yields an empty map. Keys are validated
// with the channel key rules, and a key that appears twice fails with
// [ErrDuplicateKey] in every format.
func Unmarshal(data []byte, format Format) (ipc.Properties, error) {
	var (
		properties ipc.Properties
		err        error
	)
	switch format {
	case FormatJSON:
		properties, err = unmarshalJSON(data)
	case FormatJSONC:
		properties, err = unmarshalJSON(jsonc.ToJSON(data))
	case FormatYAML:
		properties, err = unmarshalYAML(data)
	case FormatCBOR:
		properties, err = unmarshalCBOR(data)
	default:
		return nil, fmt.Errorf("%w for import: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := properties.Validate(); err != nil {
		return nil, err
	}
	return properties, nil
}

// unmarshalJSON reads the top-level object token by token, since
// decoding into a map would silently keep the last of two equal keys.
func unmarshalJSON(data []byte) (ipc.Properties, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return ipc.Properties{}, nil
	}

	// UseNumber keeps the number's source text, so 1.10 is not
	// rewritten as 1.1.
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	properties := ipc.Properties{}
	switch token {
	case nil:
	case json.Delim('{'):
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, fmt.Errorf("parsing json: %w", err)
			}
			key := keyToken.(string)
			var value any
			if err := decoder.Decode(&value); err != nil {
				return nil, fmt.Errorf("parsing json: key %q: %w", key, err)
			}
			if _, exists := properties[key]; exists {
				return nil, fmt.Errorf("%w %q", ErrDuplicateKey, key)
			}
			text, err := scalarText(value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			properties[key] = text
		}
		if _, err := decoder.Token(); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: top level is %v", ErrNotFlat, token)
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing json: trailing data after document")
	}
	return properties, nil
}

func unmarshalCBOR(data []byte) (ipc.Properties, error) {
	if len(data) == 0 {
		return ipc.Properties{}, nil
	}
	var document any
	if err := codec.Unmarshal(data, &document); err != nil {
		if errors.Is(err, codec.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("parsing cbor: %w", err)
	}
	return flatten(document)
}

// flatten converts a decoded document into a property map.
func flatten(document any) (ipc.Properties, error) {
	if document == nil {
		return ipc.Properties{}, nil
	}
	object, ok := document.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T", ErrNotFlat, document)
	}

	properties := make(ipc.Properties, len(object))
	for key, value := range object {
		text, err := scalarText(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		properties[key] = text
	}
	return properties, nil
}

func scalarText(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case json.Number:
		return typed.String(), nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case uint64:
		return strconv.FormatUint(typed, 10), nil
	case float32:
		return strconv.FormatFloat(float64(typed), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("%w: value is %T", ErrNotFlat, value)
}

// unmarshalYAML walks the node tree instead of decoding into a map so
// scalar text is kept exactly as written.
func unmarshalYAML(data []byte) (ipc.Properties, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if document.Kind == 0 || len(document.Content) == 0 {
		return ipc.Properties{}, nil
	}

	root := document.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return ipc.Properties{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping (line %d)", ErrNotFlat, root.Line)
	}

	properties := make(ipc.Properties, len(root.Content)/2)
	for index := 0; index+1 < len(root.Content); index += 2 {
		keyNode, valueNode := root.Content[index], root.Content[index+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", ErrNotFlat, keyNode.Line)
		}
		if valueNode.Kind == yaml.AliasNode && valueNode.Alias != nil {
			valueNode = valueNode.Alias
		}
		if valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: key %q at line %d", ErrNotFlat, keyNode.Value, keyNode.Line)
		}
		if _, exists := properties[keyNode.Value]; exists {
			return nil, fmt.Errorf("%w %q at line %d", ErrDuplicateKey, keyNode.Value, keyNode.Line)
		}

		value := valueNode.Value
		if valueNode.ShortTag() == "!!null" {
			value = ""
		}
		properties[keyNode.Value] = value
	}
	return properties, nil
}
