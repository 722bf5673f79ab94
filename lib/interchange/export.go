// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/verifyica/pipeliner-ipc/lib/codec"
	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

// Marshal renders properties in format. Every format orders keys
// lexicographically, so equal maps produce equal documents. Text
// formats end with a newline.
func Marshal(properties ipc.Properties, format Format) ([]byte, error) {
	// A nil map would otherwise render as JSON null or CBOR nil.
	document := map[string]string(properties)
	if document == nil {
		document = map[string]string{}
	}

	switch format {
	case FormatJSON:
		var buffer bytes.Buffer
		encoder := json.NewEncoder(&buffer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(document); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return buffer.Bytes(), nil

	case FormatYAML:
		data, err := yaml.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil

	case FormatCBOR:
		data, err := codec.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("encoding cbor: %w", err)
		}
		return data, nil

	case FormatCBORDiag:
		data, err := codec.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("encoding cbor: %w", err)
		}
		notation, err := codec.Diagnose(data)
		if err != nil {
			return nil, fmt.Errorf("diagnosing cbor: %w", err)
		}
		return []byte(notation + "\n"), nil
	}
	return nil, fmt.Errorf("%w for export: %q", ErrUnsupportedFormat, format)
}
