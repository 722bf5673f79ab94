// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package interchange

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

var sample = ipc.Properties{
	"pipeline.id":          "build",
	"message":              "line one\nline two",
	"empty":                "",
	"html":                 "<a&b>",
	"extension.property.1": "go.extension.foo",
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatJSON, FormatYAML, FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			data, err := Marshal(sample, format)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			decoded, err := Unmarshal(data, format)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !maps.Equal(decoded, sample) {
				t.Errorf("round trip = %v, want %v", decoded, sample)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := Marshal(ipc.Properties{"b": "2", "a": "<1>"}, FormatJSON)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "{\n  \"a\": \"<1>\",\n  \"b\": \"2\"\n}\n"
	if string(data) != want {
		t.Errorf("Marshal = %q, want %q", data, want)
	}
}

func TestMarshalNilMap(t *testing.T) {
	t.Parallel()

	data, err := Marshal(nil, FormatJSON)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "{}\n")
	}
}

func TestMarshalCBORDiag(t *testing.T) {
	t.Parallel()

	data, err := Marshal(ipc.Properties{"key1": "value1"}, FormatCBORDiag)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `"key1"`) || !strings.Contains(text, `"value1"`) || !strings.HasSuffix(text, "\n") {
		t.Errorf("Marshal = %q", text)
	}
}

func TestUnmarshalJSONC(t *testing.T) {
	t.Parallel()

	document := `{
  // Build step inputs.
  "pipeline.id": "build",
  /* numbers keep their text */
  "threshold": 1.10,
  "enabled": true,
  "cleared": null,
}`
	properties, err := Unmarshal([]byte(document), FormatJSONC)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := ipc.Properties{"pipeline.id": "build", "threshold": "1.10", "enabled": "true", "cleared": ""}
	if !maps.Equal(properties, want) {
		t.Errorf("Unmarshal = %v, want %v", properties, want)
	}
}

func TestUnmarshalYAMLKeepsScalarText(t *testing.T) {
	t.Parallel()

	document := `
version: 1.10
octal: 0755
flag: yes
empty:
quoted: "null"
multi: |
  first
  second
`
	properties, err := Unmarshal([]byte(document), FormatYAML)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := ipc.Properties{
		"version": "1.10",
		"octal":   "0755",
		"flag":    "yes",
		"empty":   "",
		"quoted":  "null",
		"multi":   "first\nsecond\n",
	}
	if !maps.Equal(properties, want) {
		t.Errorf("Unmarshal = %v, want %v", properties, want)
	}
}

func TestUnmarshalEmptyDocuments(t *testing.T) {
	t.Parallel()

	for _, format := range ImportFormats {
		for _, document := range []string{"", "null"} {
			if format == FormatCBOR && document != "" {
				continue
			}
			properties, err := Unmarshal([]byte(document), format)
			if err != nil {
				t.Errorf("%s %q: %v", format, document, err)
				continue
			}
			if properties == nil || len(properties) != 0 {
				t.Errorf("%s %q = %v, want empty map", format, document, properties)
			}
		}
	}
}

func TestUnmarshalRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   Format
		document string
		want     error
	}{
		{"json array", FormatJSON, `["a"]`, ErrNotFlat},
		{"json nested", FormatJSON, `{"a": {"b": "c"}}`, ErrNotFlat},
		{"json scalar document", FormatJSON, `"text"`, ErrNotFlat},
		{"yaml list value", FormatYAML, "key1:\n  - a\n", ErrNotFlat},
		{"yaml scalar document", FormatYAML, "just text\n", ErrNotFlat},
		{"invalid key", FormatJSON, `{"bad key": "v"}`, ipc.ErrInvalidKey},
		{"single character key", FormatYAML, "a: v\n", ipc.ErrInvalidKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := Unmarshal([]byte(test.document), test.format)
			if !errors.Is(err, test.want) {
				t.Errorf("Unmarshal error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestUnmarshalDuplicateKey(t *testing.T) {
	t.Parallel()

	// {"key1": "a", "key1": "b"}
	cborDocument := []byte{0xa2, 0x64, 'k', 'e', 'y', '1', 0x61, 'a', 0x64, 'k', 'e', 'y', '1', 0x61, 'b'}

	tests := []struct {
		format   Format
		document []byte
	}{
		{FormatJSON, []byte(`{"key1": "a", "key1": "b"}`)},
		{FormatJSONC, []byte("{\n  // first\n  \"key1\": \"a\",\n  \"key1\": \"b\",\n}\n")},
		{FormatYAML, []byte("key1: a\nkey1: b\n")},
		{FormatCBOR, cborDocument},
	}
	for _, test := range tests {
		t.Run(string(test.format), func(t *testing.T) {
			t.Parallel()
			_, err := Unmarshal(test.document, test.format)
			if !errors.Is(err, ErrDuplicateKey) {
				t.Errorf("Unmarshal error = %v, want ErrDuplicateKey", err)
			}
		})
	}
}

func TestFormatDirection(t *testing.T) {
	t.Parallel()

	if _, err := Marshal(sample, FormatJSONC); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Marshal jsonc error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Unmarshal(nil, FormatCBORDiag); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Unmarshal cbor-diag error = %v, want ErrUnsupportedFormat", err)
	}

	for _, format := range ExportFormats {
		if _, err := Marshal(sample, format); err != nil {
			t.Errorf("Marshal %s: %v", format, err)
		}
	}
	if FormatJSONC.Exportable() || !FormatJSONC.Importable() {
		t.Error("jsonc should be import-only")
	}
	if !FormatCBORDiag.Exportable() || FormatCBORDiag.Importable() {
		t.Error("cbor-diag should be export-only")
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{"json": FormatJSON, "JSONC": FormatJSONC, "yml": FormatYAML, "cbor-diag": FormatCBORDiag}
	for name, want := range tests {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	if _, err := ParseFormat("toml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(toml) error = %v, want ErrUnsupportedFormat", err)
	}
}
