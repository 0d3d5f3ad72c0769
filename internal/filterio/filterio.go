// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filterio reads and writes the JSON documents pandoc exchanges
// with filters on stdin and stdout. Both framings are supported: the modern
// {"pandoc-api-version", "meta", "blocks"} object and the legacy two-element
// [{"unMeta": ...}, blocks] array that pandoc used before 1.18. Output
// mirrors the input framing so the filter slots into either toolchain.
package filterio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexstoick/pandoc-xnos/pkg/ast"
)

// Document is one parsed pandoc document.
type Document struct {
	// APIVersion holds pandoc-api-version for modern framing; nil marks a
	// legacy document.
	APIVersion []int

	Meta   ast.Meta
	Blocks []any
}

// modernDoc mirrors the post-1.18 JSON object.
type modernDoc struct {
	APIVersion []int                      `json:"pandoc-api-version"`
	Meta       map[string]json.RawMessage `json:"meta"`
	Blocks     json.RawMessage            `json:"blocks"`
}

// legacyMeta mirrors the first element of the pre-1.18 array framing.
type legacyMeta struct {
	UnMeta map[string]json.RawMessage `json:"unMeta"`
}

// Read parses a pandoc JSON document from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	trimmed := firstByte(data)
	switch trimmed {
	case '{':
		return readModern(data)
	case '[':
		return readLegacy(data)
	default:
		return nil, fmt.Errorf("input does not look like a pandoc JSON document")
	}
}

func readModern(data []byte) (*Document, error) {
	var raw modernDoc
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	blocks, err := decodeList(raw.Blocks)
	if err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	meta, err := decodeMeta(raw.Meta)
	if err != nil {
		return nil, err
	}
	return &Document{APIVersion: raw.APIVersion, Meta: meta, Blocks: blocks}, nil
}

func readLegacy(data []byte) (*Document, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("legacy document has %d top-level elements, want 2", len(parts))
	}
	var lm legacyMeta
	if err := json.Unmarshal(parts[0], &lm); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	meta, err := decodeMeta(lm.UnMeta)
	if err != nil {
		return nil, err
	}
	blocks, err := decodeList(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	return &Document{Meta: meta, Blocks: blocks}, nil
}

func decodeList(raw json.RawMessage) ([]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	list, ok := ast.Decode(v).([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array")
	}
	return list, nil
}

func decodeMeta(raw map[string]json.RawMessage) (ast.Meta, error) {
	meta := make(ast.Meta, len(raw))
	for k, rv := range raw {
		var v any
		if err := json.Unmarshal(rv, &v); err != nil {
			return nil, fmt.Errorf("decoding metadata variable %q: %w", k, err)
		}
		meta[k] = ast.Decode(v)
	}
	return meta, nil
}

// Write serializes the document to w in the framing it was read with.
func Write(w io.Writer, doc *Document) error {
	if doc.Meta == nil {
		doc.Meta = ast.Meta{}
	}
	if doc.Blocks == nil {
		doc.Blocks = []any{}
	}

	var payload any
	if doc.APIVersion != nil {
		payload = map[string]any{
			"pandoc-api-version": doc.APIVersion,
			"meta":               map[string]any(doc.Meta),
			"blocks":             doc.Blocks,
		}
	} else {
		payload = []any{
			map[string]any{"unMeta": map[string]any(doc.Meta)},
			doc.Blocks,
		}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// firstByte returns the first non-whitespace byte of data, or 0.
func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
