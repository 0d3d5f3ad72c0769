// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package attr parses and renders pandoc attribute strings, the
// {#id .class key=value} runs that markdown attaches to images, spans, and
// code blocks, and converts them to and from the [id, classes, pairs] triple
// used in pandoc's JSON.
package attr

import (
	"fmt"
	"strings"
)

// KeyVal is one key=value attribute pair.
type KeyVal struct {
	Key   string
	Value string
}

// Attr holds a parsed attribute set.
type Attr struct {
	ID      string
	Classes []string
	KeyVals []KeyVal
}

// Get returns the value for key and whether the key is present.
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KeyVals {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set appends or replaces the value for key.
func (a *Attr) Set(key, value string) {
	for i, kv := range a.KeyVals {
		if kv.Key == key {
			a.KeyVals[i].Value = value
			return
		}
	}
	a.KeyVals = append(a.KeyVals, KeyVal{Key: key, Value: value})
}

// Empty reports whether the attribute set carries nothing.
func (a Attr) Empty() bool {
	return a.ID == "" && len(a.Classes) == 0 && len(a.KeyVals) == 0
}

// Parse reads a markdown attribute string like {#fig:one .wide width=50%}.
// Surrounding braces are optional. Values may be single- or double-quoted;
// the quotes are stripped. Tokens with no marker are treated as classes.
func Parse(s string) Attr {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	var a Attr
	for _, tok := range splitTokens(s) {
		switch {
		case strings.HasPrefix(tok, "#"):
			if a.ID == "" {
				a.ID = tok[1:]
			}
		case strings.HasPrefix(tok, "."):
			a.Classes = append(a.Classes, tok[1:])
		case strings.Contains(tok, "="):
			parts := strings.SplitN(tok, "=", 2)
			a.KeyVals = append(a.KeyVals, KeyVal{Key: parts[0], Value: unquote(parts[1])})
		default:
			a.Classes = append(a.Classes, tok)
		}
	}
	return a
}

// splitTokens breaks the attribute body at spaces, keeping quoted spans
// together.
func splitTokens(s string) []string {
	var toks []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				toks = append(toks, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		toks = append(toks, cur.String())
	}
	return toks
}

// unquote strips one layer of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Render writes the attribute set back in markdown form, braces included.
// Values containing spaces are double-quoted.
func (a Attr) Render() string {
	var parts []string
	if a.ID != "" {
		parts = append(parts, "#"+a.ID)
	}
	for _, c := range a.Classes {
		parts = append(parts, "."+c)
	}
	for _, kv := range a.KeyVals {
		v := kv.Value
		if strings.ContainsAny(v, " \t") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, kv.Key+"="+v)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// ToPandoc converts the attribute set to the [id, classes, pairs] triple
// pandoc's JSON uses.
func (a Attr) ToPandoc() []any {
	classes := make([]any, len(a.Classes))
	for i, c := range a.Classes {
		classes[i] = c
	}
	pairs := make([]any, len(a.KeyVals))
	for i, kv := range a.KeyVals {
		pairs[i] = []any{kv.Key, kv.Value}
	}
	return []any{a.ID, classes, pairs}
}

// FromPandoc reads an [id, classes, pairs] triple back into an Attr.
func FromPandoc(v any) (Attr, error) {
	triple, ok := v.([]any)
	if !ok || len(triple) != 3 {
		return Attr{}, fmt.Errorf("attribute value is not an [id, classes, pairs] triple")
	}

	var a Attr
	a.ID, _ = triple[0].(string)

	classes, ok := triple[1].([]any)
	if !ok {
		return Attr{}, fmt.Errorf("attribute classes are not a list")
	}
	for _, c := range classes {
		s, ok := c.(string)
		if !ok {
			return Attr{}, fmt.Errorf("attribute class %v is not a string", c)
		}
		a.Classes = append(a.Classes, s)
	}

	pairs, ok := triple[2].([]any)
	if !ok {
		return Attr{}, fmt.Errorf("attribute pairs are not a list")
	}
	for _, p := range pairs {
		pair, ok := p.([]any)
		if !ok || len(pair) != 2 {
			return Attr{}, fmt.Errorf("attribute pair %v is not a [key, value] list", p)
		}
		k, _ := pair[0].(string)
		val, _ := pair[1].(string)
		a.KeyVals = append(a.KeyVals, KeyVal{Key: k, Value: val})
	}
	return a, nil
}
