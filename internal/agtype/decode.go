package agtype

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cypherline/cli/internal/errors"
)

// Decode parses one agtype wire value into a Value. The trailing ::vertex,
// ::edge, and ::path annotations select the entity decoders; unannotated text
// is tried as an object, then an array, then a scalar. Malformed input yields
// a value_malformed error carrying the offending fragment.
func Decode(wire string) (Value, error) {
	s := strings.TrimSpace(wire)
	if s == "" {
		return Value{}, malformed(wire, io.ErrUnexpectedEOF)
	}
	base, tag := splitTag(s)
	switch tag {
	case "vertex":
		return decodeVertex(base, s)
	case "edge":
		return decodeEdge(base, s)
	case "path":
		return decodePath(base, s)
	case "", "numeric":
		return decodeUntyped(base)
	default:
		// Unknown annotations (future AGE types) still carry a JSON-shaped
		// base; decode that rather than failing on the tag alone.
		return decodeUntyped(base)
	}
}

// splitTag splits a trailing ::identifier annotation off the wire value.
// String scalars can legitimately contain "::", but their closing quote makes
// the candidate tag a non-identifier, so they are left intact.
func splitTag(s string) (base, tag string) {
	i := strings.LastIndex(s, "::")
	if i < 0 {
		return s, ""
	}
	cand := s[i+2:]
	if cand == "" {
		return s, ""
	}
	for j := 0; j < len(cand); j++ {
		c := cand[j]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return s, ""
		}
	}
	return strings.TrimSpace(s[:i]), strings.ToLower(cand)
}

func decodeUntyped(s string) (Value, error) {
	if s == "" {
		return Value{}, malformed(s, io.ErrUnexpectedEOF)
	}
	switch s[0] {
	case '{':
		v, err := parseJSON(s)
		if err != nil {
			return Value{}, malformed(s, err)
		}
		return fromJSON(v, s)
	case '[':
		return decodeList(s)
	default:
		v, err := parseJSON(s)
		if err != nil {
			return Value{}, malformed(s, err)
		}
		return fromJSON(v, s)
	}
}

func decodeVertex(base, frag string) (Value, error) {
	m, err := parseObject(base)
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	id, err := requireID(m, "id")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	label, err := requireString(m, "label")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	props, err := objectProps(m, frag)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindVertex, Vertex: &Vertex{ID: id, Label: label, Props: props}}, nil
}

func decodeEdge(base, frag string) (Value, error) {
	m, err := parseObject(base)
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	id, err := requireID(m, "id")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	startID, err := requireID(m, "start_id")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	endID, err := requireID(m, "end_id")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	label, err := requireString(m, "label")
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	props, err := objectProps(m, frag)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindEdge, Edge: &Edge{
		ID: id, Label: label, StartID: startID, EndID: endID, Props: props,
	}}, nil
}

// decodePath decodes the annotated elements of a path array and enforces the
// vertex/edge alternation invariant: a path of n edges has exactly 2n+1
// elements, vertices on even positions and edges on odd ones.
func decodePath(base, frag string) (Value, error) {
	inner, err := arrayBody(base)
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	parts, err := splitElems(inner)
	if err != nil {
		return Value{}, malformed(frag, err)
	}
	if len(parts) == 0 || len(parts)%2 == 0 {
		return Value{}, malformed(frag, fmt.Errorf("path has %d elements, want an odd count", len(parts)))
	}
	elems := make([]Value, len(parts))
	for i, p := range parts {
		el, err := Decode(p)
		if err != nil {
			return Value{}, err
		}
		if i%2 == 0 && el.Kind != KindVertex {
			return Value{}, malformed(frag, fmt.Errorf("path element %d is not a vertex", i))
		}
		if i%2 == 1 && el.Kind != KindEdge {
			return Value{}, malformed(frag, fmt.Errorf("path element %d is not an edge", i))
		}
		elems[i] = el
	}
	return Value{Kind: KindPath, Path: &Path{Elems: elems}}, nil
}

// decodeList decodes a bare array. Elements may themselves carry entity
// annotations, so each one goes back through Decode.
func decodeList(s string) (Value, error) {
	inner, err := arrayBody(s)
	if err != nil {
		return Value{}, malformed(s, err)
	}
	parts, err := splitElems(inner)
	if err != nil {
		return Value{}, malformed(s, err)
	}
	list := make([]Value, len(parts))
	for i, p := range parts {
		el, err := Decode(p)
		if err != nil {
			return Value{}, err
		}
		list[i] = el
	}
	return Value{Kind: KindList, List: list}, nil
}

// arrayBody strips the outer brackets of an array literal.
func arrayBody(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", fmt.Errorf("not an array literal")
	}
	return s[1 : len(s)-1], nil
}

// splitElems splits the body of an array literal at top-level commas,
// respecting string literals and nested objects/arrays. An all-whitespace
// body yields no elements.
func splitElems(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		parts   []string
		start   int
		depth   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if quoted {
			switch c {
			case '\\':
				escaped = true
			case '"':
				quoted = false
			}
			continue
		}
		switch c {
		case '"':
			quoted = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at offset %d", c, i)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if quoted || depth != 0 {
		return nil, fmt.Errorf("unbalanced array body")
	}
	return append(parts, strings.TrimSpace(s[start:])), nil
}

// parseJSON decodes a complete JSON value with numbers kept as json.Number.
// Trailing non-whitespace after the value is an error.
func parseJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after value")
	}
	return v, nil
}

func parseObject(s string) (map[string]any, error) {
	v, err := parseJSON(s)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not an object")
	}
	return m, nil
}

// fromJSON converts a parsed JSON value into a Value. frag is the source text
// for error reporting.
func fromJSON(v any, frag string) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return numberValue(t)
	case []any:
		list := make([]Value, len(t))
		for i, el := range t {
			ev, err := fromJSON(el, frag)
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return Value{Kind: KindList, List: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, el := range t {
			ev, err := fromJSON(el, frag)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Value{Kind: KindMap, Map: m}, nil
	default:
		return Value{}, malformed(frag, fmt.Errorf("unsupported value of type %T", v))
	}
}

// numberValue keeps the integer/floating distinction of the source text.
// Identifiers must round-trip exactly, so integers never pass through a
// float64.
func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err != nil {
			return Value{}, malformed(s, err)
		}
		return Value{Kind: KindInt, Int: i}, nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, malformed(s, err)
	}
	return Value{Kind: KindFloat, Float: f}, nil
}

func requireID(m map[string]any, key string) (int64, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing %q field", key)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", key)
	}
	return n.Int64()
}

func requireString(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing %q field", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string", key)
	}
	return s, nil
}

// objectProps extracts the optional properties map of a vertex or edge.
func objectProps(m map[string]any, frag string) (map[string]Value, error) {
	raw, ok := m["properties"]
	if !ok || raw == nil {
		return map[string]Value{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, malformed(frag, fmt.Errorf("\"properties\" is not an object"))
	}
	props := make(map[string]Value, len(obj))
	for k, el := range obj {
		v, err := fromJSON(el, frag)
		if err != nil {
			return nil, err
		}
		props[k] = v
	}
	return props, nil
}

func malformed(frag string, err error) error {
	const maxFrag = 80
	if len(frag) > maxFrag {
		frag = frag[:maxFrag] + "..."
	}
	return errors.Wrap(errors.ValueMalformed,
		fmt.Sprintf("malformed agtype value %q", frag), err)
}
