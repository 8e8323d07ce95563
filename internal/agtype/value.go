// Package agtype decodes the textual agtype values AGE returns into typed
// in-memory values. The wire format is JSON extended with a trailing type
// annotation (::vertex, ::edge, ::path) on graph entities; paths nest
// annotated elements inside an array, which makes them non-JSON and requires
// the element scanner in this package.
//
// Decoding is eager and exhaustive: a malformed fragment is an error carrying
// the offending text, never a silent null. Numbers keep their integer or
// floating form from the source text, so engine-assigned identifiers
// round-trip exactly.
package agtype

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindVertex
	KindEdge
	KindPath
	KindList
	KindMap
)

// Value is a decoded agtype value: a graph entity, a scalar, or a container.
// Exactly the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Vertex *Vertex
	Edge   *Edge
	Path   *Path
	List   []Value
	Map    map[string]Value
}

// Vertex is a graph node with its engine-assigned identifier.
type Vertex struct {
	ID    int64
	Label string
	Props map[string]Value
}

// Edge is a directed relationship between two vertices.
type Edge struct {
	ID      int64
	Label   string
	StartID int64
	EndID   int64
	Props   map[string]Value
}

// Path is an alternating vertex/edge sequence that starts and ends on a
// vertex. Elems holds 2*Length()+1 values.
type Path struct {
	Elems []Value
}

// Length returns the number of edges in the path.
func (p *Path) Length() int {
	if len(p.Elems) == 0 {
		return 0
	}
	return (len(p.Elems) - 1) / 2
}

// String renders the value in agtype-like notation suitable for tabular
// display and for feeding back into a model conversation.
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.Str))
	case KindVertex:
		fmt.Fprintf(b, "{\"id\": %d, \"label\": %q, \"properties\": ", v.Vertex.ID, v.Vertex.Label)
		renderMap(b, v.Vertex.Props)
		b.WriteString("}::vertex")
	case KindEdge:
		fmt.Fprintf(b, "{\"id\": %d, \"label\": %q, \"end_id\": %d, \"start_id\": %d, \"properties\": ",
			v.Edge.ID, v.Edge.Label, v.Edge.EndID, v.Edge.StartID)
		renderMap(b, v.Edge.Props)
		b.WriteString("}::edge")
	case KindPath:
		b.WriteByte('[')
		for i, el := range v.Path.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			el.render(b)
		}
		b.WriteString("]::path")
	case KindList:
		b.WriteByte('[')
		for i, el := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			el.render(b)
		}
		b.WriteByte(']')
	case KindMap:
		renderMap(b, v.Map)
	}
}

func renderMap(b *strings.Builder, m map[string]Value) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%q: ", k)
		v := m[k]
		v.render(b)
	}
	b.WriteByte('}')
}
