package cypher

import (
	"strings"
	"testing"

	"cypherline/cli/internal/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single statement",
			input: "MATCH (n) RETURN n",
			want:  []string{"MATCH (n) RETURN n"},
		},
		{
			name:  "two statements",
			input: "MATCH (n) RETURN n; MATCH (n)-[r]->(m) RETURN n, r, m",
			want:  []string{"MATCH (n) RETURN n", "MATCH (n)-[r]->(m) RETURN n, r, m"},
		},
		{
			name:  "trailing semicolon dropped",
			input: "CREATE (:Person {name: 'Alice'});",
			want:  []string{"CREATE (:Person {name: 'Alice'})"},
		},
		{
			name:  "semicolon inside single quotes",
			input: "CREATE (:Person {bio: 'a;b'}); RETURN 1",
			want:  []string{"CREATE (:Person {bio: 'a;b'})", "RETURN 1"},
		},
		{
			name:  "semicolon inside double quotes",
			input: `RETURN "x;y"; RETURN 2`,
			want:  []string{`RETURN "x;y"`, "RETURN 2"},
		},
		{
			name:  "semicolon inside braces",
			input: "RETURN {a: 1}",
			want:  []string{"RETURN {a: 1}"},
		},
		{
			name:  "escaped quote does not end string",
			input: `RETURN 'it\'s; fine'; RETURN 3`,
			want:  []string{`RETURN 'it\'s; fine'`, "RETURN 3"},
		},
		{
			name:  "semicolon inside line comment",
			input: "MATCH (n) // note; not a separator\nRETURN n",
			want:  []string{"MATCH (n) // note; not a separator\nRETURN n"},
		},
		{
			name:  "empty candidates dropped",
			input: " ; ;RETURN 1; ",
			want:  []string{"RETURN 1"},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Split() returned %d statements, want %d", len(got), len(tt.want))
			}
			for i, st := range got {
				if st.Pos != i+1 {
					t.Errorf("statement %d has Pos %d", i, st.Pos)
				}
				if st.Text != tt.want[i] {
					t.Errorf("statement %d = %q, want %q", i, st.Text, tt.want[i])
				}
			}
		})
	}
}

func TestSplitUnbalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated single quote", input: "CREATE (:P {n: 'oops})"},
		{name: "unterminated double quote", input: `RETURN "abc`},
		{name: "unclosed paren", input: "MATCH (n RETURN n"},
		{name: "unclosed bracket", input: "RETURN [1, 2"},
		{name: "mismatched closer", input: "RETURN (1]"},
		{name: "unterminated block comment", input: "RETURN 1 /* note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.input)
			if err == nil {
				t.Fatal("Split() expected error, got nil")
			}
			if !errors.IsKind(err, errors.SplitUnbalanced) {
				t.Errorf("Split() error kind = %v, want split_unbalanced", err)
			}
		})
	}
}

// Splitting, rejoining with semicolons, and splitting again must yield the
// same statement sequence.
func TestSplitIdempotent(t *testing.T) {
	inputs := []string{
		"MATCH (n) RETURN n; CREATE (:X); RETURN {a: [1, 2]}",
		"RETURN 'a;b';\nRETURN 2;",
		"CREATE (:Person {name: \"x;y\", age: 3})",
	}
	for _, input := range inputs {
		first, err := Split(input)
		if err != nil {
			t.Fatalf("Split(%q) error = %v", input, err)
		}
		texts := make([]string, len(first))
		for i, st := range first {
			texts[i] = st.Text
		}
		second, err := Split(strings.Join(texts, ";"))
		if err != nil {
			t.Fatalf("re-Split error = %v", err)
		}
		if len(second) != len(first) {
			t.Fatalf("re-Split returned %d statements, want %d", len(second), len(first))
		}
		for i := range first {
			if second[i] != first[i] {
				t.Errorf("statement %d changed after rejoin: %+v vs %+v", i, second[i], first[i])
			}
		}
	}
}
