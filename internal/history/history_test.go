package history

import (
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	h, err := Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Close()

	entries := []string{
		"MATCH (n) RETURN n",
		"",
		`\llm on`,
		"CREATE (:Person {name: 'Ada'})",
		"MATCH (a)-[r]->(b)\nRETURN a, r, b",
	}
	for _, e := range entries {
		if err := h.Append(e); err != nil {
			t.Fatalf("Append(%q) error = %v", e, err)
		}
	}

	got, err := Tail(10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	want := []string{
		"MATCH (n) RETURN n",
		"CREATE (:Person {name: 'Ada'})",
		"MATCH (a)-[r]->(b) RETURN a, r, b",
	}
	if len(got) != len(want) {
		t.Fatalf("Tail() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tail()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Tail bounded below history length returns the most recent entries.
	last, err := Tail(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 1 || last[0] != want[2] {
		t.Errorf("Tail(1) = %q", last)
	}
}

func TestNilFileIsNoOp(t *testing.T) {
	var h *File
	if err := h.Append("MATCH (n) RETURN n"); err != nil {
		t.Errorf("nil Append() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}

func TestTailMissingFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	got, err := Tail(5)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if got != nil {
		t.Errorf("Tail() = %q, want nil", got)
	}
}
