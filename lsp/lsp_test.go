package lsp

import (
	"testing"

	"github.com/oxhq/windjammer/internal/querydb"
)

// findPos locates the first occurrence of substr in src and returns the
// zero-based Position of its first rune, counting columns the way the
// lexer does: each rune (tabs included) advances the column by one, and a
// newline resets it.
func findPos(t *testing.T, src, substr string) Position {
	t.Helper()
	idx := -1
	for i := range src {
		if i+len(substr) <= len(src) && src[i:i+len(substr)] == substr {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Fatalf("substring %q not found in source", substr)
	}
	line, col := 0, 0
	for i, r := range src {
		if i == idx {
			return Position{Line: line, Character: col}
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	t.Fatalf("walked off the end of source looking for %q", substr)
	return Position{}
}

const sampleSource = "fn helper() -> i32 {\n\t0\n}\nfn main() -> i32 {\n\thelper()\n}"

func TestCompletion(t *testing.T) {
	db := querydb.New()
	db.Open("t.wj", sampleSource)
	items, err := Completion(db, "t.wj")
	if err != nil {
		t.Fatalf("Completion: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Label)
	}
	if !contains(names, "helper") || !contains(names, "main") {
		t.Fatalf("Completion() labels = %v, want helper and main", names)
	}
}

func TestDefinition(t *testing.T) {
	db := querydb.New()
	db.Open("t.wj", sampleSource)
	pos := findPos(t, sampleSource, "helper()")
	loc, err := Definition(db, "t.wj", pos)
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if loc == nil {
		t.Fatal("Definition() = nil, want a location")
	}
	if loc.Range.Start.Line != 0 {
		t.Errorf("definition line = %d, want 0 (the fn helper declaration)", loc.Range.Start.Line)
	}
}

func TestDefinitionNoIdentAtPosition(t *testing.T) {
	db := querydb.New()
	db.Open("t.wj", sampleSource)
	loc, err := Definition(db, "t.wj", Position{Line: 0, Character: 0})
	if err != nil {
		t.Fatalf("Definition: %v", err)
	}
	if loc != nil {
		t.Errorf("Definition() at whitespace = %+v, want nil", loc)
	}
}

func TestHoverAt(t *testing.T) {
	db := querydb.New()
	db.Open("t.wj", sampleSource)
	pos := findPos(t, sampleSource, "helper()")
	hover, err := HoverAt(db, "t.wj", pos)
	if err != nil {
		t.Fatalf("HoverAt: %v", err)
	}
	if hover == nil {
		t.Fatal("HoverAt() = nil, want a hover card")
	}
	if hover.Contents == "" {
		t.Error("hover Contents should not be empty")
	}
}

func TestCodeActionsNoDiagnostics(t *testing.T) {
	db := querydb.New()
	db.Open("t.wj", sampleSource)
	actions, err := CodeActions(db, "t.wj")
	if err != nil {
		t.Fatalf("CodeActions: %v", err)
	}
	if len(actions) != 0 {
		t.Errorf("CodeActions() = %+v, want none for clean source", actions)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
