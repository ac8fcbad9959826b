package formatter

import (
	"errors"
	"testing"
)

func TestSegmentize(t *testing.T) {
	tokens, err := Segmentize("[{Severity}]: {Message}")
	if err != nil {
		t.Fatalf("Segmentize() error: %v", err)
	}

	want := []Token{
		{Kind: TokenLiteral, Text: "["},
		{Kind: TokenPlaceholder, Text: "Severity"},
		{Kind: TokenLiteral, Text: "]: "},
		{Kind: TokenPlaceholder, Text: "Message"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("Segmentize() = %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestSegmentize_Positional(t *testing.T) {
	tokens, err := Segmentize("[{}] [{}] {}")
	if err != nil {
		t.Fatalf("Segmentize() error: %v", err)
	}
	if len(tokens) != 5 {
		t.Fatalf("Segmentize() = %d tokens, want 5", len(tokens))
	}
	for _, i := range []int{1, 3, 4} {
		if tokens[i].Kind != TokenPlaceholder || tokens[i].Text != "" {
			t.Errorf("token %d = %+v, want empty placeholder", i, tokens[i])
		}
	}
}

func TestSegmentize_Spec(t *testing.T) {
	tokens, err := Segmentize("{count:>8L}")
	if err != nil {
		t.Fatalf("Segmentize() error: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("Segmentize() = %d tokens, want 1", len(tokens))
	}
	if tokens[0].Text != "count" || tokens[0].Spec != ">8L" {
		t.Errorf("token = %+v, want name count, spec >8L", tokens[0])
	}
}

func TestSegmentize_EscapedBraces(t *testing.T) {
	tokens, err := Segmentize("a {{literal}} b")
	if err != nil {
		t.Fatalf("Segmentize() error: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("Segmentize() = %d tokens, want 1 coalesced literal", len(tokens))
	}
	if tokens[0].Kind != TokenLiteral || tokens[0].Text != "a {literal} b" {
		t.Errorf("token = %+v, want the unescaped literal", tokens[0])
	}
}

func TestSegmentize_Errors(t *testing.T) {
	for _, template := range []string{
		"{unclosed",
		"closed}",
		"nested {a{b}}",
		"{",
		"}",
	} {
		t.Run(template, func(t *testing.T) {
			if _, err := Segmentize(template); !errors.Is(err, ErrUnmatchedBrace) {
				t.Errorf("Segmentize(%q) error = %v, want ErrUnmatchedBrace", template, err)
			}
		})
	}
}

func TestSegmentize_Empty(t *testing.T) {
	tokens, err := Segmentize("")
	if err != nil {
		t.Fatalf("Segmentize(\"\") error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("Segmentize(\"\") = %+v, want no tokens", tokens)
	}
}
