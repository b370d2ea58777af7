package wavefront

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizer_Next(t *testing.T) {
	tok := newTokenizer(strings.NewReader("v 1.0 2.0\nf 1 2 3"))

	steps := []struct {
		token string
		term  byte
	}{
		{"v", ' '},
		{"1.0", ' '},
		{"2.0", '\n'},
		{"f", ' '},
		{"1", ' '},
		{"2", ' '},
		{"3", eofTerm},
	}

	for i, want := range steps {
		token, term, err := tok.next()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if token != want.token || term != want.term {
			t.Errorf("step %d: got (%q, %q), want (%q, %q)", i, token, term, want.token, want.term)
		}
	}
}

func TestTokenizer_SkipsRepeatedSeparators(t *testing.T) {
	tok := newTokenizer(strings.NewReader("a \t b"))

	token, _, err := tok.next()
	if err != nil || token != "a" {
		t.Fatalf("got (%q, %v), want a", token, err)
	}
	// Separator run yields empty tokens until the next real one.
	for {
		token, term, err := tok.next()
		if err != nil {
			t.Fatal(err)
		}
		if token != "" {
			if token != "b" {
				t.Fatalf("token = %q, want b", token)
			}
			break
		}
		if term == eofTerm {
			t.Fatal("hit end of stream before b")
		}
	}
}

func TestTokenizer_RestOfLine(t *testing.T) {
	tok := newTokenizer(strings.NewReader("usemtl  shiny metal \r\nnext"))

	if token, _, _ := tok.next(); token != "usemtl" {
		t.Fatalf("token = %q, want usemtl", token)
	}
	rest, err := tok.restOfLine()
	if err != nil {
		t.Fatal(err)
	}
	// Inner whitespace survives, surrounding whitespace is trimmed.
	if rest != "shiny metal" {
		t.Errorf("rest = %q, want %q", rest, "shiny metal")
	}
	if token, _, _ := tok.next(); token != "next" {
		t.Errorf("token after restOfLine = %q, want next", token)
	}
}

func TestTokenizer_LineNumbers(t *testing.T) {
	tok := newTokenizer(strings.NewReader("one\ntwo\nthree"))

	for i, want := range []int{1, 2, 3} {
		if _, _, err := tok.next(); err != nil {
			t.Fatal(err)
		}
		if tok.tokLine != want {
			t.Errorf("token %d started on line %d, want %d", i, tok.tokLine, want)
		}
	}
}

func TestTokenizer_TokenTooLong(t *testing.T) {
	tok := newTokenizer(strings.NewReader(strings.Repeat("x", maxTokenLen+1)))

	_, _, err := tok.next()
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("error = %v, want %v", err, ErrInvalidFile)
	}
}

func TestTokenizer_NextFloat(t *testing.T) {
	tok := newTokenizer(strings.NewReader("  1.5 -2 nope"))

	if v, _, err := tok.nextFloat(); err != nil || v != 1.5 {
		t.Errorf("got (%v, %v), want 1.5", v, err)
	}
	if v, _, err := tok.nextFloat(); err != nil || v != -2 {
		t.Errorf("got (%v, %v), want -2", v, err)
	}
	if _, _, err := tok.nextFloat(); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("error = %v, want %v", err, ErrInvalidFile)
	}
}
