package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxTokenLen bounds a single whitespace-delimited token. A longer
// token fails the load as a format error.
const maxTokenLen = 128

// eofTerm is the terminator reported once the stream has ended.
const eofTerm byte = 0

// tokenizer pulls whitespace-delimited tokens and raw line remainders
// from a command stream. It tracks line numbers for error reporting.
type tokenizer struct {
	r       *bufio.Reader
	line    int // line currently being read, 1-based
	tokLine int // line on which the last token started
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{r: bufio.NewReader(r), line: 1, tokLine: 1}
}

// next reads the following token and the character that terminated it.
// An empty token means consecutive separators were seen; an empty token
// with an eofTerm terminator means the stream is exhausted.
func (t *tokenizer) next() (string, byte, error) {
	var sb strings.Builder
	t.tokLine = t.line
	for {
		c, err := t.r.ReadByte()
		if err == io.EOF {
			return sb.String(), eofTerm, nil
		}
		if err != nil {
			return "", eofTerm, fmt.Errorf("%w: %v", ErrIO, err)
		}
		if c == '\n' {
			t.line++
		}
		if isSpace(c) {
			return sb.String(), c, nil
		}
		if sb.Len() == 0 {
			t.tokLine = t.line
		}
		if sb.Len() >= maxTokenLen {
			return "", c, fmt.Errorf("%w: line %d: token exceeds %d bytes", ErrInvalidFile, t.line, maxTokenLen)
		}
		sb.WriteByte(c)
	}
}

// restOfLine consumes the remainder of the current line and returns it
// trimmed of surrounding whitespace.
func (t *tokenizer) restOfLine() (string, error) {
	var sb strings.Builder
	for {
		c, err := t.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrIO, err)
		}
		if c == '\n' {
			t.line++
			break
		}
		sb.WriteByte(c)
	}
	return strings.TrimSpace(sb.String()), nil
}

// nextFloat reads the next non-empty token and parses it as a float,
// failing the load on a malformed number or a truncated command.
func (t *tokenizer) nextFloat() (float32, byte, error) {
	for {
		token, term, err := t.next()
		if err != nil {
			return 0, term, err
		}
		if token == "" {
			if term == eofTerm {
				return 0, term, fmt.Errorf("%w: line %d: unexpected end of file", ErrInvalidFile, t.line)
			}
			continue
		}
		v, perr := strconv.ParseFloat(token, 32)
		if perr != nil {
			return 0, term, fmt.Errorf("%w: line %d: malformed number %q", ErrInvalidFile, t.tokLine, token)
		}
		return float32(v), term, nil
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// lineEnded reports whether a terminator closed the current line.
func lineEnded(term byte) bool {
	return term == '\n' || term == eofTerm
}
