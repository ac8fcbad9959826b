package formatter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnmatchedBrace reports a template brace with no partner.
var ErrUnmatchedBrace = errors.New("unmatched brace in template")

// TokenKind discriminates template tokens.
type TokenKind uint8

const (
	// TokenLiteral is verbatim template text.
	TokenLiteral TokenKind = iota
	// TokenPlaceholder is a {Name} or positional {} slot, optionally
	// carrying a :spec suffix.
	TokenPlaceholder
)

// Token is one parsed template element.
type Token struct {
	Kind TokenKind
	// Text is the literal content, or the placeholder name. A positional
	// placeholder has an empty name.
	Text string
	// Spec is the format spec that followed ':' inside the braces.
	Spec string
}

// Segmentize parses a template into alternating literal and placeholder
// tokens. "{{" and "}}" escape literal braces; any other unpaired brace is a
// parse error. Adjacent literal content coalesces into a single token, so
// "[{Severity}]: {Message}" yields exactly four tokens.
func Segmentize(template string) ([]Token, error) {
	var tokens []Token
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenLiteral, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: '{' at offset %d", ErrUnmatchedBrace, i)
			}
			body := template[i+1 : i+1+end]
			if strings.IndexByte(body, '{') >= 0 {
				return nil, fmt.Errorf("%w: '{' at offset %d", ErrUnmatchedBrace, i+1+strings.IndexByte(body, '{'))
			}
			name, spec := body, ""
			if colon := strings.IndexByte(body, ':'); colon >= 0 {
				name, spec = body[:colon], body[colon+1:]
			}
			flushLiteral()
			tokens = append(tokens, Token{Kind: TokenPlaceholder, Text: name, Spec: spec})
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: '}' at offset %d", ErrUnmatchedBrace, i)
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLiteral()
	return tokens, nil
}
