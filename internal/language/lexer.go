package language

import (
	"strings"
	"unicode/utf8"
)

const eof = rune(0)

// Tokenize scans source text into a token stream. Whitespace and comment
// tokens are produced internally and filtered from the returned slice.
func Tokenize(source string) ([]Token, error) {
	l := &lexer{input: source}
	var tokens []Token
	for {
		tok, err := l.read()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
		if tok.Kind == Whitespace || tok.Kind == Comment {
			continue
		}
		tokens = append(tokens, *tok)
	}
	return tokens, nil
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) readRune() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return r
}

// read emits the next token, or nil at end of input.
func (l *lexer) read() (*Token, error) {
	start := l.pos
	r := l.readRune()
	if r == eof {
		return nil, nil
	}

	switch r {
	case ' ', '\t', '\n', '\r':
		for isWhitespace(l.peekRune()) {
			l.readRune()
		}
		return &Token{Kind: Whitespace, Pos: start}, nil
	case '#':
		for {
			next := l.peekRune()
			if next == eof || next == '\n' || next == '\r' {
				break
			}
			l.readRune()
		}
		return &Token{Kind: Comment, Value: l.input[start:l.pos], Pos: start}, nil
	case '{':
		return &Token{Kind: BraceOpen, Pos: start}, nil
	case '}':
		return &Token{Kind: BraceClose, Pos: start}, nil
	case '(':
		return &Token{Kind: ParenOpen, Pos: start}, nil
	case ')':
		return &Token{Kind: ParenClose, Pos: start}, nil
	case '[':
		return &Token{Kind: BracketOpen, Pos: start}, nil
	case ']':
		return &Token{Kind: BracketClose, Pos: start}, nil
	case ':':
		return &Token{Kind: Colon, Pos: start}, nil
	case ',':
		return &Token{Kind: Comma, Pos: start}, nil
	case '|':
		return &Token{Kind: Pipe, Pos: start}, nil
	case '=':
		return &Token{Kind: Equals, Pos: start}, nil
	case '@':
		return &Token{Kind: At, Pos: start}, nil
	case '$':
		return &Token{Kind: Dollar, Pos: start}, nil
	case '!':
		return &Token{Kind: Bang, Pos: start}, nil
	case '.':
		if l.peekRune() != '.' {
			return nil, &LexerError{Kind: UnexpectedCharacter, Char: r, Pos: start}
		}
		l.readRune()
		if l.peekRune() != '.' {
			return nil, &LexerError{Kind: UnexpectedCharacter, Char: '.', Pos: start}
		}
		l.readRune()
		return &Token{Kind: Spread, Pos: start}, nil
	case '"':
		return l.readString(start)
	}

	if r == '-' || isDigit(r) {
		return l.readNumber(start)
	}
	if isNameStart(r) {
		for isNameContinue(l.peekRune()) {
			l.readRune()
		}
		return &Token{Kind: Name, Value: l.input[start:l.pos], Pos: start}, nil
	}

	return nil, &LexerError{Kind: UnexpectedCharacter, Char: r, Pos: start}
}

func (l *lexer) readString(start int) (*Token, error) {
	var b strings.Builder
	for {
		r := l.readRune()
		switch r {
		case eof:
			return nil, &LexerError{Kind: UnterminatedString, Pos: start}
		case '"':
			return &Token{Kind: String, Value: b.String(), Pos: start}, nil
		case '\\':
			esc := l.readRune()
			switch esc {
			case eof:
				return nil, &LexerError{Kind: UnterminatedString, Pos: start}
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				// Unknown escapes pass through verbatim.
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

// readNumber consumes the maximal run of number runes and classifies it as
// Float when a '.' or exponent marker occurs, Int otherwise. Malformed
// exponents are accepted as written; only a digitless run is rejected.
func (l *lexer) readNumber(start int) (*Token, error) {
	for isNumberRune(l.peekRune()) {
		l.readRune()
	}
	text := l.input[start:l.pos]
	if !strings.ContainsAny(text, "0123456789") {
		return nil, &LexerError{Kind: InvalidNumber, Pos: start}
	}
	kind := Int
	if strings.ContainsAny(text, ".eE") {
		kind = Float
	}
	return &Token{Kind: kind, Value: text, Pos: start}, nil
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameContinue(r rune) bool { return isNameStart(r) || isDigit(r) }

func isNumberRune(r rune) bool {
	return isDigit(r) || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-'
}
