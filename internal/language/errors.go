package language

import "fmt"

// LexerErrorKind discriminates the failure modes of Tokenize.
type LexerErrorKind int8

const (
	UnexpectedCharacter LexerErrorKind = iota
	UnterminatedString
	InvalidNumber
)

// LexerError reports a failure while tokenizing source text.
// Pos is the byte offset of the offending input.
type LexerError struct {
	Kind LexerErrorKind
	Char rune
	Pos  int
}

func (e *LexerError) Error() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("unexpected character %q at offset %d", e.Char, e.Pos)
	case UnterminatedString:
		return fmt.Sprintf("unterminated string starting at offset %d", e.Pos)
	case InvalidNumber:
		return fmt.Sprintf("invalid number at offset %d", e.Pos)
	}
	return "lexer error"
}

// ParseError reports a failure while parsing a token stream. Exactly one of
// the three shapes applies: an unexpected token (Token set), premature end of
// input (Token nil, Err nil), or a wrapped lexer error (Err set).
type ParseError struct {
	Token   *Token
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Token != nil {
		return fmt.Sprintf("unexpected token %s at offset %d: %s", e.Token, e.Token.Pos, e.Message)
	}
	return "unexpected end of input: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

func unexpectedToken(tok Token, message string) *ParseError {
	return &ParseError{Token: &tok, Message: message}
}

func unexpectedEndOfInput(message string) *ParseError {
	return &ParseError{Message: message}
}
