package language

// TokenKind discriminates the tokens the lexer emits.
type TokenKind int8

const (
	BraceOpen TokenKind = iota
	BraceClose
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
	Colon
	Comma
	Pipe
	Equals
	At
	Dollar
	Bang
	Spread
	Name
	Int
	Float
	String
	Whitespace
	Comment
)

func (k TokenKind) String() string {
	switch k {
	case BraceOpen:
		return "'{'"
	case BraceClose:
		return "'}'"
	case ParenOpen:
		return "'('"
	case ParenClose:
		return "')'"
	case BracketOpen:
		return "'['"
	case BracketClose:
		return "']'"
	case Colon:
		return "':'"
	case Comma:
		return "','"
	case Pipe:
		return "'|'"
	case Equals:
		return "'='"
	case At:
		return "'@'"
	case Dollar:
		return "'$'"
	case Bang:
		return "'!'"
	case Spread:
		return "'...'"
	case Name:
		return "Name"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	}
	return "Unknown"
}

// Token is one lexeme of the source text. Value carries the raw text for
// Name, Int, Float and String tokens (string escapes already processed);
// punctuator tokens leave it empty. Pos is the byte offset into the source.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
}

func (t Token) String() string {
	switch t.Kind {
	case Name, Int, Float:
		return t.Value
	case String:
		return "\"" + t.Value + "\""
	default:
		return t.Kind.String()
	}
}
