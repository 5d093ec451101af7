package language

// Parse tokenizes source and builds a Document by recursive descent.
//
// The top level accepts executable operations, fragment definitions and bare
// selection sets (anonymous queries). Accumulation stops at the first token
// that starts none of those; trailing unconsumed input is not an error as
// long as at least one definition was parsed.
func Parse(source string) (*Document, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, &ParseError{Message: "tokenize failed", Err: err}
	}

	p := &parser{tokens: tokens}
	doc := &Document{}
	for {
		p.skipCommas()
		tok, ok := p.peek()
		if !ok {
			break
		}
		var op *Operation
		switch {
		case tok.Kind == Name && tok.Value == "query":
			op, err = p.parseOperation(Query)
		case tok.Kind == Name && tok.Value == "mutation":
			op, err = p.parseOperation(Mutation)
		case tok.Kind == Name && tok.Value == "subscription":
			op, err = p.parseOperation(Subscription)
		case tok.Kind == Name && tok.Value == "fragment":
			op, err = p.parseFragment()
		case tok.Kind == BraceOpen:
			var set SelectionSet
			set, err = p.parseSelectionSet()
			op = &Operation{Kind: Query, SelectionSet: set}
		default:
			// Unrecognized top-level token: stop accumulating.
			if len(doc.Operations) == 0 {
				return nil, unexpectedToken(tok, "expected an operation, fragment or selection set")
			}
			return doc, nil
		}
		if err != nil {
			return nil, err
		}
		doc.Operations = append(doc.Operations, op)
	}

	if len(doc.Operations) == 0 {
		return nil, unexpectedEndOfInput("expected an operation, fragment or selection set")
	}
	return doc, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next(context string) (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, unexpectedEndOfInput(context)
	}
	p.pos++
	return tok, nil
}

func (p *parser) expect(kind TokenKind, context string) (Token, error) {
	tok, err := p.next(context)
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, unexpectedToken(tok, context)
	}
	return tok, nil
}

func (p *parser) skipCommas() {
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != Comma {
			return
		}
		p.pos++
	}
}

func (p *parser) parseOperation(kind OperationKind) (*Operation, error) {
	p.pos++ // operation keyword
	op := &Operation{Kind: kind}

	if tok, ok := p.peek(); ok && tok.Kind == Name {
		op.Name = tok.Value
		p.pos++
	}
	if tok, ok := p.peek(); ok && tok.Kind == ParenOpen {
		vars, err := p.parseVariableDefinitions()
		if err != nil {
			return nil, err
		}
		op.Variables = vars
	}

	set, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	op.SelectionSet = set
	return op, nil
}

func (p *parser) parseFragment() (*Operation, error) {
	p.pos++ // 'fragment'
	nameTok, err := p.expect(Name, "expected a fragment name")
	if err != nil {
		return nil, err
	}
	onTok, err := p.expect(Name, "expected 'on' after the fragment name")
	if err != nil {
		return nil, err
	}
	if onTok.Value != "on" {
		return nil, unexpectedToken(onTok, "expected 'on' after the fragment name")
	}
	condTok, err := p.expect(Name, "expected a type condition")
	if err != nil {
		return nil, err
	}
	set, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	return &Operation{
		Kind:          Fragment,
		Name:          nameTok.Value,
		TypeCondition: condTok.Value,
		SelectionSet:  set,
	}, nil
}

func (p *parser) parseVariableDefinitions() ([]*VariableDefinition, error) {
	p.pos++ // '('
	var defs []*VariableDefinition
	for {
		p.skipCommas()
		tok, ok := p.peek()
		if !ok {
			return nil, unexpectedEndOfInput("expected a variable definition or ')'")
		}
		if tok.Kind == ParenClose {
			p.pos++
			return defs, nil
		}
		if _, err := p.expect(Dollar, "expected '$' to start a variable definition"); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(Name, "expected a variable name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(Colon, "expected ':' after the variable name"); err != nil {
			return nil, err
		}
		typeTok, err := p.expect(Name, "expected a variable type")
		if err != nil {
			return nil, err
		}
		def := &VariableDefinition{Variable: nameTok.Value, Type: typeTok.Value}
		if next, ok := p.peek(); ok && next.Kind == Bang {
			def.NonNull = true
			p.pos++
		}
		defs = append(defs, def)
	}
}

func (p *parser) parseSelectionSet() (SelectionSet, error) {
	if _, err := p.expect(BraceOpen, "expected '{' to start a selection set"); err != nil {
		return nil, err
	}
	var set SelectionSet
	for {
		p.skipCommas()
		tok, ok := p.peek()
		if !ok {
			return nil, unexpectedEndOfInput("expected a selection or '}'")
		}
		if tok.Kind == BraceClose {
			p.pos++
			return set, nil
		}
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		set = append(set, sel)
	}
}

func (p *parser) parseSelection() (Selection, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, unexpectedEndOfInput("expected a selection")
	}
	switch tok.Kind {
	case Spread:
		return p.parseFragmentSelection()
	case Name:
		return p.parseField()
	default:
		return nil, unexpectedToken(tok, "expected a field or fragment")
	}
}

// parseFragmentSelection handles everything after '...': an inline fragment
// with a type condition, a bare inline fragment, or a fragment spread.
func (p *parser) parseFragmentSelection() (Selection, error) {
	p.pos++ // '...'
	tok, ok := p.peek()
	if !ok {
		return nil, unexpectedEndOfInput("expected a fragment name, 'on' or '{' after '...'")
	}
	switch {
	case tok.Kind == Name && tok.Value == "on":
		p.pos++
		condTok, err := p.expect(Name, "expected a type condition after 'on'")
		if err != nil {
			return nil, err
		}
		set, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return &InlineFragment{TypeCondition: condTok.Value, SelectionSet: set}, nil
	case tok.Kind == BraceOpen:
		set, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return &InlineFragment{SelectionSet: set}, nil
	case tok.Kind == Name:
		p.pos++
		return &FragmentSpread{Name: tok.Value}, nil
	default:
		return nil, unexpectedToken(tok, "expected a fragment name, 'on' or '{' after '...'")
	}
}

func (p *parser) parseField() (Selection, error) {
	nameTok, _ := p.next("expected a field name")
	field := &Field{Name: nameTok.Value}

	if tok, ok := p.peek(); ok && tok.Kind == Colon {
		p.pos++
		actual, err := p.expect(Name, "expected a field name after the alias")
		if err != nil {
			return nil, err
		}
		field.Alias = field.Name
		field.Name = actual.Value
	}
	if tok, ok := p.peek(); ok && tok.Kind == ParenOpen {
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		field.Arguments = args
	}
	if tok, ok := p.peek(); ok && tok.Kind == BraceOpen {
		set, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		field.SelectionSet = set
	}
	return field, nil
}

func (p *parser) parseArguments() ([]*Argument, error) {
	p.pos++ // '('
	var args []*Argument
	for {
		p.skipCommas()
		tok, ok := p.peek()
		if !ok {
			return nil, unexpectedEndOfInput("expected an argument or ')'")
		}
		if tok.Kind == ParenClose {
			p.pos++
			return args, nil
		}
		nameTok, err := p.expect(Name, "expected an argument name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(Colon, "expected ':' after the argument name"); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, &Argument{Name: nameTok.Value, Value: val})
	}
}

func (p *parser) parseValue() (*Value, error) {
	tok, err := p.next("expected a value")
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case Int:
		return &Value{Kind: IntValue, Raw: tok.Value}, nil
	case Float:
		return &Value{Kind: FloatValue, Raw: tok.Value}, nil
	case String:
		return &Value{Kind: StringValue, Raw: tok.Value}, nil
	case Name:
		switch tok.Value {
		case "true", "false":
			return &Value{Kind: BooleanValue, Raw: tok.Value}, nil
		case "null":
			return &Value{Kind: NullValue}, nil
		default:
			return &Value{Kind: EnumValue, Raw: tok.Value}, nil
		}
	case Dollar:
		nameTok, err := p.expect(Name, "expected a variable name after '$'")
		if err != nil {
			return nil, err
		}
		return &Value{Kind: VariableValue, Raw: nameTok.Value}, nil
	case BracketOpen:
		var items []*Value
		for {
			p.skipCommas()
			next, ok := p.peek()
			if !ok {
				return nil, unexpectedEndOfInput("expected a list item or ']'")
			}
			if next.Kind == BracketClose {
				p.pos++
				return &Value{Kind: ListValue, List: items}, nil
			}
			item, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	case BraceOpen:
		var fields []*ObjectValueField
		for {
			p.skipCommas()
			next, ok := p.peek()
			if !ok {
				return nil, unexpectedEndOfInput("expected an object field or '}'")
			}
			if next.Kind == BraceClose {
				p.pos++
				return &Value{Kind: ObjectValue, Fields: fields}, nil
			}
			nameTok, err := p.expect(Name, "expected an object field name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(Colon, "expected ':' after the object field name"); err != nil {
				return nil, err
			}
			val, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			fields = append(fields, &ObjectValueField{Name: nameTok.Value, Value: val})
		}
	default:
		return nil, unexpectedToken(tok, "expected a value")
	}
}
