package configfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smallbiznis/atmn/internal/shape"
	"github.com/viant/parsly"
)

var (
	ErrUnresolvedReference = errors.New("unresolved_reference")
	ErrUnsupportedLiteral  = errors.New("unsupported_literal")
)

// undefined marks a value that leaves its key unset.
type undefined struct{}

var valueTokens = []*parsly.Token{
	objectOpenMatcher,
	arrayOpenMatcher,
	singleQuotedMatcher,
	doubleQuotedMatcher,
	templateMatcher,
	numberMatcher,
	identifierMatcher,
}

// DecodeExport reads the object literal passed to the feature(...) or
// plan(...) call of an export block. refs resolves <var>.id references to
// other entities of the same file.
func DecodeExport(text string, refs map[string]string) (shape.Object, error) {
	d := &literalDecoder{cursor: parsly.NewCursor("", []byte(text), 0), refs: refs}

	for _, word := range []string{"export", "const"} {
		if err := d.expectWord(word); err != nil {
			return nil, err
		}
	}
	if m := d.next(identifierMatcher); m.Code != identifierToken {
		return nil, d.cursor.NewError(identifierMatcher)
	}
	if m := d.next(assignMatcher); m.Code != assignToken {
		return nil, d.cursor.NewError(assignMatcher)
	}

	value, err := d.value()
	if err != nil {
		return nil, err
	}
	obj, ok := value.(shape.Object)
	if !ok {
		return nil, fmt.Errorf("%w: export value is %T, not an object", ErrUnsupportedLiteral, value)
	}
	return obj, nil
}

type literalDecoder struct {
	cursor *parsly.Cursor
	refs   map[string]string
}

func (d *literalDecoder) next(tokens ...*parsly.Token) *parsly.TokenMatch {
	return d.cursor.MatchAfterOptional(triviaMatcher, tokens...)
}

// peek reports whether the next token is tok without consuming it.
func (d *literalDecoder) peek(tok *parsly.Token) bool {
	pos := d.cursor.Pos
	matched := d.next(tok)
	d.cursor.Pos = pos
	return matched.Code == tok.Code
}

func (d *literalDecoder) expectWord(word string) error {
	m := d.next(identifierMatcher)
	if m.Code != identifierToken || m.Text(d.cursor) != word {
		return fmt.Errorf("%w: expected %q", ErrUnsupportedLiteral, word)
	}
	return nil
}

func (d *literalDecoder) value() (any, error) {
	m := d.next(valueTokens...)
	switch m.Code {
	case objectOpenToken:
		return d.object()
	case arrayOpenToken:
		return d.array()
	case singleQuotedToken, doubleQuotedToken, templateToken:
		return unquote(m.Text(d.cursor))
	case numberToken:
		return parseNumber(m.Text(d.cursor))
	case identifierToken:
		return d.identifier(m.Text(d.cursor))
	case parsly.EOF:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrUnsupportedLiteral)
	default:
		return nil, d.cursor.NewError(valueTokens...)
	}
}

func (d *literalDecoder) identifier(name string) (any, error) {
	switch name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	case "undefined":
		return undefined{}, nil
	}

	switch {
	case d.peek(parenOpenMatcher):
		return d.call(name)
	case d.peek(dotMatcher):
		d.next(dotMatcher)
		prop := d.next(identifierMatcher)
		if prop.Code != identifierToken {
			return nil, d.cursor.NewError(identifierMatcher)
		}
		if field := prop.Text(d.cursor); field != "id" {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnresolvedReference, name, field)
		}
		id, ok := d.refs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.id", ErrUnresolvedReference, name)
		}
		return id, nil
	}
	return nil, fmt.Errorf("%w: bare identifier %s", ErrUnresolvedReference, name)
}

// call unwraps name(arg) to arg. Only single argument calls are read.
func (d *literalDecoder) call(name string) (any, error) {
	d.next(parenOpenMatcher)
	arg, err := d.value()
	if err != nil {
		return nil, err
	}
	d.skipComma()
	if m := d.next(parenCloseMatcher); m.Code != parenCloseToken {
		return nil, fmt.Errorf("%w: %s(...) takes one argument", ErrUnsupportedLiteral, name)
	}
	return arg, nil
}

func (d *literalDecoder) object() (shape.Object, error) {
	obj := shape.Object{}
	for {
		m := d.next(objectCloseMatcher, identifierMatcher, singleQuotedMatcher, doubleQuotedMatcher, numberMatcher)
		var key string
		switch m.Code {
		case objectCloseToken:
			return obj, nil
		case identifierToken, numberToken:
			key = m.Text(d.cursor)
		case singleQuotedToken, doubleQuotedToken:
			unquoted, err := unquote(m.Text(d.cursor))
			if err != nil {
				return nil, err
			}
			key = unquoted
		default:
			return nil, d.cursor.NewError(objectCloseMatcher, identifierMatcher)
		}

		if c := d.next(colonMatcher); c.Code != colonToken {
			return nil, d.cursor.NewError(colonMatcher)
		}
		value, err := d.value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if _, skip := value.(undefined); !skip {
			obj[key] = value
		}

		sep := d.next(commaMatcher, objectCloseMatcher)
		switch sep.Code {
		case commaToken:
		case objectCloseToken:
			return obj, nil
		default:
			return nil, d.cursor.NewError(commaMatcher, objectCloseMatcher)
		}
	}
}

func (d *literalDecoder) array() ([]any, error) {
	items := []any{}
	for {
		if d.peek(arrayCloseMatcher) {
			d.next(arrayCloseMatcher)
			return items, nil
		}
		value, err := d.value()
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", len(items), err)
		}
		if _, skip := value.(undefined); skip {
			value = nil
		}
		items = append(items, value)

		sep := d.next(commaMatcher, arrayCloseMatcher)
		switch sep.Code {
		case commaToken:
		case arrayCloseToken:
			return items, nil
		default:
			return nil, d.cursor.NewError(commaMatcher, arrayCloseMatcher)
		}
	}
}

func (d *literalDecoder) skipComma() {
	if d.peek(commaMatcher) {
		d.next(commaMatcher)
	}
}

func parseNumber(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %s", ErrUnsupportedLiteral, text)
	}
	return v, nil
}

// unquote decodes a single, double or backtick quoted literal.
func unquote(text string) (string, error) {
	if len(text) < 2 {
		return "", fmt.Errorf("%w: string %s", ErrUnsupportedLiteral, text)
	}
	quote := text[0]
	body := text[1 : len(text)-1]
	if quote == '`' && strings.Contains(body, "${") {
		return "", fmt.Errorf("%w: template interpolation", ErrUnsupportedLiteral)
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body) && (body[i+1] == '\'' || body[i+1] == '`'):
			sb.WriteByte(body[i+1])
			i++
		case c == '\\' && i+1 < len(body):
			sb.WriteByte(c)
			sb.WriteByte(body[i+1])
			i++
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')

	out, err := strconv.Unquote(sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: string %s", ErrUnsupportedLiteral, text)
	}
	return out, nil
}
