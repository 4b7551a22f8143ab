package configfile

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	triviaToken = iota
	singleQuotedToken
	doubleQuotedToken
	templateToken
	numberToken
	identifierToken
	objectOpenToken
	objectCloseToken
	arrayOpenToken
	arrayCloseToken
	parenOpenToken
	parenCloseToken
	colonToken
	commaToken
	dotToken
	assignToken
	semicolonToken
)

var triviaMatcher = parsly.NewToken(triviaToken, "Trivia", &triviaMatch{})
var singleQuotedMatcher = parsly.NewToken(singleQuotedToken, "SingleQuote", &quoteMatch{quote: '\''})
var doubleQuotedMatcher = parsly.NewToken(doubleQuotedToken, "DoubleQuote", &quoteMatch{quote: '"'})
var templateMatcher = parsly.NewToken(templateToken, "Template", &quoteMatch{quote: '`'})
var numberMatcher = parsly.NewToken(numberToken, "Number", &numberMatch{})
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})

var objectOpenMatcher = parsly.NewToken(objectOpenToken, "{", matcher.NewByte('{'))
var objectCloseMatcher = parsly.NewToken(objectCloseToken, "}", matcher.NewByte('}'))
var arrayOpenMatcher = parsly.NewToken(arrayOpenToken, "[", matcher.NewByte('['))
var arrayCloseMatcher = parsly.NewToken(arrayCloseToken, "]", matcher.NewByte(']'))
var parenOpenMatcher = parsly.NewToken(parenOpenToken, "(", matcher.NewByte('('))
var parenCloseMatcher = parsly.NewToken(parenCloseToken, ")", matcher.NewByte(')'))
var colonMatcher = parsly.NewToken(colonToken, ":", matcher.NewByte(':'))
var commaMatcher = parsly.NewToken(commaToken, ",", matcher.NewByte(','))
var dotMatcher = parsly.NewToken(dotToken, ".", matcher.NewByte('.'))
var assignMatcher = parsly.NewToken(assignToken, "=", matcher.NewByte('='))
var semicolonMatcher = parsly.NewToken(semicolonToken, ";", matcher.NewByte(';'))

// triviaMatch consumes whitespace, line comments and block comments.
type triviaMatch struct{}

func (t *triviaMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	for pos < cursor.InputSize {
		b := cursor.Input[pos]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			pos++
		case b == '/' && pos+1 < cursor.InputSize && cursor.Input[pos+1] == '/':
			for pos < cursor.InputSize && cursor.Input[pos] != '\n' {
				pos++
			}
		case b == '/' && pos+1 < cursor.InputSize && cursor.Input[pos+1] == '*':
			end := pos + 2
			for end+1 < cursor.InputSize && !(cursor.Input[end] == '*' && cursor.Input[end+1] == '/') {
				end++
			}
			if end+1 >= cursor.InputSize {
				return cursor.InputSize - cursor.Pos
			}
			pos = end + 2
		default:
			return pos - cursor.Pos
		}
	}
	return pos - cursor.Pos
}

// quoteMatch accepts a literal delimited by quote. A backslash escapes the
// byte after it, so an escaped backslash never hides the closing quote.
type quoteMatch struct {
	quote byte
}

func (q *quoteMatch) Match(cursor *parsly.Cursor) int {
	input, size := cursor.Input, cursor.InputSize
	pos := cursor.Pos
	if pos >= size || input[pos] != q.quote {
		return 0
	}
	for pos++; pos < size; pos++ {
		switch input[pos] {
		case '\\':
			pos++
		case q.quote:
			return pos + 1 - cursor.Pos
		}
	}
	return 0
}

// numberMatch accepts an optionally signed decimal with fraction and
// exponent, and underscore digit separators.
type numberMatch struct{}

func (n *numberMatch) Match(cursor *parsly.Cursor) int {
	input, size := cursor.Input, cursor.InputSize
	pos := cursor.Pos
	if pos < size && (input[pos] == '-' || input[pos] == '+') {
		pos++
	}
	digits := 0
	for pos < size && (isDigit(input[pos]) || (digits > 0 && input[pos] == '_')) {
		pos++
		digits++
	}
	if pos < size && input[pos] == '.' && pos+1 < size && isDigit(input[pos+1]) {
		pos++
		for pos < size && isDigit(input[pos]) {
			pos++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if pos < size && (input[pos] == 'e' || input[pos] == 'E') {
		exp := pos + 1
		if exp < size && (input[exp] == '-' || input[exp] == '+') {
			exp++
		}
		if exp < size && isDigit(input[exp]) {
			for exp < size && isDigit(input[exp]) {
				exp++
			}
			pos = exp
		}
	}
	if pos < size && isIdentifierPart(input[pos]) {
		return 0
	}
	return pos - cursor.Pos
}

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || isDigit(b)
}
