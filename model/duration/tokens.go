package duration

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	numberCode
	unitCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	numberToken     = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	unitToken       = parsly.NewToken(unitCode, "Unit", &unitMatcher{})
)

// numberMatcher matches a non-negative decimal number: digits with an optional fraction
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size && isDigit(input[i]); i++ {
		matched++
	}
	if matched == 0 {
		return 0
	}
	next := pos + matched
	if next < size && input[next] == '.' {
		fraction := 0
		for i := next + 1; i < size && isDigit(input[i]); i++ {
			fraction++
		}
		if fraction == 0 {
			return 0
		}
		matched += 1 + fraction
	}
	return matched
}

// unitMatcher matches a run of ASCII letters
type unitMatcher struct{}

func (m *unitMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize && isLetter(input[i]); i++ {
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
