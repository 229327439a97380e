package graph

import (
	"fmt"
	"go/ast"
	"go/parser"
	"sort"
	"strconv"
	"strings"
)

// Condition guards step execution with a boolean expression
type Condition struct {
	Expression string `json:"expression" yaml:"expression"`
	// Variables lists root identifiers referenced by the expression
	Variables []string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// NewCondition creates a condition and collects its references; an expression
// that does not parse keeps an empty reference list
func NewCondition(expression string) *Condition {
	ret := &Condition{Expression: expression}
	if refs, err := References(expression); err == nil {
		ret.Variables = refs
	}
	return ret
}

// Validate checks that the expression parses
func (c *Condition) Validate() error {
	_, err := ParseExpression(c.Expression)
	return err
}

var literals = map[string]bool{"true": true, "false": true, "nil": true, "null": true}

// ParseExpression parses a condition in the ${...} or bare form. Single quoted
// strings and the words and/or/not are accepted as well.
func ParseExpression(expression string) (ast.Expr, error) {
	text := strings.TrimSpace(expression)
	if strings.HasPrefix(text, "${") && strings.HasSuffix(text, "}") {
		text = text[2 : len(text)-1]
	} else if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		text = text[1 : len(text)-1]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty expression")
	}
	normalized, err := normalizeExpression(text)
	if err != nil {
		return nil, err
	}
	expr, err := parser.ParseExpr(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}
	return expr, nil
}

// References returns sorted, unique root identifiers used by expression
func References(expression string) ([]string, error) {
	expr, err := ParseExpression(expression)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	ast.Inspect(expr, collectIdent(seen))
	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

func collectIdent(seen map[string]bool) func(ast.Node) bool {
	return func(node ast.Node) bool {
		switch actual := node.(type) {
		case *ast.CallExpr:
			for _, arg := range actual.Args {
				ast.Inspect(arg, collectIdent(seen))
			}
			return false
		case *ast.SelectorExpr:
			ast.Inspect(actual.X, collectIdent(seen))
			return false
		case *ast.Ident:
			if !literals[actual.Name] {
				seen[actual.Name] = true
			}
		}
		return true
	}
}

// normalizeExpression rewrites single quoted strings into Go string literals
// and replaces the keywords and/or/not outside of strings
func normalizeExpression(text string) (string, error) {
	var b strings.Builder
	var word strings.Builder
	flushWord := func() {
		switch w := word.String(); w {
		case "and":
			b.WriteString("&&")
		case "or":
			b.WriteString("||")
		case "not":
			b.WriteString("!")
		default:
			b.WriteString(w)
		}
		word.Reset()
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\'' || c == '"':
			flushWord()
			end := strings.IndexByte(text[i+1:], c)
			if end < 0 {
				return "", fmt.Errorf("unterminated string in %q", text)
			}
			b.WriteString(strconv.Quote(text[i+1 : i+1+end]))
			i += end + 1
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			word.WriteByte(c)
		default:
			flushWord()
			b.WriteByte(c)
		}
	}
	flushWord()
	return b.String(), nil
}
