package xlcodec

import (
	"strings"

	"github.com/xuri/efp"
)

// errorFormulas maps a handful of well-known formulas to the error they
// always produce. Cells holding one of them decode as that error, and
// writing the error re-creates the formula.
var errorFormulas = []struct {
	formula string
	token   string
}{
	{"1/0", "#DIV/0!"},
	{"NA()", "#N/A"},
	{`"text"+1`, "#VALUE!"},
}

var (
	errorByFormula = map[string]string{}
	formulaByError = map[string]string{}
)

func init() {
	for _, e := range errorFormulas {
		errorByFormula[canonicalFormula(e.formula)] = e.token
		formulaByError[e.token] = e.formula
	}
}

// stripFormulaPrefix removes surrounding whitespace and one leading "=".
func stripFormulaPrefix(formula string) string {
	return strings.TrimPrefix(strings.TrimSpace(formula), "=")
}

// canonicalFormula renders a formula as its token stream with whitespace
// dropped and function names upper-cased, so "= na( )" and "NA()" compare
// equal. Formulas the tokenizer cannot split come back trimmed.
func canonicalFormula(formula string) string {
	body := stripFormulaPrefix(formula)
	if body == "" {
		return ""
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(body)
	if len(tokens) == 0 {
		return body
	}
	var b strings.Builder
	for _, t := range tokens {
		switch {
		case t.TType == efp.TokenTypeWhitespace:
		case t.TSubType == efp.TokenSubTypeIntersection:
			b.WriteByte(' ')
		case t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStart:
			b.WriteString(strings.ToUpper(t.TValue))
			b.WriteByte('(')
		case t.TSubType == efp.TokenSubTypeStop:
			b.WriteByte(')')
		case t.TType == efp.TokenTypeSubexpression && t.TSubType == efp.TokenSubTypeStart:
			b.WriteByte('(')
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeText:
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(t.TValue, `"`, `""`))
			b.WriteByte('"')
		case t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange:
			b.WriteString(strings.ToUpper(t.TValue))
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

// ErrorForFormula returns the error token a well-known formula produces.
func ErrorForFormula(formula string) (string, bool) {
	token, ok := errorByFormula[canonicalFormula(formula)]
	return token, ok
}

// FormulaForError returns the formula that re-creates a well-known error.
func FormulaForError(token string) (string, bool) {
	formula, ok := formulaByError[strings.TrimSpace(token)]
	return formula, ok
}

// isErrorToken reports whether literal text has the shape of an error value.
func isErrorToken(s string) bool {
	return s == "#N/A" || (len(s) > 1 && strings.HasPrefix(s, "#") && strings.HasSuffix(s, "!"))
}
