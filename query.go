package xlcodec

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Match is a cell selected by FindCells.
type Match struct {
	Cell  string    `yaml:"cell" json:"cell"`
	Value CellValue `yaml:"value" json:"value"`
}

// cellEnv is what a FindCells predicate sees for one cell.
type cellEnv struct {
	Type    string `expr:"type"`
	Value   any    `expr:"value"`
	Formula string `expr:"formula"`
	Cell    string `expr:"cell"`
	Row     int    `expr:"row"` // 1-based
	Col     string `expr:"col"` // column letters
}

// FindCells decodes every non-blank cell of a sheet and returns those for
// which predicate holds, in row-major order. The predicate is an expr
// boolean expression over type, value, formula, cell, row and col:
//
//	type == "number" && value > 100
//	type == "date" && value >= "2024-01-01"
//	col == "B" && row > 1
//
// Dates and date-times are compared as ISO strings. A predicate that fails
// at run time on some cell (comparing a string with a number, say) aborts
// the search; guard on type first.
func (w *Workbook) FindCells(sheet, predicate string) ([]Match, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	program, err := w.compilePredicate(predicate)
	if err != nil {
		return nil, err
	}
	rows, err := w.rows(sheet)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for r, line := range rows {
		for c := range line {
			name := NewCellRef(sheet, r, c).CellName()
			v, err := w.ReadCell(sheet, name)
			if err != nil {
				return nil, err
			}
			if v.Type == TypeBlank {
				continue
			}
			env := cellEnv{
				Type:    string(v.Type),
				Value:   v.Value,
				Formula: v.Formula,
				Cell:    name,
				Row:     r + 1,
				Col:     ColToName(c),
			}
			out, err := expr.Run(program, env)
			if err != nil {
				return nil, fmt.Errorf("evaluate predicate %q at %s: %w", predicate, name, err)
			}
			if ok, _ := out.(bool); ok {
				matches = append(matches, Match{Cell: name, Value: v})
			}
		}
	}
	return matches, nil
}

func (w *Workbook) compilePredicate(predicate string) (*vm.Program, error) {
	if cached, ok := w.predicates.Load(predicate); ok {
		return cached.(*vm.Program), nil
	}
	if predicate == "" {
		return nil, missingField("predicate")
	}
	program, err := expr.Compile(predicate, expr.Env(cellEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w: %v", predicate, ErrInvalidEnumValue, err)
	}
	w.predicates.Store(predicate, program)
	return program, nil
}
