package xlcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataValidation_SnakeCaseRoundTrip(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{
		Range:          "c2:c20",
		ValidationType: "text_length",
		Operator:       "greater_than_or_equal",
		Formula1:       "=5",
		AllowBlank:     true,
		ShowInput:      true,
		ShowError:      true,
		PromptTitle:    "Code",
		Prompt:         "At least five characters",
		ErrorTitle:     "Too short",
		Error:          "Use five or more characters",
		ErrorStyle:     "Warning",
	}))

	rules, err := reopen(t, wb).DataValidations(sheet1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, DataValidationRule{
		Range:          "C2:C20",
		ValidationType: "textLength",
		Operator:       "greaterThanOrEqual",
		Formula1:       "5",
		AllowBlank:     true,
		ShowInput:      true,
		ShowError:      true,
		PromptTitle:    "Code",
		Prompt:         "At least five characters",
		ErrorTitle:     "Too short",
		Error:          "Use five or more characters",
		ErrorStyle:     "warning",
	}, rules[0])
}

func TestDataValidation_DefaultOperator(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{
		Range: "A1:A9", ValidationType: "whole", Formula1: "1", Formula2: "10",
	}))
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{
		Range: "B1:B9", ValidationType: "list", Formula1: `"Yes,No"`,
	}))

	rules, err := wb.DataValidations(sheet1)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "between", rules[0].Operator)
	assert.Equal(t, "1", rules[0].Formula1)
	assert.Equal(t, "10", rules[0].Formula2)
	assert.Equal(t, "list", rules[1].ValidationType)
	assert.Empty(t, rules[1].Operator)
	assert.Equal(t, `"Yes,No"`, rules[1].Formula1)
	assert.False(t, rules[1].ShowDropdown)
}

func TestDataValidation_FormulaEscaping(t *testing.T) {
	wb := newWorkbook(t)
	formula := `AND(LEN(A1&B1)>0,A1<>"")`
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{
		Range: "A1", ValidationType: "custom", Formula1: formula,
	}))

	rules, err := wb.DataValidations(sheet1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, formula, rules[0].Formula1)

	rules, err = reopen(t, wb).DataValidations(sheet1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, formula, rules[0].Formula1)
}

func TestDataValidation_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		rule  DataValidationRule
		want  error
		quote string
	}{
		{"type", DataValidationRule{Range: "A1", ValidationType: "Email"}, ErrInvalidEnumValue, `"Email"`},
		{"operator", DataValidationRule{Range: "A1", ValidationType: "whole", Operator: "about"}, ErrInvalidEnumValue, `"about"`},
		{"error style", DataValidationRule{Range: "A1", ValidationType: "whole", ErrorStyle: "fatal"}, ErrInvalidEnumValue, `"fatal"`},
		{"missing type", DataValidationRule{Range: "A1"}, ErrMissingRequiredField, "validation_type"},
		{"missing range", DataValidationRule{ValidationType: "whole"}, ErrMissingRequiredField, "range"},
		{"bad range", DataValidationRule{Range: "A1:", ValidationType: "whole"}, ErrInvalidReference, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newWorkbook(t)
			err := wb.AddDataValidation(sheet1, tt.rule)
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.quote)

			rules, err := wb.DataValidations(sheet1)
			require.NoError(t, err)
			assert.Empty(t, rules)
		})
	}
}

func TestRemoveDataValidation(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{Range: "A1:A10", ValidationType: "decimal", Operator: "greaterThan", Formula1: "0"}))
	require.NoError(t, wb.AddDataValidation(sheet1, DataValidationRule{Range: "B1:B2", ValidationType: "decimal", Operator: "lessThan", Formula1: "0"}))

	require.NoError(t, wb.RemoveDataValidation(sheet1, "a1:a5"))
	require.NoError(t, wb.RemoveDataValidation(sheet1, "B1:B2"))

	rules, err := wb.DataValidations(sheet1)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "A6:A10", rules[0].Range)
}

func TestDataValidation_UnknownSheet(t *testing.T) {
	wb := newWorkbook(t)
	_, err := wb.DataValidations("Nope")
	assert.ErrorIs(t, err, ErrUnknownSheet)
	err = wb.AddDataValidation("Nope", DataValidationRule{Range: "A1", ValidationType: "whole"})
	assert.ErrorIs(t, err, ErrUnknownSheet)
}
