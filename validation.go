package xlcodec

import (
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DataValidationRule is one data validation block.
type DataValidationRule struct {
	Range          string `yaml:"range" json:"range" validate:"required"`
	ValidationType string `yaml:"validation_type" json:"validation_type" validate:"required"`
	Operator       string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Formula1       string `yaml:"formula1,omitempty" json:"formula1,omitempty"`
	Formula2       string `yaml:"formula2,omitempty" json:"formula2,omitempty"`
	AllowBlank     bool   `yaml:"allow_blank" json:"allow_blank"`
	ShowInput      bool   `yaml:"show_input" json:"show_input"`
	ShowError      bool   `yaml:"show_error" json:"show_error"`
	PromptTitle    string `yaml:"prompt_title,omitempty" json:"prompt_title,omitempty"`
	Prompt         string `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	ErrorTitle     string `yaml:"error_title,omitempty" json:"error_title,omitempty"`
	Error          string `yaml:"error,omitempty" json:"error,omitempty"`
	ErrorStyle     string `yaml:"error_style,omitempty" json:"error_style,omitempty"`
	// ShowDropdown mirrors the document attribute: when true the in-cell
	// arrow of a list rule is suppressed.
	ShowDropdown bool `yaml:"show_dropdown,omitempty" json:"show_dropdown,omitempty"`
}

var (
	validationTypes = []string{
		"none", "whole", "decimal", "list", "date", "time", "textLength", "custom",
	}
	validationOperators = []string{
		"between", "notBetween", "equal", "notEqual",
		"lessThan", "lessThanOrEqual", "greaterThan", "greaterThanOrEqual",
	}
	errorStyles = []string{"stop", "warning", "information"}

	// comparisonTypes take an operator; the document default is between.
	comparisonTypes = []string{"whole", "decimal", "date", "time", "textLength"}

	validationFormulaEscaper = strings.NewReplacer(`&`, `&amp;`, `<`, `&lt;`, `>`, `&gt;`)
)

const defaultValidationOperator = "between"

// DataValidations decodes every validation block on a sheet. Empty strings
// are left out of the records.
func (w *Workbook) DataValidations(sheet string) ([]DataValidationRule, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	dvs, err := w.file.GetDataValidations(sheet)
	if err != nil {
		return nil, documentError("read data validations", err)
	}
	rules := make([]DataValidationRule, 0, len(dvs))
	for _, dv := range dvs {
		rule := DataValidationRule{
			Range:          dv.Sqref,
			ValidationType: dv.Type,
			Operator:       dv.Operator,
			Formula1:       dv.Formula1,
			Formula2:       dv.Formula2,
			AllowBlank:     dv.AllowBlank,
			ShowInput:      dv.ShowInputMessage,
			ShowError:      dv.ShowErrorMessage,
			PromptTitle:    deref(dv.PromptTitle),
			Prompt:         deref(dv.Prompt),
			ErrorTitle:     deref(dv.ErrorTitle),
			Error:          deref(dv.Error),
			ErrorStyle:     deref(dv.ErrorStyle),
			ShowDropdown:   dv.ShowDropDown,
		}
		if rule.ValidationType == "" {
			rule.ValidationType = "none"
		}
		if rule.Operator == "" && slices.Contains(comparisonTypes, rule.ValidationType) {
			rule.Operator = defaultValidationOperator
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AddDataValidation appends a validation block. Type and operator accept
// snake case ("text_length", "greater_than_or_equal") and any letter case;
// an unknown value is rejected quoting the caller's spelling.
func (w *Workbook) AddDataValidation(sheet string, rule DataValidationRule) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := checkRecord(rule); err != nil {
		return err
	}
	ref, err := w.rangeRef(rule.Range)
	if err != nil {
		return err
	}
	typ, ok := normalizeEnum(validationTypes, rule.ValidationType)
	if !ok {
		return invalidEnum("validation_type", rule.ValidationType)
	}
	dv := excelize.NewDataValidation(rule.AllowBlank)
	dv.Sqref = ref
	dv.Type = typ
	if rule.Operator != "" {
		if dv.Operator, ok = normalizeEnum(validationOperators, rule.Operator); !ok {
			return invalidEnum("operator", rule.Operator)
		}
	}
	if rule.ErrorStyle != "" {
		style, ok := lookupCanonical(errorStyles, rule.ErrorStyle)
		if !ok {
			return invalidEnum("error_style", rule.ErrorStyle)
		}
		dv.ErrorStyle = &style
	}
	dv.Formula1 = validationFormula(rule.Formula1)
	dv.Formula2 = validationFormula(rule.Formula2)
	dv.ShowInputMessage = rule.ShowInput
	dv.ShowErrorMessage = rule.ShowError
	dv.ShowDropDown = rule.ShowDropdown
	dv.PromptTitle = optional(rule.PromptTitle)
	dv.Prompt = optional(rule.Prompt)
	dv.ErrorTitle = optional(rule.ErrorTitle)
	dv.Error = optional(rule.Error)
	return documentError("add data validation", w.file.AddDataValidation(sheet, dv))
}

// RemoveDataValidation clears validation from every cell of ref. Blocks
// that only partly overlap keep their remaining cells.
func (w *Workbook) RemoveDataValidation(sheet, ref string) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	target, err := w.rangeRef(ref)
	if err != nil {
		return err
	}
	return documentError("remove data validation", w.file.DeleteDataValidation(sheet, target))
}

// validationFormula strips a leading "=" and escapes the markup characters;
// the document stores the text verbatim.
func validationFormula(f string) string {
	if f == "" {
		return ""
	}
	return validationFormulaEscaper.Replace(stripFormulaPrefix(f))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
