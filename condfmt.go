package xlcodec

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/xlcodec/sheetpart"
)

// ConditionalFormatRule is one rule of a conditional formatting block.
type ConditionalFormatRule struct {
	Range        string      `yaml:"range" json:"range" validate:"required"`
	RuleType     string      `yaml:"rule_type" json:"rule_type" validate:"required"`
	Operator     string      `yaml:"operator,omitempty" json:"operator,omitempty"`
	Formula      string      `yaml:"formula,omitempty" json:"formula,omitempty"`
	Formula2     string      `yaml:"formula2,omitempty" json:"formula2,omitempty"`
	Text         string      `yaml:"text,omitempty" json:"text,omitempty"`
	Rank         int         `yaml:"rank,omitempty" json:"rank,omitempty" validate:"gte=0"`
	Percent      bool        `yaml:"percent,omitempty" json:"percent,omitempty"`
	Bottom       bool        `yaml:"bottom,omitempty" json:"bottom,omitempty"`
	AboveAverage *bool       `yaml:"above_average,omitempty" json:"above_average,omitempty"`
	IconStyle    string      `yaml:"icon_style,omitempty" json:"icon_style,omitempty"`
	Priority     int         `yaml:"priority" json:"priority"`
	StopIfTrue   bool        `yaml:"stop_if_true" json:"stop_if_true"`
	Format       *RuleFormat `yaml:"format,omitempty" json:"format,omitempty"`
	DataBar      *DataBar    `yaml:"data_bar,omitempty" json:"data_bar,omitempty"`
	ColorScale   *ColorScale `yaml:"color_scale,omitempty" json:"color_scale,omitempty"`
}

// RuleFormat is the differential format a matching rule applies.
type RuleFormat struct {
	BgColor string `yaml:"bg_color,omitempty" json:"bg_color,omitempty"`
}

// Threshold is a conditional format value object.
type Threshold struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// DataBar holds the thresholds and colour of a data bar rule.
type DataBar struct {
	Min   Threshold `yaml:"min" json:"min"`
	Max   Threshold `yaml:"max" json:"max"`
	Color string    `yaml:"color" json:"color"`
}

// ColorStop is one stop of a colour scale.
type ColorStop struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
	Color string `yaml:"color" json:"color"`
}

// ColorScale is a two or three stop colour scale.
type ColorScale struct {
	Stops []ColorStop `yaml:"stops" json:"stops"`
}

// DefaultDataBar is the bar written for a data bar rule that carries none.
func DefaultDataBar() *DataBar {
	return &DataBar{
		Min:   Threshold{Type: "num", Value: "0"},
		Max:   Threshold{Type: "num", Value: "10"},
		Color: "#638EC6",
	}
}

// DefaultColorScale is the red, yellow, green scale written for a colour
// scale rule that carries none.
func DefaultColorScale() *ColorScale {
	return &ColorScale{Stops: []ColorStop{
		{Type: "min", Color: "#F8696B"},
		{Type: "percentile", Value: "50", Color: "#FFEB84"},
		{Type: "max", Color: "#63BE7B"},
	}}
}

// DefaultIconStyle is the icon set used when an icon set rule names none.
func DefaultIconStyle() string {
	return "3TrafficLights1"
}

// cfRuleTypes is ST_CfType.
var cfRuleTypes = []string{
	"expression", "cellIs", "colorScale", "dataBar", "iconSet", "top10",
	"uniqueValues", "duplicateValues", "containsText", "notContainsText",
	"beginsWith", "endsWith", "containsBlanks", "notContainsBlanks",
	"containsErrors", "notContainsErrors", "timePeriod", "aboveAverage",
}

// cfOperators is ST_ConditionalFormattingOperator, mapped to the criteria
// phrases the document model takes.
var cfOperators = map[string]string{
	"lessThan":           "less than",
	"lessThanOrEqual":    "less than or equal to",
	"equal":              "equal to",
	"notEqual":           "not equal to",
	"greaterThanOrEqual": "greater than or equal to",
	"greaterThan":        "greater than",
	"between":            "between",
	"notBetween":         "not between",
	"containsText":       "containing",
	"notContains":        "not containing",
	"beginsWith":         "begins with",
	"endsWith":           "ends with",
}

// cfTimePeriods is ST_TimePeriod, mapped the same way.
var cfTimePeriods = map[string]string{
	"today":     "today",
	"yesterday": "yesterday",
	"tomorrow":  "tomorrow",
	"last7Days": "last 7 days",
	"thisMonth": "this month",
	"lastMonth": "last month",
	"nextMonth": "continue month",
	"thisWeek":  "this week",
	"lastWeek":  "last week",
	"nextWeek":  "continue week",
}

// textRuleOperators maps the text rule types to their operator.
var textRuleOperators = map[string]string{
	"containsText":    "containsText",
	"notContainsText": "notContains",
	"beginsWith":      "beginsWith",
	"endsWith":        "endsWith",
}

var iconStyles = []string{
	"3Arrows", "3ArrowsGray", "3Flags", "3Signs", "3Symbols", "3Symbols2",
	"3TrafficLights1", "3TrafficLights2", "4Arrows", "4ArrowsGray",
	"4Rating", "4RedToBlack", "4TrafficLights", "5Arrows", "5ArrowsGray",
	"5Quarters", "5Rating",
}

// placeholderCriteria satisfies the document model for rule kinds that do
// not compare against anything.
const placeholderCriteria = "="

// ConditionalFormats decodes every rule on a sheet, one record per rule, in
// document order. Each record carries its block's range and the rule's
// stored priority.
func (w *Workbook) ConditionalFormats(sheet string) ([]ConditionalFormatRule, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return nil, err
	}
	var rules []ConditionalFormatRule
	for _, block := range part.CondFormats {
		for _, r := range block.Rules {
			rule := ConditionalFormatRule{
				Range:      block.SQRef,
				RuleType:   r.Type,
				Operator:   r.Operator,
				Text:       r.Text,
				Rank:       r.Rank,
				Percent:    r.Percent,
				Bottom:     r.Bottom,
				Priority:   r.Priority,
				StopIfTrue: r.StopIfTrue,
			}
			if r.Type == "timePeriod" && r.TimePeriod != "" {
				rule.Operator = r.TimePeriod
			}
			if len(r.Formulas) > 0 {
				rule.Formula = r.Formulas[0]
			}
			if len(r.Formulas) > 1 {
				rule.Formula2 = r.Formulas[1]
			}
			if r.Type == "aboveAverage" {
				rule.AboveAverage = ptr(r.AboveAverage == nil || *r.AboveAverage)
			}
			if r.DxfID != nil {
				if rule.Format, err = w.ruleFormat(*r.DxfID); err != nil {
					return nil, err
				}
			}
			if r.DataBar != nil {
				rule.DataBar = decodeDataBar(r.DataBar.Cfvo, r.DataBar.Colors)
			}
			if r.ColorScale != nil {
				rule.ColorScale = decodeColorScale(r.ColorScale.Cfvo, r.ColorScale.Colors)
			}
			if r.IconSet != nil {
				rule.IconStyle = cmp.Or(r.IconSet.Style, DefaultIconStyle())
			}
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// ruleFormat reads the fill colour of a differential format.
func (w *Workbook) ruleFormat(dxfID int) (*RuleFormat, error) {
	style, err := w.file.GetConditionalStyle(dxfID)
	if err != nil {
		return nil, documentError("read conditional style", err)
	}
	if len(style.Fill.Color) == 0 || style.Fill.Color[0] == "" {
		return nil, nil
	}
	return &RuleFormat{BgColor: displayColor(style.Fill.Color[0])}, nil
}

func decodeDataBar(cfvo []sheetpart.Cfvo, colors []sheetpart.Color) *DataBar {
	bar := &DataBar{}
	if len(cfvo) > 0 {
		bar.Min = decodeThreshold(cfvo[0])
	}
	if len(cfvo) > 1 {
		bar.Max = decodeThreshold(cfvo[1])
	}
	if len(colors) > 0 {
		bar.Color = displayColor(colors[0].RGB)
	}
	return bar
}

func decodeColorScale(cfvo []sheetpart.Cfvo, colors []sheetpart.Color) *ColorScale {
	scale := &ColorScale{}
	for i, v := range cfvo {
		t := decodeThreshold(v)
		stop := ColorStop{Type: t.Type, Value: t.Value}
		if i < len(colors) {
			stop.Color = displayColor(colors[i].RGB)
		}
		scale.Stops = append(scale.Stops, stop)
	}
	return scale
}

// decodeThreshold drops the value of min and max thresholds; the document
// stores a placeholder there.
func decodeThreshold(v sheetpart.Cfvo) Threshold {
	t := Threshold{Type: v.Type, Value: v.Val}
	if v.Type == "min" || v.Type == "max" {
		t.Value = ""
	}
	return t
}

// AddConditionalFormat appends a rule as a new block. Rule type and
// operator must come from the closed vocabularies; data bar and colour
// scale rules without their sub-object get the defaults. The document
// assigns the priority, so rule.Priority is ignored.
func (w *Workbook) AddConditionalFormat(sheet string, rule ConditionalFormatRule) error {
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
	opt, err := w.conditionalOptions(rule)
	if err != nil {
		return err
	}
	if err := w.file.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{opt}); err != nil {
		if errors.Is(err, excelize.ErrParameterInvalid) {
			return fmt.Errorf("add conditional format: %w: %v", ErrInvalidEnumValue, err)
		}
		return documentError("add conditional format", err)
	}
	return nil
}

// conditionalOptions validates a rule and maps it onto the document model's
// options. A differential format is registered only once the rule is valid.
func (w *Workbook) conditionalOptions(rule ConditionalFormatRule) (excelize.ConditionalFormatOptions, error) {
	var opt excelize.ConditionalFormatOptions
	ruleType, ok := normalizeEnum(cfRuleTypes, rule.RuleType)
	if !ok {
		return opt, invalidEnum("rule_type", rule.RuleType)
	}
	operator := ""
	if rule.Operator != "" {
		vocab := mapKeys(cfOperators)
		if ruleType == "timePeriod" {
			vocab = mapKeys(cfTimePeriods)
		}
		if operator, ok = normalizeEnum(vocab, rule.Operator); !ok {
			return opt, invalidEnum("operator", rule.Operator)
		}
	}
	opt.StopIfTrue = rule.StopIfTrue
	opt.Criteria = placeholderCriteria
	usesFormat := true

	switch ruleType {
	case "cellIs":
		if operator == "" {
			return opt, missingField("operator")
		}
		if rule.Formula == "" {
			return opt, missingField("formula")
		}
		opt.Type = "cell"
		opt.Criteria = cfOperators[operator]
		if operator == "between" || operator == "notBetween" {
			if rule.Formula2 == "" {
				return opt, missingField("formula2")
			}
			opt.MinValue, opt.MaxValue = rule.Formula, rule.Formula2
		} else {
			opt.Value = rule.Formula
		}
	case "expression":
		if rule.Formula == "" {
			return opt, missingField("formula")
		}
		opt.Type = "formula"
		opt.Criteria = stripFormulaPrefix(rule.Formula)
	case "containsText", "notContainsText", "beginsWith", "endsWith":
		if rule.Text == "" {
			return opt, missingField("text")
		}
		opt.Type = "text"
		opt.Criteria = cfOperators[textRuleOperators[ruleType]]
		opt.Value = rule.Text
	case "timePeriod":
		if operator == "" {
			return opt, missingField("operator")
		}
		opt.Type = "time_period"
		opt.Criteria = cfTimePeriods[operator]
	case "top10":
		opt.Type = "top"
		if rule.Bottom {
			opt.Type = "bottom"
		}
		opt.Value = strconv.Itoa(cmp.Or(rule.Rank, 10))
		opt.Percent = rule.Percent
	case "aboveAverage":
		opt.Type = "average"
		opt.AboveAverage = rule.AboveAverage == nil || *rule.AboveAverage
	case "uniqueValues":
		opt.Type = "unique"
	case "duplicateValues":
		opt.Type = "duplicate"
	case "containsBlanks":
		opt.Type = "blanks"
	case "notContainsBlanks":
		opt.Type = "no_blanks"
	case "containsErrors":
		opt.Type = "errors"
	case "notContainsErrors":
		opt.Type = "no_errors"
	case "dataBar":
		usesFormat = false
		bar := rule.DataBar
		if bar == nil {
			bar = DefaultDataBar()
		}
		color, err := NormalizeRGB(bar.Color)
		if err != nil {
			return opt, err
		}
		opt.Type = "data_bar"
		opt.MinType, opt.MinValue = bar.Min.Type, bar.Min.Value
		opt.MaxType, opt.MaxValue = bar.Max.Type, bar.Max.Value
		opt.BarColor = "#" + color
	case "colorScale":
		usesFormat = false
		scale := rule.ColorScale
		if scale == nil {
			scale = DefaultColorScale()
		}
		if err := scaleOptions(&opt, scale); err != nil {
			return opt, err
		}
	case "iconSet":
		usesFormat = false
		style := DefaultIconStyle()
		if rule.IconStyle != "" {
			if style, ok = lookupCanonical(iconStyles, rule.IconStyle); !ok {
				return opt, invalidEnum("icon_style", rule.IconStyle)
			}
		}
		opt.Type = "icon_set"
		opt.IconStyle = style
	}

	if usesFormat && rule.Format != nil && rule.Format.BgColor != "" {
		color, err := NormalizeRGB(rule.Format.BgColor)
		if err != nil {
			return opt, err
		}
		dxf, err := w.file.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return opt, documentError("register conditional style", err)
		}
		opt.Format = &dxf
	}
	return opt, nil
}

// scaleOptions maps a two or three stop scale. The middle stop of a three
// stop scale is the mid point.
func scaleOptions(opt *excelize.ConditionalFormatOptions, scale *ColorScale) error {
	n := len(scale.Stops)
	if n != 2 && n != 3 {
		return fmt.Errorf("%w: color_scale needs 2 or 3 stops, got %d", ErrInvalidEnumValue, n)
	}
	colors := make([]string, n)
	for i, s := range scale.Stops {
		if s.Type == "" {
			return missingField(fmt.Sprintf("color_scale.stops[%d].type", i))
		}
		c, err := NormalizeRGB(s.Color)
		if err != nil {
			return err
		}
		colors[i] = "#" + c
	}
	first, last := scale.Stops[0], scale.Stops[n-1]
	opt.Type = strconv.Itoa(n) + "_color_scale"
	opt.MinType, opt.MinValue, opt.MinColor = first.Type, first.Value, colors[0]
	opt.MaxType, opt.MaxValue, opt.MaxColor = last.Type, last.Value, colors[n-1]
	if n == 3 {
		mid := scale.Stops[1]
		opt.MidType, opt.MidValue, opt.MidColor = mid.Type, mid.Value, colors[1]
	}
	return nil
}

// RemoveConditionalFormat deletes every block whose range equals ref and
// returns how many were removed.
func (w *Workbook) RemoveConditionalFormat(sheet, ref string) (int, error) {
	if err := w.checkSheet(sheet); err != nil {
		return 0, err
	}
	target, err := w.rangeRef(ref)
	if err != nil {
		return 0, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, block := range part.CondFormats {
		if canonicalKey(block.SQRef) != canonicalKey(target) {
			continue
		}
		if err := w.file.UnsetConditionalFormat(sheet, block.SQRef); err != nil {
			return removed, documentError("remove conditional format", err)
		}
		removed++
	}
	return removed, nil
}

func mapKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
