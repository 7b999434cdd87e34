package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javajack/xlcodec"
)

var (
	describeText bool
	setType      string
	setOutput    string
)

var describeCmd = &cobra.Command{
	Use:   "describe FILE [SHEET]",
	Short: "Dump every decoded feature of a sheet as YAML",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := xlcodec.Open(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		sheets := wb.SheetNames()
		if len(args) == 2 {
			sheets = []string{args[1]}
		}
		return describe(cmd.OutOrStdout(), wb, sheets)
	},
}

func describe(out io.Writer, wb *xlcodec.Workbook, sheets []string) error {
	for i, sheet := range sheets {
		snap, err := wb.Describe(sheet)
		if err != nil {
			return err
		}
		if describeText {
			fmt.Fprint(out, snap.String())
			continue
		}
		doc, err := snap.YAML()
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		if _, err := out.Write(doc); err != nil {
			return err
		}
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:   "get FILE SHEET CELL",
	Short: "Decode one cell",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := xlcodec.Open(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		v, err := wb.ReadCell(args[1], args[2])
		if err != nil {
			return err
		}
		doc, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode value: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	},
}

var findCmd = &cobra.Command{
	Use:   "find FILE SHEET EXPR",
	Short: "List cells for which an expr predicate holds",
	Long: `List cells for which an expr predicate holds.

The predicate sees type, value, formula, cell, row (1-based) and col
(letters) for every non-blank cell.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := xlcodec.Open(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		matches, err := wb.FindCells(args[1], args[2])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range matches {
			fmt.Fprintf(out, "%s\t%s\t%s\n", m.Cell, m.Value.Type, m.Value)
		}
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set FILE SHEET CELL VALUE",
	Short: "Write a value into a cell and save",
	Long: `Write a value into a cell and save the workbook.

Without --type the value is inferred: numbers, true/false, "=..." formulas
and "#...!" error tokens are recognized; anything else is text.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := xlcodec.Open(args[0])
		if err != nil {
			return err
		}
		defer wb.Close()

		v, err := parseValue(setType, args[3])
		if err != nil {
			return err
		}
		if err := wb.WriteCell(args[1], args[2], v); err != nil {
			return err
		}
		out := setOutput
		if out == "" {
			out = args[0]
		}
		if err := wb.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s!%s in %s\n", args[1], args[2], out)
		return nil
	},
}

// parseValue builds a CellValue from command-line text.
func parseValue(typ, text string) (xlcodec.CellValue, error) {
	switch xlcodec.ValueType(strings.ToLower(typ)) {
	case "":
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return xlcodec.Number(f), nil
		}
		if strings.EqualFold(text, "true") || strings.EqualFold(text, "false") {
			return xlcodec.Boolean(strings.EqualFold(text, "true")), nil
		}
		return xlcodec.ValueOf(text)
	case xlcodec.TypeBlank:
		return xlcodec.Blank(), nil
	case xlcodec.TypeString:
		return xlcodec.String(text), nil
	case xlcodec.TypeNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return xlcodec.CellValue{}, fmt.Errorf("parse number %q: %w", text, xlcodec.ErrUnsupportedValueType)
		}
		return xlcodec.Number(f), nil
	case xlcodec.TypeBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return xlcodec.CellValue{}, fmt.Errorf("parse boolean %q: %w", text, xlcodec.ErrUnsupportedValueType)
		}
		return xlcodec.Boolean(b), nil
	case xlcodec.TypeDate:
		return xlcodec.Date(text), nil
	case xlcodec.TypeDateTime:
		return xlcodec.DateTime(text), nil
	case xlcodec.TypeFormula:
		return xlcodec.Formula(text), nil
	case xlcodec.TypeError:
		return xlcodec.Error(text), nil
	}
	return xlcodec.CellValue{}, fmt.Errorf("%w: --type %q", xlcodec.ErrUnsupportedValueType, typ)
}

func init() {
	describeCmd.Flags().BoolVar(&describeText, "text", false, "Print a short summary instead of YAML")
	setCmd.Flags().StringVar(&setType, "type", "", "Value type: string, number, boolean, date, datetime, formula, error, blank")
	setCmd.Flags().StringVarP(&setOutput, "output", "o", "", "Write to this file instead of FILE")
	rootCmd.AddCommand(describeCmd, getCmd, findCmd, setCmd)
}
