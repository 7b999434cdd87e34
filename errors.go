package xlcodec

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors returned (wrapped) by every codec operation.
// Match them with errors.Is.
var (
	ErrUnknownSheet         = errors.New("unknown sheet")
	ErrInvalidReference     = errors.New("invalid reference")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrInvalidDateFormat    = errors.New("invalid date format")
	ErrNumericOverflow      = errors.New("numeric overflow")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrUnderlyingIO         = errors.New("underlying I/O failure")
)

func unknownSheet(sheet string) error {
	return fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
}

func invalidEnum(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidEnumValue, field, value)
}

func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredField, field)
}

// documentError maps an excelize failure onto the codec taxonomy. Errors
// that are already classified pass through unchanged.
func documentError(op string, err error) error {
	if err == nil {
		return nil
	}
	var notExist excelize.ErrSheetNotExist
	if errors.As(err, &notExist) {
		return fmt.Errorf("%s: %w: %q", op, ErrUnknownSheet, notExist.SheetName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
