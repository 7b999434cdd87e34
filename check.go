package xlcodec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	recordValidator     *validator.Validate
	recordValidatorOnce sync.Once
)

// checker returns the shared record validator. Field names in its errors are
// the records' yaml names.
func checker() *validator.Validate {
	recordValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		recordValidator = v
	})
	return recordValidator
}

// checkRecord validates the struct tags of a caller-supplied record. A
// missing required field maps to ErrMissingRequiredField; any other rule
// violation maps to ErrInvalidEnumValue.
func checkRecord(rec any) error {
	err := checker().Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("check record: %w", err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return missingField(fe.Field())
	}
	return fmt.Errorf("%w: %s %v (%s)", ErrInvalidEnumValue, fe.Field(), fe.Value(), fe.Tag())
}
