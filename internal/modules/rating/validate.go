package rating

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"rateline/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// decimals compare as numbers in gt/gte rules
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("latlng", func(fl validator.FieldLevel) bool {
		_, err := types.ParseCoordinate(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateRequest checks a request struct and reports every failing field in
// one ErrInputInvalid error.
func ValidateRequest(product Product, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Kind: ErrInputInvalid, Product: product, Stage: "request", Err: err}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fail(ErrInputInvalid, product, "request", "%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "latlng":
		return fe.Field() + " must be \"lat,lng\""
	case "gt", "gte":
		return fe.Field() + " must be " + fe.Tag() + " " + fe.Param()
	default:
		return fe.Field() + " failed " + fe.Tag()
	}
}

func parsePair(product Product, a, b string) (types.Coordinate, types.Coordinate, error) {
	ca, err := types.ParseCoordinate(a)
	if err != nil {
		return types.Coordinate{}, types.Coordinate{}, &Error{Kind: ErrInputInvalid, Product: product, Stage: "request", Err: err}
	}
	cb, err := types.ParseCoordinate(b)
	if err != nil {
		return types.Coordinate{}, types.Coordinate{}, &Error{Kind: ErrInputInvalid, Product: product, Stage: "request", Err: err}
	}
	return ca, cb, nil
}
