package domain

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	panPattern  = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
		return ifscPattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims surrounding whitespace from text fields.
func (r *IncomeRecord) Normalize() {
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate checks the record against the income entry rules.
func (r IncomeRecord) Validate() error {
	r.Normalize()
	return structError(validate.Struct(r))
}

// Normalize trims surrounding whitespace and upper-cases identifiers.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.PANNumber = strings.ToUpper(strings.TrimSpace(u.PANNumber))
	u.BankDetails.IFSCCode = strings.ToUpper(strings.TrimSpace(u.BankDetails.IFSCCode))
}

// Validate checks the profile fields.
func (u User) Validate() error {
	u.Normalize()
	return structError(validate.Struct(u))
}

// Validate checks an invoice request before any arithmetic runs.
func (in InvoiceInput) Validate() error {
	in.ClientName = strings.TrimSpace(in.ClientName)
	return structError(validate.Struct(in))
}

// ValidateIncome rejects negative income figures.
func ValidateIncome(field string, income decimal.Decimal) error {
	if income.IsNegative() {
		return NewValidationError(field, "must not be negative")
	}
	return nil
}

// structError converts the first validator failure into a ValidationError.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("input", "%v", err)
	}
	fe := verrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Reason: reason(fe)}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "pan":
		return "must be a valid PAN (AAAAA9999A)"
	case "ifsc":
		return "must be a valid IFSC code"
	default:
		return "failed " + fe.Tag()
	}
}
