package dto

import (
	"errors"
	"html"
	"reflect"
	"strings"

	"asset-exchange/internal/core/domain"
	"asset-exchange/pkg/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_name", validateAccountName)
		_ = v.RegisterValidation("symbol_code", validateSymbolCode)
	}
}

func validateAccountName(fl validator.FieldLevel) bool {
	return domain.Name(fl.Field().String()).IsValid()
}

// validateSymbolCode checks the code half of a symbol; precision is not part of a path.
func validateSymbolCode(fl validator.FieldLevel) bool {
	return domain.Symbol{Code: fl.Field().String()}.IsValid()
}

// BindError maps a binding failure to the ledger error of the offending rule.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "account_name":
			return apperror.ErrInvalidAccountName()
		case "symbol_code":
			return apperror.ErrInvalidSymbol()
		}
	}
	return apperror.Validation(err.Error())
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field of a struct pointer, embedded structs included. Fields tagged
// `sanitize:"-"` are left untouched.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Struct:
			sanitizeFields(f)
		case reflect.Ptr:
			if !f.IsNil() && f.Elem().Kind() == reflect.String {
				f.Elem().SetString(sanitize(f.Elem().String()))
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
