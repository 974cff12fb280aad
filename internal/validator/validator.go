package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echo.Validatorとして登録する
type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// "HH:MM"（00:00〜24:00）
	mustRegister(v, "hhmm", validateHHMM)
	return &RequestValidator{v: v}
}

// 登録失敗はタグ定義の誤りなので起動時に落とす
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return toMessage(err)
	}
	return nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h == 24 {
		return m == 0
	}
	return h < 24 && m < 60
}

// 最初の違反だけを短いメッセージにする（例: "email: must be a valid email"）
func toMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: is required", field)
	case "email":
		return fmt.Errorf("%s: must be a valid email", field)
	case "min":
		return fmt.Errorf("%s: must be at least %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s: must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Errorf("%s: must be >= %s", field, fe.Param())
	case "gt":
		return fmt.Errorf("%s: must be > %s", field, fe.Param())
	case "hhmm":
		return fmt.Errorf("%s: must be HH:MM", field)
	default:
		return fmt.Errorf("%s: failed on %s", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
