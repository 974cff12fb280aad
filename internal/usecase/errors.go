package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// エラー種別。handlerはHTTPErrorのStatusで返し、テストはerrors.Isで種別を見る
var (
	//400 入力不正
	ErrValidation = errors.New("validation error")
	//401 認証失敗（トークン不正/期限切れ/再利用も含む）
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限なし・停止中
	ErrForbidden = errors.New("forbidden")
	//404
	ErrNotFound = errors.New("not found")
	//409 一意制約
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

type HTTPError struct {
	Status  int
	Message string
	// 上のErrXxxのどれか
	Kind error
	// 500のときの元エラー（レスポンスには出さない）
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindOf(status),
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func kindOf(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

func invalidArgument(msg string) error { return NewHTTPError(http.StatusBadRequest, msg) }
func unauthorized(msg string) error    { return NewHTTPError(http.StatusUnauthorized, msg) }
func forbidden(msg string) error       { return NewHTTPError(http.StatusForbidden, msg) }
func notFound(msg string) error        { return NewHTTPError(http.StatusNotFound, msg) }
func conflict(msg string) error        { return NewHTTPError(http.StatusConflict, msg) }

// 中身は外に出さない
func internal(cause error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		Kind:    ErrInternal,
		Cause:   cause,
	}
}
