package httperr

import "errors"

// Business error codes returned by the booking use cases.
const (
	CodeUnauthorized        = "unauthorized"
	CodeForbidden           = "forbidden"
	CodeNotFound            = "not_found"
	CodeNotFoundOrForbidden = "not_found_or_forbidden"
	CodeProfileSetupFailed  = "profile_setup_failed"
	CodeInsertFailed        = "insert_failed"
	CodeUpdateFailed        = "update_failed"
	CodeDeleteFailed        = "delete_failed"
	CodeFetchFailed         = "fetch_failed"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code of a business error, or "" when err
// is not one.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
