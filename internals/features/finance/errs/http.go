// file: internals/features/finance/errs/http.go
package errs

import "net/http"

// HTTPStatus maps a domain error to the status its JSON envelope
// should carry. Unknown errors surface as 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
