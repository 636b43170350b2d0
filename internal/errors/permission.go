package errors

import "net/http"

func Permission(message string) *Exception {
	return &Exception{
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}
