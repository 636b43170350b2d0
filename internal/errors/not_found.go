package errors

import (
	"fmt"
	"net/http"
)

func NotFound(resource string, id uint) *Exception {
	return &Exception{
		Message:    fmt.Sprintf("%s %d not found", resource, id),
		StatusCode: http.StatusNotFound,
	}
}
