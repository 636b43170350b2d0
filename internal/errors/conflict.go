package errors

import (
	"fmt"
	"net/http"

	"labelforge.com/labelforge/internal/constants"
)

// Conflict names both the status the task currently has and the status the
// operation needs, so callers can re-fetch and decide whether to retry.
func Conflict(op string, taskID uint, current, required constants.TaskStatus) *Exception {
	return &Exception{
		Message: fmt.Sprintf(
			"cannot %s task %d: status is %q, must be %q", op, taskID, current, required,
		),
		StatusCode: http.StatusConflict,
	}
}
