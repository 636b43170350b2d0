package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "labelforge.com/labelforge/internal/data_models"
)

func ValidateBulkCreateTasksRequest(r *dto.BulkCreateTasksRequest) error {
	if len(r.Tasks) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "tasks list must not be empty")
	}
	for _, item := range r.Tasks {
		if item.TextContent == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "each task must have text_content")
		}
	}
	return nil
}
