package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "labelforge.com/labelforge/internal/data_models"
)

func ValidateCreateDatasetRequest(r *dto.CreateDatasetRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}
