package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "labelforge.com/labelforge/internal/data_models"
	apperrors "labelforge.com/labelforge/internal/errors"
	middleware "labelforge.com/labelforge/internal/http/middlewares"
	"labelforge.com/labelforge/internal/http/validators"
	model "labelforge.com/labelforge/internal/models"
	"labelforge.com/labelforge/internal/services"
)

type Handler struct {
	workflow *services.WorkflowService
	queues   *services.QueueService
	metrics  *services.MetricsService
	projects *services.ProjectService
}

func NewHandler(
	workflow *services.WorkflowService,
	queues *services.QueueService,
	metrics *services.MetricsService,
	projects *services.ProjectService,
) *Handler {
	return &Handler{
		workflow: workflow,
		queues:   queues,
		metrics:  metrics,
		projects: projects,
	}
}

// --- Projects ---

func (h *Handler) ListProjects(c echo.Context) error {
	projects, err := h.projects.ListProjects(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *Handler) CreateProject(c echo.Context) error {
	var req dto.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateProjectRequest(&req); err != nil {
		return err
	}

	project, err := h.projects.CreateProject(c.Request().Context(), caller(c), req.Name, req.Description)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) GetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.projects.ProjectDetail(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// --- Datasets ---

func (h *Handler) CreateDataset(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.CreateDatasetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateDatasetRequest(&req); err != nil {
		return err
	}

	dataset, err := h.projects.CreateDataset(c.Request().Context(), caller(c), projectID, req.Name, req.Labels)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, dataset)
}

func (h *Handler) GetDataset(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	detail, err := h.projects.DatasetDetail(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) ListDatasetTasks(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	tasks, err := h.projects.ListDatasetTasks(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) BulkCreateTasks(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.BulkCreateTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateBulkCreateTasksRequest(&req); err != nil {
		return err
	}

	created, err := h.projects.BulkCreateTasks(c.Request().Context(), caller(c), id, req.Tasks)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, dto.BulkCreateResult{Created: created})
}

// --- Task workflow ---

func (h *Handler) ClaimTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.workflow.Claim(c.Request().Context(), id, caller(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) SubmitTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.SubmitTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.workflow.Submit(
		c.Request().Context(), id, caller(c),
		model.JSONMap(req.Annotation), req.TimeSpentSeconds,
	)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ApproveTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.workflow.Approve(c.Request().Context(), id, caller(c))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) RejectTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.RejectTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.workflow.Reject(c.Request().Context(), id, caller(c), req.Comment)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// --- Queues ---

func (h *Handler) TaskQueue(c echo.Context) error {
	datasetID, err := queryID(c, "dataset_id")
	if err != nil {
		return err
	}

	tasks, err := h.queues.AnnotatorQueue(c.Request().Context(), caller(c), datasetID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) ReviewQueue(c echo.Context) error {
	datasetID, err := queryID(c, "dataset_id")
	if err != nil {
		return err
	}

	tasks, err := h.queues.ReviewQueue(c.Request().Context(), caller(c), datasetID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// --- Metrics ---

func (h *Handler) Metrics(c echo.Context) error {
	projectID, err := queryID(c, "project_id")
	if err != nil {
		return err
	}

	metrics, err := h.metrics.ProjectMetrics(c.Request().Context(), projectID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, metrics)
}

// --- Helpers ---

func caller(c echo.Context) model.Identity {
	return middleware.CurrentIdentity(c)
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter; 0 means absent.
func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func respondError(err error) error {
	code := apperrors.StatusCode(err)
	if code == http.StatusInternalServerError {
		return echo.NewHTTPError(code, "internal server error")
	}
	return echo.NewHTTPError(code, err.Error())
}
