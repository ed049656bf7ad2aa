package leave

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ManagerApprove(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ManagerApprove(c.Request.Context(), companyID, actorID, id, req.Remarks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerReject(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ManagerReject(c.Request.Context(), companyID, actorID, id, req.Remarks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) HRApprove(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.HRApprove(c.Request.Context(), companyID, actorID, id, req.Remarks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) HRReject(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	var req RejectLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.HRReject(c.Request.Context(), companyID, actorID, id, req.Remarks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.Cancel(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	role := strings.ToUpper(strings.TrimSpace(c.GetString("role")))

	var (
		resp []LeaveResponse
		err  error
	)
	if role == "HR" || role == "MANAGER" {
		resp, err = h.service.GetAll(c.Request.Context(), companyID)
	} else {
		resp, err = h.service.GetAllByEmployee(c.Request.Context(), companyID, actorID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBalances(c *gin.Context) {
	companyID := c.GetString("company_id")
	employeeID := c.DefaultQuery("employee_id", getActorID(c))
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().UTC().Year())))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", "year must be an integer")
		return
	}

	role := strings.ToUpper(strings.TrimSpace(c.GetString("role")))
	if role == "EMPLOYEE" {
		employeeID = getActorID(c)
	}

	resp, err := h.service.GetBalances(c.Request.Context(), companyID, employeeID, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetActivity(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetActivity(c.Request.Context(), companyID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
