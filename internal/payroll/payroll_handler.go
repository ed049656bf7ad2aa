package payroll

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotency frees the in-flight lock; cacheResult stores the
// final payload so a retried request with the same key replays it.
func (h *Handler) releaseIdempotency(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

func (h *Handler) cacheResult(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
	}
}

func (h *Handler) CreateRun(c *gin.Context) {
	defer h.releaseIdempotency(c)

	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateRun(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	defer h.releaseIdempotency(c)

	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.Calculate(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.Approve(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Process(c *gin.Context) {
	defer h.releaseIdempotency(c)

	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	id := c.Param("id")

	resp, err := h.service.Process(c.Request.Context(), companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheResult(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetAll(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRecords(c *gin.Context) {
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetRecords(c.Request.Context(), companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	companyID := c.GetString("company_id")
	recordID := c.Param("recordID")

	resp, err := h.service.GeneratePayslip(c.Request.Context(), companyID, recordID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	storageDir := os.Getenv("PAYSLIP_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./payslips"
	}
	filename := "payslip_" + resp.ID + ".pdf"
	c.FileAttachment(filepath.Join(storageDir, filename), filename)
}
