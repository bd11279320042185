package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"yogastudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/classes", h.ListClasses)
	rg.GET("/classes/:id", h.GetClass)
	rg.GET("/retreats", h.ListRetreats)
	rg.GET("/retreats/:id", h.GetRetreat)
}

func (h *Handler) ListClasses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.ListClasses(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load classes")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": out})
}

func (h *Handler) GetClass(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid class id")
		return
	}

	out, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Class not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load class")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": out})
}

func (h *Handler) ListRetreats(c *gin.Context) {
	out, err := h.service.ListRetreats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load retreats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"retreats": out})
}

func (h *Handler) GetRetreat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid retreat id")
		return
	}

	out, err := h.service.GetRetreat(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Retreat not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load retreat")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"retreat": out})
}
