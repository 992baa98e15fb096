package practitioner

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinigo/agenda-api/internal/handler"
	"github.com/clinigo/agenda-api/internal/middleware"
	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/service/practitioner"
	"github.com/clinigo/agenda-api/pkg/validator"
)

type Handler struct {
	service *practitioner.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *practitioner.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	practitioners := r.Group("/practitioners")
	{
		practitioners.GET("", h.ListPractitioners)
		practitioners.GET("/:id", h.GetPractitioner)
		practitioners.POST("", h.auth.RequireAdministrative(), h.CreatePractitioner)
		practitioners.PUT("/:id", h.auth.RequireAdministrative(), h.UpdatePractitioner)
	}
}

func (h *Handler) CreatePractitioner(c *gin.Context) {
	var req model.CreatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if err := validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	p, err := h.service.CreatePractitioner(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, p)
}

func (h *Handler) GetPractitioner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid practitioner ID"})
		return
	}

	p, err := h.service.GetPractitioner(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, p)
}

func (h *Handler) UpdatePractitioner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid practitioner ID"})
		return
	}

	var req model.UpdatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if err := validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	p, err := h.service.UpdatePractitioner(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, p)
}

func (h *Handler) ListPractitioners(c *gin.Context) {
	practitioners, err := h.service.ListActivePractitioners(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, practitioners)
}
