package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinigo/agenda-api/internal/handler"
	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/service/auth"
	"github.com/clinigo/agenda-api/pkg/validator"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if err := validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, resp)
}
