package agenda

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinigo/agenda-api/internal/handler"
	"github.com/clinigo/agenda-api/internal/middleware"
	"github.com/clinigo/agenda-api/internal/model"
	"github.com/clinigo/agenda-api/internal/service/agenda"
	"github.com/clinigo/agenda-api/pkg/validator"
)

type Handler struct {
	service *agenda.Service
}

func NewHandler(service *agenda.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ag := r.Group("/agenda")
	{
		ag.GET("", h.DayView)
		ag.GET("/pending", h.PendingAppointments)
	}

	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.Availability)
		appointments.POST("", h.BookAppointment)
		appointments.POST("/:id/status", h.ChangeStatus)
	}
}

func (h *Handler) DayView(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing caller identity"})
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	view, err := h.service.DayView(c.Request.Context(), date, caller)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, view)
}

func (h *Handler) PendingAppointments(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing caller identity"})
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	var practitionerID *uuid.UUID
	if raw := c.Query("practitioner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid practitioner ID"})
			return
		}
		practitionerID = &id
	}

	pending, err := h.service.PendingAppointments(c.Request.Context(), date, practitionerID, caller)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, pending)
}

func (h *Handler) Availability(c *gin.Context) {
	practitionerID, err := uuid.Parse(c.Query("practitioner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid practitioner ID"})
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	slots, err := h.service.Availability(c.Request.Context(), date, practitionerID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, slots)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing caller identity"})
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if err := validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	apt, err := h.service.BookAppointment(c.Request.Context(), &req, caller)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusCreated, apt)
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "missing caller identity"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}
	if err := validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), id, &req, caller)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, http.StatusOK, result)
}

func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}
