package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flyhigh/internal/inventory"
	"github.com/Domenick1991/flyhigh/internal/service/seats"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service seats.SeatUseCase
}

func NewInventoryHandler(service seats.SeatUseCase) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) Register(router *gin.RouterGroup) {
	router.POST("/seats/reserve", h.reserve)
	router.POST("/seats/release", h.release)
	router.GET("/flights/:flight", h.getFlight)
	router.PUT("/flights/:flight", h.upsertFlight)
}

func (h *InventoryHandler) reserve(c *gin.Context) {
	var req inventory.ReserveSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, seats.ErrInvalidNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		// Capacity refusal, not a fault.
		c.JSON(http.StatusConflict, gin.H{"error": "not enough seats"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *InventoryHandler) release(c *gin.Context) {
	var req inventory.ReleaseSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Release(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, seats.ErrInvalidNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, seats.ErrFlightNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusOK)
}

func (h *InventoryHandler) getFlight(c *gin.Context) {
	detail, err := h.service.GetFlight(c.Request.Context(), c.Param("flight"))
	if err != nil {
		if errors.Is(err, seats.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *InventoryHandler) upsertFlight(c *gin.Context) {
	var detail inventory.FlightDetail
	if err := c.ShouldBindJSON(&detail); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	detail.Flight = c.Param("flight")

	if err := h.service.UpsertFlight(c.Request.Context(), &detail); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}
