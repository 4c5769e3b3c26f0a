package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/service/zones"
	"github.com/gin-gonic/gin"
)

type ZoneHandler struct {
	service zones.ZoneUseCase
}

func NewZoneHandler(service zones.ZoneUseCase) *ZoneHandler {
	return &ZoneHandler{service: service}
}

func (h *ZoneHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.PUT("/:id", h.updateValidity)
	router.DELETE("/:id", h.delete)
}

type createZoneRequest struct {
	// Two opposite corners of the bounding rectangle, as [lon, lat] pairs.
	Corners       []domain.Point `json:"corners"`
	ValidityStart *time.Time     `json:"validity_start"`
	ValidityEnd   *time.Time     `json:"validity_end"`
}

func (h *ZoneHandler) create(c *gin.Context) {
	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Corners) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corners must hold exactly 2 points"})
		return
	}
	for _, p := range req.Corners {
		if !p.InRange() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corner out of lon/lat range"})
			return
		}
	}

	zone, err := h.service.Create(c.Request.Context(), zones.CreateZoneInput{
		Operator:      callerEmail(c),
		CornerA:       req.Corners[0],
		CornerB:       req.Corners[1],
		ValidityStart: req.ValidityStart,
		ValidityEnd:   req.ValidityEnd,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"zone": zone})
}

func (h *ZoneHandler) list(c *gin.Context) {
	var (
		result []domain.NoFlyZone
		err    error
	)
	if c.Query("validAt") != "" {
		at, perr := time.Parse(time.RFC3339, c.Query("validAt"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validAt must be RFC3339"})
			return
		}
		result, err = h.service.ActiveZones(c.Request.Context(), at)
	} else {
		result, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": result})
}

type updateZoneRequest struct {
	ValidityStart *time.Time `json:"validity_start"`
	ValidityEnd   *time.Time `json:"validity_end"`
}

func (h *ZoneHandler) updateValidity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := h.service.UpdateValidity(c.Request.Context(), id, req.ValidityStart, req.ValidityEnd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

func (h *ZoneHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, callerEmail(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
