package api

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/service/plans"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service plans.PlanUseCase
}

func NewPlanHandler(service plans.PlanUseCase) *PlanHandler {
	return &PlanHandler{service: service}
}

func (h *PlanHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.DELETE("/:id", h.cancel)
	router.PUT("/:id/review", h.review)
}

type createPlanRequest struct {
	WindowStart time.Time    `json:"window_start"`
	WindowEnd   time.Time    `json:"window_end"`
	VehicleID   string       `json:"vehicle_id"`
	Route       domain.Route `json:"route"`
}

type createPlanResponse struct {
	Plan    *domain.PlanRequest `json:"plan"`
	Account *domain.Account     `json:"account"`
}

func (h *PlanHandler) create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicleID := strings.ToUpper(strings.TrimSpace(req.VehicleID))
	if !domain.ValidVehicleID(vehicleID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id must be a 10-character alphanumeric token"})
		return
	}
	if err := req.Route.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.WindowEnd.After(req.WindowStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_end must be after window_start"})
		return
	}

	plan, account, err := h.service.Create(c.Request.Context(), plans.CreatePlanInput{
		OwnerEmail:  callerEmail(c),
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		VehicleID:   vehicleID,
		Route:       req.Route,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createPlanResponse{Plan: plan, Account: account})
}

func (h *PlanHandler) list(c *gin.Context) {
	input, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.List(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	format := strings.ToLower(c.Query("format"))
	switch format {
	case "":
		c.JSON(http.StatusOK, gin.H{"plans": result})
	case "json":
		c.Header("Content-Disposition", `attachment; filename="navigation-plans.json"`)
		c.IndentedJSON(http.StatusOK, result)
	case "xml":
		c.Header("Content-Disposition", `attachment; filename="navigation-plans.xml"`)
		c.XML(http.StatusOK, toPlanExport(result))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or xml"})
	}
}

func (h *PlanHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	plan, err := h.service.Cancel(c.Request.Context(), callerEmail(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

type reviewPlanRequest struct {
	Decision   string `json:"decision"`
	Motivation string `json:"motivation"`
}

func (h *PlanHandler) review(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req reviewPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.service.Review(c.Request.Context(), plans.ReviewInput{
		Reviewer:   callerEmail(c),
		PlanID:     id,
		Decision:   domain.ReviewDecision(req.Decision),
		Motivation: req.Motivation,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func parseListQuery(c *gin.Context) (plans.ListInput, error) {
	input := plans.ListInput{}

	// Owners see only their own plans; operators get the unscoped view.
	if callerRole(c) != roleOperator {
		input.OwnerEmail = callerEmail(c)
	}

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := domain.PlanStatus(strings.TrimSpace(s))
			switch status {
			case domain.PlanStatusPending, domain.PlanStatusApproved, domain.PlanStatusRejected, domain.PlanStatusCancelled:
				input.StatusIn = append(input.StatusIn, status)
			default:
				return input, errInvalidQuery("status")
			}
		}
	}

	var err error
	if input.SubmittedFrom, err = parseDateQuery(c, "dateFrom"); err != nil {
		return input, err
	}
	if input.SubmittedTo, err = parseDateQuery(c, "dateTo"); err != nil {
		return input, err
	}
	if input.SubmittedFrom != nil && input.SubmittedTo != nil && input.SubmittedTo.Before(*input.SubmittedFrom) {
		return input, errInvalidQuery("dateTo")
	}
	return input, nil
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errInvalidQuery(name)
	}
	return &t, nil
}

type queryError string

func errInvalidQuery(field string) error {
	return queryError(field)
}

func (e queryError) Error() string {
	return "invalid query parameter: " + string(e)
}

// Export DTOs for the downloadable document formats.

type planExportList struct {
	XMLName xml.Name     `xml:"plans" json:"-"`
	Plans   []planExport `xml:"plan"`
}

type planExport struct {
	ID          int64         `xml:"id"`
	OwnerEmail  string        `xml:"ownerEmail"`
	Status      string        `xml:"status"`
	Motivation  string        `xml:"motivation,omitempty"`
	SubmittedAt string        `xml:"submittedAt"`
	WindowStart string        `xml:"windowStart"`
	WindowEnd   string        `xml:"windowEnd"`
	VehicleID   string        `xml:"vehicleId"`
	Route       []pointExport `xml:"route>point"`
}

type pointExport struct {
	Lon float64 `xml:"lon,attr"`
	Lat float64 `xml:"lat,attr"`
}

func toPlanExport(result []domain.PlanRequest) planExportList {
	out := planExportList{Plans: make([]planExport, 0, len(result))}
	for _, p := range result {
		route := make([]pointExport, 0, len(p.Route))
		for _, pt := range p.Route {
			route = append(route, pointExport{Lon: pt.Lon, Lat: pt.Lat})
		}
		out.Plans = append(out.Plans, planExport{
			ID:          p.ID,
			OwnerEmail:  p.OwnerEmail,
			Status:      string(p.Status),
			Motivation:  p.Motivation,
			SubmittedAt: p.SubmittedAt.Format(time.RFC3339),
			WindowStart: p.WindowStart.Format(time.RFC3339),
			WindowEnd:   p.WindowEnd.Format(time.RFC3339),
			VehicleID:   p.VehicleID,
			Route:       route,
		})
	}
	return out
}
