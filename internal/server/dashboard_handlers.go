package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/activity"
	"github.com/uapconnect/backend/internal/profiles"
	"github.com/uapconnect/backend/internal/reports"
)

func (h *httpHandler) handleStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

func (h *httpHandler) handleUserGrowth(c *gin.Context) {
	growth, err := h.dashboard.UserGrowth(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, growth)
}

func (h *httpHandler) handleRecentActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.activity.Recent(c.Request.Context(), limit)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	page, limit := parsePagination(c)

	filters := profiles.UserFilters{
		IsActive:   parseBoolQuery(c, "is_active"),
		IsVerified: parseBoolQuery(c, "is_verified"),
	}
	if raw := c.Query("role"); raw != "" {
		role, ok := profiles.ParseRole(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid role")
			return
		}
		filters.Role = &role
	}

	result, total, err := h.profiles.ListUsers(c.Request.Context(), page, limit, filters)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondPage(c, result, newPageInfo(page, limit, total))
}

type roleRequestPayload struct {
	Role string `json:"role"`
}

func (h *httpHandler) handleUpdateUserRole(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var request roleRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	role, valid := profiles.ParseRole(request.Role)
	if !valid {
		respondError(c, http.StatusBadRequest, "invalid role")
		return
	}

	profile, err := h.profiles.SetRole(c.Request.Context(), c.Param("id"), role, identity.UserID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

func (h *httpHandler) handleUpdateUserStatus(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var patch profiles.StatusPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profiles.SetStatus(c.Request.Context(), c.Param("id"), patch, identity.UserID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

func (h *httpHandler) handleListReports(c *gin.Context) {
	filters := reports.ListFilters{
		Status:     c.Query("status"),
		ReportType: c.Query("report_type"),
	}

	result, err := h.reports.List(c.Request.Context(), filters)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}

func (h *httpHandler) handleCreateReport(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var input reports.ReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reports.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, report)
}

type reportStatusPayload struct {
	Status string `json:"status"`
}

func (h *httpHandler) handleUpdateReport(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var request reportStatusPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reports.SetStatus(c.Request.Context(), c.Param("id"), request.Status, identity.UserID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

func (h *httpHandler) handleEventAnalytics(c *gin.Context) {
	analytics, err := h.dashboard.EventAnalytics(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, analytics)
}

func (h *httpHandler) handleJobAnalytics(c *gin.Context) {
	analytics, err := h.dashboard.JobAnalytics(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, analytics)
}

func (h *httpHandler) handlePostAnalytics(c *gin.Context) {
	analytics, err := h.dashboard.PostAnalytics(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, analytics)
}

type activityRequestPayload struct {
	ActivityType    string                 `json:"activity_type"`
	ActivityDetails map[string]interface{} `json:"activity_details"`
}

func (h *httpHandler) handleRecordActivity(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var request activityRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.activity.Record(c.Request.Context(), activity.Entry{
		UserID:       identity.UserID,
		ActivityType: request.ActivityType,
		Details:      request.ActivityDetails,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.mapServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, record)
}
