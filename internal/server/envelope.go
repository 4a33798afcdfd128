package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/activity"
	"github.com/uapconnect/backend/internal/events"
	"github.com/uapconnect/backend/internal/jobs"
	"github.com/uapconnect/backend/internal/posts"
	"github.com/uapconnect/backend/internal/profiles"
	"github.com/uapconnect/backend/internal/reports"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

const genericServerError = "internal server error"

// envelope is the uniform response wrapper returned by every endpoint.
type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *pageInfo   `json:"pagination,omitempty"`
}

type pageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newPageInfo(page, limit int, total int64) *pageInfo {
	return &pageInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int64(math.Ceil(float64(total) / float64(limit))),
	}
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondPage(c *gin.Context, data interface{}, page *pageInfo) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: page})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Error: message})
}

// mapServiceError translates the service error taxonomy onto HTTP statuses.
// Unknown faults are 500s; in the hardened configuration their detail is
// withheld from the client.
func (h *httpHandler) mapServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profiles.ErrProfileNotFound),
		errors.Is(err, posts.ErrPostNotFound),
		errors.Is(err, events.ErrEventNotFound),
		errors.Is(err, jobs.ErrJobNotFound),
		errors.Is(err, reports.ErrReportNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, profiles.ErrNotProfileOwner),
		errors.Is(err, posts.ErrNotPostOwner),
		errors.Is(err, events.ErrNotEventOrganizer),
		errors.Is(err, jobs.ErrNotJobPoster):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, profiles.ErrProfileExists),
		errors.Is(err, profiles.ErrInvalidRole),
		errors.Is(err, profiles.ErrEmptyStatusPatch),
		errors.Is(err, posts.ErrAlreadyLiked),
		errors.Is(err, posts.ErrMissingContent),
		errors.Is(err, events.ErrAlreadyRegistered),
		errors.Is(err, events.ErrMissingTitle),
		errors.Is(err, events.ErrMissingEventDate),
		errors.Is(err, jobs.ErrMissingTitle),
		errors.Is(err, jobs.ErrMissingCompany),
		errors.Is(err, reports.ErrMissingTarget),
		errors.Is(err, reports.ErrMissingReason),
		errors.Is(err, reports.ErrMissingStatus),
		errors.Is(err, activity.ErrMissingActivityType):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		message := genericServerError
		if !h.hardened {
			message = err.Error()
		}
		respondError(c, http.StatusInternalServerError, message)
	}
}

func parsePagination(c *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := raw == "true"
	return &value
}
