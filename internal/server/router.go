package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uapconnect/backend/internal/activity"
	"github.com/uapconnect/backend/internal/auth"
	"github.com/uapconnect/backend/internal/dashboard"
	"github.com/uapconnect/backend/internal/events"
	"github.com/uapconnect/backend/internal/jobs"
	"github.com/uapconnect/backend/internal/posts"
	"github.com/uapconnect/backend/internal/profiles"
	"github.com/uapconnect/backend/internal/reports"
	"go.uber.org/zap"
)

const apiVersion = "1.0.0"

var (
	errMissingGoogleVerifier  = errors.New("google verifier dependency required")
	errMissingTokenManager    = errors.New("token manager dependency required")
	errMissingProfileService  = errors.New("profile service dependency required")
	errMissingPostService     = errors.New("post service dependency required")
	errMissingEventService    = errors.New("event service dependency required")
	errMissingJobService      = errors.New("job service dependency required")
	errMissingReportService   = errors.New("report service dependency required")
	errMissingActivityService = errors.New("activity recorder dependency required")
	errMissingDashboard       = errors.New("dashboard service dependency required")
)

// GoogleVerifier verifies identity-provider credentials.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (auth.GoogleClaims, error)
}

// BackendTokenManager issues and validates backend bearer tokens.
type BackendTokenManager interface {
	IssueBackendToken(ctx context.Context, claims auth.GoogleClaims) (string, int64, error)
	ValidateToken(token string) (auth.Identity, error)
}

// RoleResolver resolves a verified identity to its privilege tier.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (profiles.Role, error)
}

// Dependencies lists everything the HTTP surface needs.
type Dependencies struct {
	GoogleVerifier   GoogleVerifier
	TokenManager     BackendTokenManager
	ProfileService   *profiles.Service
	PostService      *posts.Service
	EventService     *events.Service
	JobService       *jobs.Service
	ReportService    *reports.Service
	ActivityRecorder *activity.Recorder
	DashboardService *dashboard.Service
	Logger           *zap.Logger
	AllowedOrigins   []string
	Hardened         bool
}

// NewHTTPHandler builds the gin router with all routes and guards wired.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.GoogleVerifier == nil {
		return nil, errMissingGoogleVerifier
	}
	if deps.TokenManager == nil {
		return nil, errMissingTokenManager
	}
	if deps.ProfileService == nil {
		return nil, errMissingProfileService
	}
	if deps.PostService == nil {
		return nil, errMissingPostService
	}
	if deps.EventService == nil {
		return nil, errMissingEventService
	}
	if deps.JobService == nil {
		return nil, errMissingJobService
	}
	if deps.ReportService == nil {
		return nil, errMissingReportService
	}
	if deps.ActivityRecorder == nil {
		return nil, errMissingActivityService
	}
	if deps.DashboardService == nil {
		return nil, errMissingDashboard
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	allowedOrigins := deps.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		verifier:  deps.GoogleVerifier,
		tokens:    deps.TokenManager,
		roles:     deps.ProfileService,
		profiles:  deps.ProfileService,
		posts:     deps.PostService,
		events:    deps.EventService,
		jobs:      deps.JobService,
		reports:   deps.ReportService,
		activity:  deps.ActivityRecorder,
		dashboard: deps.DashboardService,
		logger:    logger,
		hardened:  deps.Hardened,
	}

	router.GET("/", handler.handleIndex)
	router.POST("/auth/google", handler.handleGoogleAuth)

	api := router.Group("/api")
	api.Use(handler.authorizeRequest)

	profilesGroup := api.Group("/profiles")
	profilesGroup.GET("", handler.handleListProfiles)
	profilesGroup.POST("", handler.handleCreateProfile)
	profilesGroup.GET("/search/alumni", handler.handleSearchAlumni)
	profilesGroup.GET("/:id", handler.handleGetProfile)
	profilesGroup.PUT("/:id", handler.handleUpdateProfile)

	eventsGroup := api.Group("/events")
	eventsGroup.GET("", handler.handleListEvents)
	eventsGroup.POST("", handler.handleCreateEvent)
	eventsGroup.GET("/:id", handler.handleGetEvent)
	eventsGroup.PUT("/:id", handler.handleUpdateEvent)
	eventsGroup.DELETE("/:id", handler.handleDeleteEvent)
	eventsGroup.POST("/:id/register", handler.handleRegisterEvent)
	eventsGroup.DELETE("/:id/register", handler.handleUnregisterEvent)

	jobsGroup := api.Group("/jobs")
	jobsGroup.GET("", handler.handleListJobs)
	jobsGroup.POST("", handler.handleCreateJob)
	jobsGroup.GET("/:id", handler.handleGetJob)
	jobsGroup.PUT("/:id", handler.handleUpdateJob)
	jobsGroup.DELETE("/:id", handler.handleDeleteJob)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", handler.handleListPosts)
	postsGroup.POST("", handler.handleCreatePost)
	postsGroup.GET("/:id", handler.handleGetPost)
	postsGroup.PUT("/:id", handler.handleUpdatePost)
	postsGroup.DELETE("/:id", handler.handleDeletePost)
	postsGroup.POST("/:id/like", handler.handleLikePost)
	postsGroup.DELETE("/:id/like", handler.handleUnlikePost)
	postsGroup.GET("/:id/comments", handler.handleListComments)
	postsGroup.POST("/:id/comments", handler.handleAddComment)

	dashboardGroup := api.Group("/dashboard")
	dashboardGroup.POST("/reports", handler.handleCreateReport)
	dashboardGroup.POST("/activity", handler.handleRecordActivity)

	adminGroup := dashboardGroup.Group("")
	adminGroup.Use(handler.requireAdmin)
	adminGroup.GET("/stats", handler.handleStats)
	adminGroup.GET("/user-growth", handler.handleUserGrowth)
	adminGroup.GET("/recent-activity", handler.handleRecentActivity)
	adminGroup.GET("/users", handler.handleListUsers)
	adminGroup.PUT("/users/:id/status", handler.handleUpdateUserStatus)
	adminGroup.GET("/reports", handler.handleListReports)
	adminGroup.PUT("/reports/:id", handler.handleUpdateReport)
	adminGroup.GET("/events/analytics", handler.handleEventAnalytics)
	adminGroup.GET("/jobs/analytics", handler.handleJobAnalytics)
	adminGroup.GET("/posts/analytics", handler.handlePostAnalytics)

	superAdminGroup := dashboardGroup.Group("")
	superAdminGroup.Use(handler.requireSuperAdmin)
	superAdminGroup.PUT("/users/:id/role", handler.handleUpdateUserRole)

	return router, nil
}

type httpHandler struct {
	verifier  GoogleVerifier
	tokens    BackendTokenManager
	roles     RoleResolver
	profiles  *profiles.Service
	posts     *posts.Service
	events    *events.Service
	jobs      *jobs.Service
	reports   *reports.Service
	activity  *activity.Recorder
	dashboard *dashboard.Service
	logger    *zap.Logger
	hardened  bool
}

func (h *httpHandler) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "UAP Alumni Connect API",
		"version": apiVersion,
		"endpoints": gin.H{
			"profiles":  "/api/profiles",
			"events":    "/api/events",
			"jobs":      "/api/jobs",
			"posts":     "/api/posts",
			"dashboard": "/api/dashboard",
		},
	})
}

type authRequestPayload struct {
	IDToken string `json:"id_token"`
}

type authResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleGoogleAuth(c *gin.Context) {
	var request authRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.IDToken) == "" {
		respondError(c, http.StatusBadRequest, "invalid_request")
		return
	}

	claims, err := h.verifier.Verify(c.Request.Context(), request.IDToken)
	if err != nil {
		h.logger.Warn("google token verification failed", zap.Error(err))
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	token, expiresIn, err := h.tokens.IssueBackendToken(c.Request.Context(), claims)
	if err != nil {
		h.logger.Error("failed to issue backend token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "token_issue_failed")
		return
	}

	respondData(c, http.StatusOK, authResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}
