package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uapconnect/backend/internal/activity"
	"github.com/uapconnect/backend/internal/auth"
	"github.com/uapconnect/backend/internal/dashboard"
	"github.com/uapconnect/backend/internal/events"
	"github.com/uapconnect/backend/internal/jobs"
	"github.com/uapconnect/backend/internal/posts"
	"github.com/uapconnect/backend/internal/profiles"
	"github.com/uapconnect/backend/internal/reports"
	"github.com/uapconnect/backend/internal/server"
)

const (
	backendSigningSecret = "integration-secret"
	backendIssuer        = "alumni-auth"
	backendAudience      = "alumni-api"
	googleCredential     = "google-id-token"
	googleSubject        = "user-abc"
	googleEmail          = "user-abc@example.com"
	jsonContentType      = "application/json"
)

type fixedGoogleVerifier struct{}

func (fixedGoogleVerifier) Verify(_ context.Context, token string) (auth.GoogleClaims, error) {
	if token != googleCredential {
		return auth.GoogleClaims{}, fmt.Errorf("unexpected credential: %s", token)
	}
	return auth.GoogleClaims{Subject: googleSubject, Email: googleEmail}, nil
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func TestAuthAndFeedFlow(testContext *testing.T) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:integration_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		testContext.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&profiles.Profile{},
		&posts.Post{},
		&posts.PostLike{},
		&posts.PostComment{},
		&events.Event{},
		&events.EventRegistration{},
		&jobs.Job{},
		&reports.Report{},
		&activity.Record{},
	); err != nil {
		testContext.Fatalf("failed to migrate: %v", err)
	}

	profileService, err := profiles.NewService(profiles.ServiceConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build profile service: %v", err)
	}
	postService, err := posts.NewService(posts.ServiceConfig{
		Database:   db,
		IDProvider: posts.NewUUIDProvider(),
	})
	if err != nil {
		testContext.Fatalf("failed to build post service: %v", err)
	}
	eventService, err := events.NewService(events.ServiceConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build event service: %v", err)
	}
	jobService, err := jobs.NewService(jobs.ServiceConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build job service: %v", err)
	}
	reportService, err := reports.NewService(reports.ServiceConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build report service: %v", err)
	}
	activityRecorder, err := activity.NewRecorder(activity.RecorderConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build activity recorder: %v", err)
	}
	dashboardService, err := dashboard.NewService(dashboard.ServiceConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build dashboard service: %v", err)
	}

	tokenIssuer := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(backendSigningSecret),
		Issuer:        backendIssuer,
		Audience:      backendAudience,
	})

	handler, err := server.NewHTTPHandler(server.Dependencies{
		GoogleVerifier:   fixedGoogleVerifier{},
		TokenManager:     tokenIssuer,
		ProfileService:   profileService,
		PostService:      postService,
		EventService:     eventService,
		JobService:       jobService,
		ReportService:    reportService,
		ActivityRecorder: activityRecorder,
		DashboardService: dashboardService,
		Logger:           zap.NewNop(),
	})
	if err != nil {
		testContext.Fatalf("failed to build handler: %v", err)
	}

	testServer := httptest.NewServer(handler)
	defer testServer.Close()

	authBody, _ := json.Marshal(map[string]string{"id_token": googleCredential})
	authResp, err := http.Post(testServer.URL+"/auth/google", jsonContentType, bytes.NewReader(authBody))
	if err != nil {
		testContext.Fatalf("auth request failed: %v", err)
	}
	defer authResp.Body.Close()
	if authResp.StatusCode != http.StatusOK {
		testContext.Fatalf("unexpected auth status: %d", authResp.StatusCode)
	}
	var authEnvelope apiEnvelope
	if err := json.NewDecoder(authResp.Body).Decode(&authEnvelope); err != nil {
		testContext.Fatalf("failed to decode auth response: %v", err)
	}
	var tokenPayload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(authEnvelope.Data, &tokenPayload); err != nil {
		testContext.Fatalf("failed to decode token payload: %v", err)
	}
	if tokenPayload.AccessToken == "" || tokenPayload.TokenType != "Bearer" || tokenPayload.ExpiresIn <= 0 {
		testContext.Fatalf("unexpected token payload: %#v", tokenPayload)
	}

	profileBody, _ := json.Marshal(profiles.ProfileInput{
		FullName:       "Integration Alum",
		GraduationYear: 2018,
		Department:     "CSE",
	})
	profileEnvelope := doAuthorizedRequest(testContext, testServer.URL, http.MethodPost, "/api/profiles", tokenPayload.AccessToken, profileBody, http.StatusCreated)
	var createdProfile profiles.Profile
	if err := json.Unmarshal(profileEnvelope.Data, &createdProfile); err != nil {
		testContext.Fatalf("failed to decode profile: %v", err)
	}
	if createdProfile.ID != googleSubject {
		testContext.Fatalf("expected profile id %s, got %s", googleSubject, createdProfile.ID)
	}
	if createdProfile.Email != googleEmail {
		testContext.Fatalf("expected profile email %s, got %s", googleEmail, createdProfile.Email)
	}

	postBody, _ := json.Marshal(posts.PostInput{
		PostType: "general",
		Title:    "Hello",
		Content:  "First post from the integration flow",
	})
	postEnvelope := doAuthorizedRequest(testContext, testServer.URL, http.MethodPost, "/api/posts", tokenPayload.AccessToken, postBody, http.StatusCreated)
	var createdPost posts.Post
	if err := json.Unmarshal(postEnvelope.Data, &createdPost); err != nil {
		testContext.Fatalf("failed to decode post: %v", err)
	}
	if createdPost.ID == "" || createdPost.AuthorID != googleSubject {
		testContext.Fatalf("unexpected post row: %#v", createdPost)
	}

	doAuthorizedRequest(testContext, testServer.URL, http.MethodPost, "/api/posts/"+createdPost.ID+"/like", tokenPayload.AccessToken, nil, http.StatusOK)

	fetchEnvelope := doAuthorizedRequest(testContext, testServer.URL, http.MethodGet, "/api/posts/"+createdPost.ID, tokenPayload.AccessToken, nil, http.StatusOK)
	var fetchedPost posts.Post
	if err := json.Unmarshal(fetchEnvelope.Data, &fetchedPost); err != nil {
		testContext.Fatalf("failed to decode fetched post: %v", err)
	}
	if fetchedPost.LikesCount != 1 {
		testContext.Fatalf("expected likes count 1, got %d", fetchedPost.LikesCount)
	}
}

func doAuthorizedRequest(testContext *testing.T, baseURL, method, path, accessToken string, body []byte, wantStatus int) apiEnvelope {
	testContext.Helper()

	request, err := http.NewRequest(method, baseURL+path, bytes.NewReader(body))
	if err != nil {
		testContext.Fatalf("failed to build %s %s request: %v", method, path, err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Content-Type", jsonContentType)

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		testContext.Fatalf("%s %s request failed: %v", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != wantStatus {
		testContext.Fatalf("unexpected status for %s %s: got %d want %d", method, path, response.StatusCode, wantStatus)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		testContext.Fatalf("failed to decode %s %s response: %v", method, path, err)
	}
	return envelope
}
