package jobs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestCreateRequiresTitleAndCompany(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "user-1", JobInput{Company: "Acme"})
	if !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}

	_, err = service.Create(context.Background(), "user-1", JobInput{Title: "Engineer"})
	if !errors.Is(err, ErrMissingCompany) {
		t.Fatalf("expected ErrMissingCompany, got %v", err)
	}
}

func TestCreateForcesPoster(t *testing.T) {
	service, _ := newTestService(t)

	job, err := service.Create(context.Background(), "user-1", JobInput{
		Title:   "Backend Engineer",
		Company: "Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.PostedBy != "user-1" {
		t.Fatalf("expected poster user-1, got %s", job.PostedBy)
	}
}

func TestListFiltersCombine(t *testing.T) {
	service, _ := newTestService(t)
	seedJob(t, service, "user-1", JobInput{Title: "A", Company: "Acme", Status: "active", JobType: "full_time", IsRemote: true})
	seedJob(t, service, "user-1", JobInput{Title: "B", Company: "Acme", Status: "active", JobType: "full_time", IsRemote: false})
	seedJob(t, service, "user-1", JobInput{Title: "C", Company: "Acme", Status: "closed", JobType: "full_time", IsRemote: true})

	remote := true
	result, err := service.List(context.Background(), ListFilters{
		Status:   "active",
		JobType:  "full_time",
		IsRemote: &remote,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 job, got %d", len(result))
	}
	if result[0].Title != "A" {
		t.Fatalf("unexpected job %s", result[0].Title)
	}
}

func TestListWithoutMatchesReturnsEmptySlice(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.List(context.Background(), ListFilters{Status: "active"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestUpdateRejectsNonPoster(t *testing.T) {
	service, _ := newTestService(t)
	job := seedJob(t, service, "user-1", JobInput{Title: "Engineer", Company: "Acme"})

	title := "Hijacked"
	_, err := service.Update(context.Background(), job.ID, "user-2", JobPatch{Title: &title})
	if !errors.Is(err, ErrNotJobPoster) {
		t.Fatalf("expected ErrNotJobPoster, got %v", err)
	}
}

func TestUpdatePartialPayloadKeepsOtherFields(t *testing.T) {
	service, _ := newTestService(t)
	job := seedJob(t, service, "user-1", JobInput{
		Title:    "Engineer",
		Company:  "Acme",
		JobType:  "full_time",
		IsRemote: true,
	})

	status := "closed"
	updated, err := service.Update(context.Background(), job.ID, "user-1", JobPatch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != "closed" {
		t.Fatalf("expected status update, got %s", updated.Status)
	}
	if updated.Company != "Acme" {
		t.Fatalf("expected company to survive partial update, got %q", updated.Company)
	}
	if updated.JobType != "full_time" {
		t.Fatalf("expected job type to survive partial update, got %q", updated.JobType)
	}
	if !updated.IsRemote {
		t.Fatalf("expected remote flag to survive partial update")
	}
}

func TestUpdateRejectsBlankCompany(t *testing.T) {
	service, _ := newTestService(t)
	job := seedJob(t, service, "user-1", JobInput{Title: "Engineer", Company: "Acme"})

	blank := ""
	_, err := service.Update(context.Background(), job.ID, "user-1", JobPatch{Company: &blank})
	if !errors.Is(err, ErrMissingCompany) {
		t.Fatalf("expected ErrMissingCompany, got %v", err)
	}
}

func TestDeleteMissingJobIsNotFound(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Delete(context.Background(), "ghost", "user-1")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestDeleteByPosterRemovesRow(t *testing.T) {
	service, _ := newTestService(t)
	job := seedJob(t, service, "user-1", JobInput{Title: "Engineer", Company: "Acme"})

	if err := service.Delete(context.Background(), job.ID, "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Get(context.Background(), job.ID)
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func seedJob(t *testing.T, service *Service, posterID string, input JobInput) Job {
	t.Helper()
	job, err := service.Create(context.Background(), posterID, input)
	if err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}
	return job
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:jobs_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Job{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to construct job service: %v", err)
	}
	return service, db
}
