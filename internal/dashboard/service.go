package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/uapconnect/backend/internal/events"
	"github.com/uapconnect/backend/internal/jobs"
	"github.com/uapconnect/backend/internal/posts"
	"github.com/uapconnect/backend/internal/profiles"
	"github.com/uapconnect/backend/internal/reports"
	"gorm.io/gorm"
)

const (
	recentWindow     = 7 * 24 * time.Hour
	userGrowthMonths = 6
)

// ServiceConfig describes the dependencies required by the dashboard service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
}

// Service computes read-only admin aggregates. Every aggregate tolerates an
// empty table and reports zeroes rather than failing.
type Service struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewService constructs the dashboard service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("dashboard: database connection required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{db: cfg.Database, clock: clock}, nil
}

// Stats summarizes platform-wide totals.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	VerifiedUsers int64 `json:"verified_users"`
	TotalPosts    int64 `json:"total_posts"`
	TotalEvents   int64 `json:"total_events"`
	TotalJobs     int64 `json:"total_jobs"`
	OpenReports   int64 `json:"open_reports"`
}

// Stats returns platform-wide totals.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.WithContext(ctx).Model(&profiles.Profile{})},
		{&stats.ActiveUsers, s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("is_active = ?", true)},
		{&stats.VerifiedUsers, s.db.WithContext(ctx).Model(&profiles.Profile{}).Where("is_verified = ?", true)},
		{&stats.TotalPosts, s.db.WithContext(ctx).Model(&posts.Post{})},
		{&stats.TotalEvents, s.db.WithContext(ctx).Model(&events.Event{})},
		{&stats.TotalJobs, s.db.WithContext(ctx).Model(&jobs.Job{})},
		{&stats.OpenReports, s.db.WithContext(ctx).Model(&reports.Report{}).Where("status = ?", reports.StatusOpen)},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			return Stats{}, fmt.Errorf("dashboard: count failed: %w", err)
		}
	}
	return stats, nil
}

// MonthlySignups is one calendar month's worth of new profiles.
type MonthlySignups struct {
	Month   string `json:"month"` // YYYY-MM
	Signups int64  `json:"signups"`
}

// UserGrowth captures signup momentum.
type UserGrowth struct {
	Monthly        []MonthlySignups `json:"monthly"`
	NewUsersLast7d int64            `json:"new_users_last_7_days"`
}

// UserGrowth returns signups per calendar month for the trailing window,
// zero-filled, plus the new-user count for the last seven days inclusive.
func (s *Service) UserGrowth(ctx context.Context) (UserGrowth, error) {
	now := s.clock().UTC()

	var all []profiles.Profile
	monthAnchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowStart := monthAnchor.AddDate(0, -(userGrowthMonths - 1), 0)
	if err := s.db.WithContext(ctx).
		Select("created_at").
		Where("created_at >= ?", windowStart).
		Find(&all).Error; err != nil {
		return UserGrowth{}, fmt.Errorf("dashboard: growth query failed: %w", err)
	}

	byMonth := make(map[string]int64, userGrowthMonths)
	sevenDaysAgo := now.Add(-recentWindow)
	growth := UserGrowth{}
	for _, profile := range all {
		createdAt := profile.CreatedAt.UTC()
		byMonth[createdAt.Format("2006-01")]++
		if !createdAt.Before(sevenDaysAgo) {
			growth.NewUsersLast7d++
		}
	}

	growth.Monthly = make([]MonthlySignups, 0, userGrowthMonths)
	// Month labels step from the first-of-month anchor; stepping from the
	// current instant mis-normalizes when the target month is shorter than
	// the current day-of-month.
	for offset := userGrowthMonths - 1; offset >= 0; offset-- {
		month := monthAnchor.AddDate(0, -offset, 0).Format("2006-01")
		growth.Monthly = append(growth.Monthly, MonthlySignups{
			Month:   month,
			Signups: byMonth[month],
		})
	}
	return growth, nil
}

// EventAnalytics aggregates events by status and type.
type EventAnalytics struct {
	ByStatus           map[string]int64 `json:"by_status"`
	ByType             map[string]int64 `json:"by_type"`
	TotalRegistrations int64            `json:"total_registrations"`
}

// EventAnalytics folds the event table into counts by category.
func (s *Service) EventAnalytics(ctx context.Context) (EventAnalytics, error) {
	var all []events.Event
	if err := s.db.WithContext(ctx).
		Select("status", "event_type", "registrations_count").
		Find(&all).Error; err != nil {
		return EventAnalytics{}, fmt.Errorf("dashboard: event query failed: %w", err)
	}

	analytics := EventAnalytics{
		ByStatus: map[string]int64{},
		ByType:   map[string]int64{},
	}
	for _, event := range all {
		analytics.ByStatus[event.Status]++
		analytics.ByType[event.EventType]++
		analytics.TotalRegistrations += event.RegistrationsCount
	}
	return analytics, nil
}

// JobAnalytics aggregates jobs by status, type and remote split.
type JobAnalytics struct {
	ByStatus       map[string]int64 `json:"by_status"`
	ByType         map[string]int64 `json:"by_type"`
	RemoteVsOnsite map[string]int64 `json:"remote_vs_onsite"`
}

// JobAnalytics folds the job table into counts by category.
func (s *Service) JobAnalytics(ctx context.Context) (JobAnalytics, error) {
	var all []jobs.Job
	if err := s.db.WithContext(ctx).
		Select("status", "job_type", "is_remote").
		Find(&all).Error; err != nil {
		return JobAnalytics{}, fmt.Errorf("dashboard: job query failed: %w", err)
	}

	analytics := JobAnalytics{
		ByStatus:       map[string]int64{},
		ByType:         map[string]int64{},
		RemoteVsOnsite: map[string]int64{"remote": 0, "onsite": 0},
	}
	for _, job := range all {
		analytics.ByStatus[job.Status]++
		analytics.ByType[job.JobType]++
		if job.IsRemote {
			analytics.RemoteVsOnsite["remote"]++
		} else {
			analytics.RemoteVsOnsite["onsite"]++
		}
	}
	return analytics, nil
}

// PostAnalytics aggregates posts and their engagement counters.
type PostAnalytics struct {
	ByType         map[string]int64 `json:"by_type"`
	TotalLikes     int64            `json:"total_likes"`
	TotalComments  int64            `json:"total_comments"`
	AvgEngagement  float64          `json:"avg_engagement"`
	PostsLast7Days int64            `json:"posts_last_7_days"`
}

// PostAnalytics folds the post table into engagement aggregates. Average
// engagement is (likes+comments)/posts rounded to two decimals, zero when no
// posts exist.
func (s *Service) PostAnalytics(ctx context.Context) (PostAnalytics, error) {
	var all []posts.Post
	if err := s.db.WithContext(ctx).
		Select("post_type", "likes_count", "comments_count", "created_at").
		Find(&all).Error; err != nil {
		return PostAnalytics{}, fmt.Errorf("dashboard: post query failed: %w", err)
	}

	analytics := PostAnalytics{ByType: map[string]int64{}}
	sevenDaysAgo := s.clock().UTC().Add(-recentWindow)
	for _, post := range all {
		analytics.ByType[post.PostType]++
		analytics.TotalLikes += post.LikesCount
		analytics.TotalComments += post.CommentsCount
		if !post.CreatedAt.UTC().Before(sevenDaysAgo) {
			analytics.PostsLast7Days++
		}
	}
	if len(all) > 0 {
		raw := float64(analytics.TotalLikes+analytics.TotalComments) / float64(len(all))
		analytics.AvgEngagement = math.Round(raw*100) / 100
	}
	return analytics, nil
}
