package posts

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type staticIDGenerator struct {
	ids   []string
	index int
}

func (g *staticIDGenerator) NewID() (string, error) {
	if g.index >= len(g.ids) {
		return "", errors.New("exhausted ids")
	}
	id := g.ids[g.index]
	g.index++
	return id, nil
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})

	_, err := service.Create(context.Background(), "user-1", PostInput{Title: "No body"})
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
}

func TestCreateForcesAuthor(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})

	post, err := service.Create(context.Background(), "user-1", PostInput{
		PostType: "general",
		Title:    "Hello",
		Content:  "First post",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != "post-1" {
		t.Fatalf("unexpected post id %s", post.ID)
	}
	if post.AuthorID != "user-1" {
		t.Fatalf("expected author user-1, got %s", post.AuthorID)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})
	seedPost(t, service, "user-1")

	content := "hijacked"
	_, err := service.Update(context.Background(), "post-1", "user-2", PostPatch{Content: &content})
	if !errors.Is(err, ErrNotPostOwner) {
		t.Fatalf("expected ErrNotPostOwner, got %v", err)
	}
}

func TestUpdateMissingPostIsNotFound(t *testing.T) {
	service, _ := newTestService(t, nil)

	content := "x"
	_, err := service.Update(context.Background(), "ghost", "user-1", PostPatch{Content: &content})
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdatePartialPayloadKeepsOtherFields(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})
	seedPost(t, service, "user-1")

	title := "Renamed"
	updated, err := service.Update(context.Background(), "post-1", "user-1", PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("expected title update, got %s", updated.Title)
	}
	if updated.Content != "Seed content" {
		t.Fatalf("expected content to survive partial update, got %q", updated.Content)
	}
	if updated.PostType != "general" {
		t.Fatalf("expected post type to survive partial update, got %q", updated.PostType)
	}
}

func TestUpdateRejectsBlankContent(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})
	seedPost(t, service, "user-1")

	blank := "  "
	_, err := service.Update(context.Background(), "post-1", "user-1", PostPatch{Content: &blank})
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
}

func TestLikeIncrementsCounterOnce(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "like-1"})
	seedPost(t, service, "user-1")

	if _, err := service.Like(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stored Post
	if err := db.Where("id = ?", "post-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.LikesCount != 1 {
		t.Fatalf("expected likes count 1, got %d", stored.LikesCount)
	}
}

func TestDoubleLikeRejectedAndCounterUnchanged(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "like-1", "like-2"})
	seedPost(t, service, "user-1")

	if _, err := service.Like(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := service.Like(context.Background(), "post-1", "user-2")
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	var stored Post
	if err := db.Where("id = ?", "post-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.LikesCount != 1 {
		t.Fatalf("expected likes count to stay 1, got %d", stored.LikesCount)
	}
}

func TestUnlikeWithoutLikeIsNoOp(t *testing.T) {
	service, db := newTestService(t, []string{"post-1"})
	seedPost(t, service, "user-1")

	if err := service.Unlike(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stored Post
	if err := db.Where("id = ?", "post-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.LikesCount != 0 {
		t.Fatalf("expected likes count to stay 0, got %d", stored.LikesCount)
	}
}

func TestUnlikeNeverDrivesCounterNegative(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "like-1"})
	seedPost(t, service, "user-1")
	if _, err := service.Like(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Simulate counter drift from an out-of-band write.
	if err := db.Model(&Post{}).Where("id = ?", "post-1").UpdateColumn("likes_count", 0).Error; err != nil {
		t.Fatalf("failed to force counter: %v", err)
	}

	if err := service.Unlike(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stored Post
	if err := db.Where("id = ?", "post-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.LikesCount != 0 {
		t.Fatalf("expected clamped counter 0, got %d", stored.LikesCount)
	}
}

func TestAddCommentBumpsCounter(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "comment-1"})
	seedPost(t, service, "user-1")

	comment, err := service.AddComment(context.Background(), "post-1", "user-2", "Nice one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.AuthorID != "user-2" {
		t.Fatalf("expected comment author user-2, got %s", comment.AuthorID)
	}

	var stored Post
	if err := db.Where("id = ?", "post-1").Take(&stored).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	if stored.CommentsCount != 1 {
		t.Fatalf("expected comments count 1, got %d", stored.CommentsCount)
	}
}

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	service, _ := newTestService(t, []string{"post-1"})
	seedPost(t, service, "user-1")

	_, err := service.AddComment(context.Background(), "post-1", "user-2", "   ")
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
}

func TestDeleteRemovesLikesAndComments(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "like-1", "comment-1"})
	seedPost(t, service, "user-1")
	if _, err := service.Like(context.Background(), "post-1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.AddComment(context.Background(), "post-1", "user-2", "Bye"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.Delete(context.Background(), "post-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, model := range map[string]interface{}{
		"posts":    &Post{},
		"likes":    &PostLike{},
		"comments": &PostComment{},
	} {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			t.Fatalf("failed to count %s: %v", name, err)
		}
		if count != 0 {
			t.Fatalf("expected no %s rows after delete, got %d", name, count)
		}
	}
}

func TestListCommentsOldestFirst(t *testing.T) {
	service, db := newTestService(t, []string{"post-1", "comment-1", "comment-2"})
	seedPost(t, service, "user-1")
	first, err := service.AddComment(context.Background(), "post-1", "user-2", "first")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.AddComment(context.Background(), "post-1", "user-3", "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Force distinct timestamps; sqlite stores second precision by default.
	if err := db.Model(&PostComment{}).Where("id = ?", first.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("failed to adjust timestamp: %v", err)
	}

	comments, err := service.ListComments(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("unexpected order: %s then %s", comments[0].ID, comments[1].ID)
	}
}

func seedPost(t *testing.T, service *Service, authorID string) Post {
	t.Helper()
	post, err := service.Create(context.Background(), authorID, PostInput{
		PostType: "general",
		Title:    "Seed",
		Content:  "Seed content",
	})
	if err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func newTestService(t *testing.T, ids []string) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:posts_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Post{}, &PostLike{}, &PostComment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: &staticIDGenerator{ids: ids},
	})
	if err != nil {
		t.Fatalf("failed to construct post service: %v", err)
	}
	return service, db
}
