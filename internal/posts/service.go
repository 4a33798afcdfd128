package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrPostNotFound indicates the requested post row is absent.
	ErrPostNotFound = errors.New("posts: post not found")
	// ErrNotPostOwner indicates the caller does not own the post.
	ErrNotPostOwner = errors.New("posts: caller is not the post owner")
	// ErrAlreadyLiked indicates a duplicate like by the same identity.
	ErrAlreadyLiked = errors.New("posts: already liked")
	// ErrMissingContent indicates a post or comment without content.
	ErrMissingContent = errors.New("posts: content required")
)

// ServiceConfig describes the dependencies required by the post service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service owns community posts and their like/comment sub-resources.
type Service struct {
	db         *gorm.DB
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService constructs the post service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("posts: database connection required")
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("posts: id provider required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: cfg.Database, idProvider: cfg.IDProvider, logger: logger}, nil
}

// List returns posts, newest first, optionally filtered by post type.
func (s *Service) List(ctx context.Context, postType string) ([]Post, error) {
	query := s.db.WithContext(ctx).Preload("Author")
	if postType != "" {
		query = query.Where("post_type = ?", postType)
	}

	result := make([]Post, 0)
	if err := query.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, fmt.Errorf("posts: list failed: %w", err)
	}
	return result, nil
}

// Get returns one post with its author and comments, or ErrPostNotFound.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	var post Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Where("id = ?", id).
		Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("posts: lookup failed: %w", err)
	}
	return post, nil
}

// Create inserts a post with the author forced to the acting identity.
func (s *Service) Create(ctx context.Context, actorID string, input PostInput) (Post, error) {
	if strings.TrimSpace(input.Content) == "" {
		return Post{}, ErrMissingContent
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		return Post{}, fmt.Errorf("posts: id generation failed: %w", err)
	}

	post := Post{
		ID:       id,
		AuthorID: actorID,
		PostType: strings.TrimSpace(input.PostType),
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return Post{}, fmt.Errorf("posts: insert failed: %w", err)
	}
	return post, nil
}

// Update applies the supplied caller-editable fields after the ownership
// check; fields absent from the patch keep their stored values. Counters are
// out of reach of this path.
func (s *Service) Update(ctx context.Context, id, actorID string, patch PostPatch) (Post, error) {
	if err := s.requireOwner(ctx, id, actorID); err != nil {
		return Post{}, err
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return Post{}, ErrMissingContent
	}

	updates := map[string]interface{}{}
	if patch.PostType != nil {
		updates["post_type"] = strings.TrimSpace(*patch.PostType)
	}
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}
	if patch.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*patch.ImageURL)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.db.WithContext(ctx).Model(&Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return Post{}, fmt.Errorf("posts: update failed: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the post and its like and comment rows after the ownership check.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if err := s.requireOwner(ctx, id, actorID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&PostLike{}).Error; err != nil {
			return fmt.Errorf("posts: like cleanup failed: %w", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&PostComment{}).Error; err != nil {
			return fmt.Errorf("posts: comment cleanup failed: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Post{}).Error; err != nil {
			return fmt.Errorf("posts: delete failed: %w", err)
		}
		return nil
	})
}

// Like records one like per identity. A second like by the same identity
// fails with ErrAlreadyLiked and leaves the counter untouched.
func (s *Service) Like(ctx context.Context, postID, actorID string) (PostLike, error) {
	if _, err := s.ownerOf(ctx, postID); err != nil {
		return PostLike{}, err
	}

	likeID, err := s.idProvider.NewID()
	if err != nil {
		return PostLike{}, fmt.Errorf("posts: id generation failed: %w", err)
	}

	like := PostLike{ID: likeID, PostID: postID, UserID: actorID}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, actorID).Take(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("posts: like lookup failed: %w", err)
		}
		if err := tx.Create(&like).Error; err != nil {
			return fmt.Errorf("posts: like insert failed: %w", err)
		}
		if err := tx.Model(&Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
			return fmt.Errorf("posts: like count update failed: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return PostLike{}, txErr
	}
	return like, nil
}

// Unlike removes the caller's like. When no like row exists it is a no-op and
// the counter stays put.
func (s *Service) Unlike(ctx context.Context, postID, actorID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", postID, actorID).Delete(&PostLike{})
		if result.Error != nil {
			return fmt.Errorf("posts: like delete failed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count",
				gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error; err != nil {
			return fmt.Errorf("posts: like count update failed: %w", err)
		}
		return nil
	})
}

// AddComment appends a comment and bumps the comment counter atomically.
func (s *Service) AddComment(ctx context.Context, postID, actorID, content string) (PostComment, error) {
	if strings.TrimSpace(content) == "" {
		return PostComment{}, ErrMissingContent
	}
	if _, err := s.ownerOf(ctx, postID); err != nil {
		return PostComment{}, err
	}

	commentID, err := s.idProvider.NewID()
	if err != nil {
		return PostComment{}, fmt.Errorf("posts: id generation failed: %w", err)
	}

	comment := PostComment{ID: commentID, PostID: postID, AuthorID: actorID, Content: content}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("posts: comment insert failed: %w", err)
		}
		if err := tx.Model(&Post{}).Where("id = ?", postID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return fmt.Errorf("posts: comment count update failed: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return PostComment{}, txErr
	}

	var stored PostComment
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", commentID).Take(&stored).Error; err != nil {
		return comment, nil
	}
	return stored, nil
}

// ListComments returns a post's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, postID string) ([]PostComment, error) {
	result := make([]PostComment, 0)
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, fmt.Errorf("posts: comment query failed: %w", err)
	}
	return result, nil
}

func (s *Service) requireOwner(ctx context.Context, id, actorID string) error {
	ownerID, err := s.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if ownerID != actorID {
		return ErrNotPostOwner
	}
	return nil
}

func (s *Service) ownerOf(ctx context.Context, id string) (string, error) {
	var post Post
	err := s.db.WithContext(ctx).Select("author_id").Where("id = ?", id).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("posts: owner lookup failed: %w", err)
	}
	return post.AuthorID, nil
}
