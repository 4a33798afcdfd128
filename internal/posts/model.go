package posts

import (
	"time"

	"github.com/uapconnect/backend/internal/profiles"
)

// Post is an owned resource: AuthorID is fixed at creation and only the owner
// may mutate or delete the row. Counters move exclusively through the
// like/comment sub-operations.
type Post struct {
	ID            string             `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	AuthorID      string             `gorm:"column:author_id;size:190;not null;index" json:"author_id"`
	PostType      string             `gorm:"column:post_type;size:64;index" json:"post_type"`
	Title         string             `gorm:"column:title;size:320" json:"title"`
	Content       string             `gorm:"column:content;type:text;not null" json:"content"`
	ImageURL      string             `gorm:"column:image_url;size:512" json:"image_url,omitempty"`
	LikesCount    int64              `gorm:"column:likes_count;not null;default:0" json:"likes_count"`
	CommentsCount int64              `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Author        *profiles.Profile  `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Comments      []PostComment      `gorm:"foreignKey:PostID;references:ID" json:"comments,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (Post) TableName() string {
	return "posts"
}

// PostLike is the join row backing the likes counter. One row per post+user.
type PostLike struct {
	ID        string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	PostID    string    `gorm:"column:post_id;size:190;not null;uniqueIndex:idx_post_likes_post_user,priority:1" json:"post_id"`
	UserID    string    `gorm:"column:user_id;size:190;not null;uniqueIndex:idx_post_likes_post_user,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName provides the explicit table binding for GORM.
func (PostLike) TableName() string {
	return "post_likes"
}

// PostComment belongs to a post; AuthorID is fixed at creation.
type PostComment struct {
	ID        string            `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	PostID    string            `gorm:"column:post_id;size:190;not null;index" json:"post_id"`
	AuthorID  string            `gorm:"column:author_id;size:190;not null" json:"author_id"`
	Content   string            `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Author    *profiles.Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (PostComment) TableName() string {
	return "post_comments"
}

// PostInput carries the caller-editable post fields.
type PostInput struct {
	PostType string `json:"post_type"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// PostPatch carries a partial owner update. Nil fields were not supplied by
// the client and leave the stored value untouched.
type PostPatch struct {
	PostType *string `json:"post_type"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}
