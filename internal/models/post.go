package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post stored in MongoDB. Comments and likers are embedded:
// every mutation of either is a single-document update on the posts collection.
type Post struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user_id" bson:"user_id"` // immutable owner reference
	Content   string               `json:"content" bson:"content"`
	Image     *string              `json:"image" bson:"image"`
	Likers    []primitive.ObjectID `json:"likers" bson:"likers"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string  `json:"content" validate:"required,max=2000"`
	Image   *string `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// A nil Image means the field was omitted and the stored value is kept; an
// explicit empty string clears it.
type UpdatePostRequest struct {
	Content string  `json:"content" validate:"required,max=2000"`
	Image   *string `json:"image"`
}
