package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in the users collection.
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"` // bcrypt hash, never serialized
	FirebaseUID string             `json:"-" bson:"firebase_uid,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// UserCompact is the public projection of a user attached to posts and comments.
type UserCompact struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// ToCompact returns the public projection of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username}
}

// RegisterRequest defines the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
