package handlers

import (
	"context"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentView is a comment with its author resolved to a public user projection.
type CommentView struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// PostView is a post with the owning user and every comment author resolved.
type PostView struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	Comments []CommentView      `json:"comments"`
}

// buildPostViews resolves the user references of a batch of posts with a
// single users query.
func buildPostViews(ctx context.Context, users repositories.UserRepository, posts []models.Post) ([]PostView, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, p := range posts {
		idSet[p.UserID] = struct{}{}
		for _, c := range p.Comments {
			idSet[c.UserID] = struct{}{}
		}
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	userMap, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = makePostView(p, userMap)
	}
	return views, nil
}

// buildPostView resolves the user references of a single post.
func buildPostView(ctx context.Context, users repositories.UserRepository, post *models.Post) (*PostView, error) {
	views, err := buildPostViews(ctx, users, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func makePostView(p models.Post, userMap map[primitive.ObjectID]models.User) PostView {
	comments := make([]CommentView, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = CommentView{
			Comment: c,
			Author:  compactFor(c.UserID, userMap),
		}
	}
	return PostView{
		Post:     p,
		Author:   compactFor(p.UserID, userMap),
		Comments: comments,
	}
}

// compactFor keeps the raw owner id visible even when the user document is gone.
func compactFor(id primitive.ObjectID, userMap map[primitive.ObjectID]models.User) models.UserCompact {
	if u, ok := userMap[id]; ok {
		return u.ToCompact()
	}
	return models.UserCompact{ID: id}
}
