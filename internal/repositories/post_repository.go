package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/socialite-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostUpdate carries the mutable fields of a post. SetImage distinguishes an
// omitted image field from one explicitly cleared to null.
type PostUpdate struct {
	Content  string
	Image    *string
	SetImage bool
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	UpdatePost(ctx context.Context, id string, upd PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string, userID primitive.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, id string, comment *models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, id, commentID string, userID primitive.ObjectID) (*models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likers == nil {
		post.Likers = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves posts sorted by creation time descending, windowed by
// skip and limit.
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// UpdatePost applies the update to a post and returns the updated document
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, upd PostUpdate) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	set := bson.M{
		"content":    upd.Content,
		"updated_at": time.Now(),
	}
	if upd.SetImage {
		set["image"] = upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// DeletePost deletes a post by ID, embedded comments and likers included
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleLike removes the user from the likers set when present, otherwise adds
// them. Both branches are single atomic update statements, so concurrent
// toggles cannot lose updates the way a fetch-mutate-save cycle would.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id string, userID primitive.ObjectID) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// Unlike: matches only when the user is currently in the likers set.
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "likers": userID},
		bson.M{"$pull": bson.M{"likers": userID}, "$set": bson.M{"updated_at": time.Now()}},
		opts,
	).Decode(&post)
	if err == nil {
		return &post, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Like: $addToSet keeps the likers set duplicate-free.
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"likers": userID}, "$set": bson.M{"updated_at": time.Now()}},
		opts,
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// AddComment appends a comment to the post's comment sequence
func (r *MongoPostRepository) AddComment(ctx context.Context, id string, comment *models.Comment) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"comments": comment}, "$set": bson.M{"updated_at": time.Now()}},
		opts,
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// RemoveComment removes a comment by id, but only when userID authored it. The
// ownership check is read first to distinguish 404 from 403; the $pull filter
// repeats the owner condition so a concurrent edit can never remove someone
// else's comment.
func (r *MongoPostRepository) RemoveComment(ctx context.Context, id, commentID string, userID primitive.ObjectID) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, commentID)
	}

	var current models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&current)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	found := false
	for _, c := range current.Comments {
		if c.ID == commentObjID {
			if c.UserID != userID {
				return nil, ErrNotCommentOwner
			}
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCommentNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{
			"$pull": bson.M{"comments": bson.M{"_id": commentObjID, "user_id": userID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		opts,
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}
