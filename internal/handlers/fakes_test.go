package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
	"github.com/socialite-app/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostRepo is an in-memory PostRepository for handler tests.
type fakePostRepo struct {
	mu    sync.Mutex
	posts []models.Post
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likers == nil {
		post.Likers = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts = append(r.posts, *post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == objID {
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := make([]models.Post, len(r.posts))
	copy(sorted, r.posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if skip >= int64(len(sorted)) {
		return []models.Post{}, nil
	}
	end := skip + limit
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}
	return sorted[skip:end], nil
}

func (r *fakePostRepo) CountPosts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, upd repositories.PostUpdate) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == objID {
			r.posts[i].Content = upd.Content
			if upd.SetImage {
				r.posts[i].Image = upd.Image
			}
			r.posts[i].UpdatedAt = time.Now()
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == objID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

func (r *fakePostRepo) ToggleLike(_ context.Context, id string, userID primitive.ObjectID) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID != objID {
			continue
		}
		removed := false
		for j, liker := range r.posts[i].Likers {
			if liker == userID {
				r.posts[i].Likers = append(r.posts[i].Likers[:j], r.posts[i].Likers[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			r.posts[i].Likers = append(r.posts[i].Likers, userID)
		}
		p := r.posts[i]
		return &p, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) AddComment(_ context.Context, id string, comment *models.Comment) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == objID {
			comment.ID = primitive.NewObjectID()
			comment.CreatedAt = time.Now()
			r.posts[i].Comments = append(r.posts[i].Comments, *comment)
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) RemoveComment(_ context.Context, id, commentID string, userID primitive.ObjectID) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, id)
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", repositories.ErrInvalidID, commentID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID != objID {
			continue
		}
		for j, c := range r.posts[i].Comments {
			if c.ID == commentObjID {
				if c.UserID != userID {
					return nil, repositories.ErrNotCommentOwner
				}
				r.posts[i].Comments = append(r.posts[i].Comments[:j], r.posts[i].Comments[j+1:]...)
				p := r.posts[i]
				return &p, nil
			}
		}
		return nil, repositories.ErrCommentNotFound
	}
	return nil, repositories.ErrPostNotFound
}

// fakeUserRepo is an in-memory UserRepository for handler tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrDuplicateUser
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == firebaseUID {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

// testAuth stands in for the bearer middleware: the token is the user id hex.
func testAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
		}
		c.Set(middleware.ContextUserIDKey, strings.TrimPrefix(header, prefix))
		return next(c)
	}
}

type testEnv struct {
	e     *echo.Echo
	posts *fakePostRepo
	users *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	posts := &fakePostRepo{}
	users := newFakeUserRepo()

	api := e.Group("/api/v1")
	NewPostHandler(posts, users).RegisterPostRoutes(api, testAuth)
	NewCommentHandler(posts, users).RegisterCommentRoutes(api, testAuth)
	NewLikeHandler(posts, users).RegisterLikeRoutes(api, testAuth)

	return &testEnv{e: e, posts: posts, users: users}
}

func (env *testEnv) addUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := env.users.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (env *testEnv) addPost(t *testing.T, owner primitive.ObjectID, content string, createdAt time.Time) models.Post {
	t.Helper()
	post := models.Post{UserID: owner, Content: content}
	if err := env.posts.CreatePost(context.Background(), &post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	env.posts.mu.Lock()
	env.posts.posts[len(env.posts.posts)-1].CreatedAt = createdAt
	post.CreatedAt = createdAt
	env.posts.mu.Unlock()
	return post
}

func (env *testEnv) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}
