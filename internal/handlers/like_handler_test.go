package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func likersOf(t *testing.T, body []byte) []string {
	t.Helper()
	var resp struct {
		Likers []string `json:"likers"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("json parse: %v", err)
	}
	return resp.Likers
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	post := env.addPost(t, alice.ID, "likeable", time.Now())
	path := "/api/v1/posts/" + post.ID.Hex() + "/like"

	// First toggle likes
	rec := env.do(t, http.MethodPost, path, "", bob.ID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	likers := likersOf(t, rec.Body.Bytes())
	if len(likers) != 1 || likers[0] != bob.ID.Hex() {
		t.Fatalf("expected [%s], got %v", bob.ID.Hex(), likers)
	}

	// Second toggle from the same user unlikes
	rec = env.do(t, http.MethodPost, path, "", bob.ID.Hex())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if likers = likersOf(t, rec.Body.Bytes()); len(likers) != 0 {
		t.Fatalf("expected empty likers after second toggle, got %v", likers)
	}
}

func TestToggleLikeDistinctUsers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice")
	bob := env.addUser(t, "bob")
	carol := env.addUser(t, "carol")
	post := env.addPost(t, alice.ID, "popular", time.Now())
	path := "/api/v1/posts/" + post.ID.Hex() + "/like"

	env.do(t, http.MethodPost, path, "", bob.ID.Hex())
	rec := env.do(t, http.MethodPost, path, "", carol.ID.Hex())
	likers := likersOf(t, rec.Body.Bytes())
	if len(likers) != 2 {
		t.Fatalf("expected 2 likers, got %v", likers)
	}

	// Bob unliking leaves carol in place
	rec = env.do(t, http.MethodPost, path, "", bob.ID.Hex())
	likers = likersOf(t, rec.Body.Bytes())
	if len(likers) != 1 || likers[0] != carol.ID.Hex() {
		t.Fatalf("expected [%s], got %v", carol.ID.Hex(), likers)
	}
}

func TestToggleLikeMissingPost(t *testing.T) {
	env := newTestEnv(t)
	bob := env.addUser(t, "bob")
	rec := env.do(t, http.MethodPost, "/api/v1/posts/64b0c0ffee0ddba11ca11ab1/like", "", bob.ID.Hex())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestToggleLikeRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addUser(t, "alice")
	post := env.addPost(t, alice.ID, "likeable", time.Now())
	rec := env.do(t, http.MethodPost, "/api/v1/posts/"+post.ID.Hex()+"/like", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
