package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/database"
	"github.com/go-while/go-blogleaf/internal/models"
)

// newTestServer builds a server over a fresh temp-dir database.
// A file-backed DB is used instead of :memory: because each pooled
// connection would otherwise see its own empty in-memory database.
func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := database.DefaultDBConfig()
	cfg.MainDB = filepath.Join(t.TempDir(), "test.sq3")
	db, err := database.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Shutdown() })

	webConfig := &config.WebConfig{
		ListenPort:    11990,
		SessionSecret: "test-session-secret",
	}
	return NewServer(db, webConfig)
}

// testClient drives the router through httptest while carrying session
// cookies across requests, like a browser would.
type testClient struct {
	t       *testing.T
	server  *WebServer
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, server *WebServer) *testClient {
	return &testClient{t: t, server: server, cookies: make(map[string]*http.Cookie)}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	tc.t.Helper()
	for _, ck := range tc.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	tc.server.Router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(tc.cookies, ck.Name)
			continue
		}
		tc.cookies[ck.Name] = ck
	}
	return w
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	tc.t.Helper()
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

// register signs a user up through the real handler so session state and
// user IDs behave exactly as in production.
func (tc *testClient) register(email, password, name string) *httptest.ResponseRecorder {
	tc.t.Helper()
	return tc.postForm("/register", url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	})
}

func (tc *testClient) login(email, password string) *httptest.ResponseRecorder {
	tc.t.Helper()
	return tc.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func (tc *testClient) createPost(title, subtitle, body string) *httptest.ResponseRecorder {
	tc.t.Helper()
	return tc.postForm("/new-post", url.Values{
		"title":    {title},
		"subtitle": {subtitle},
		"img_url":  {"https://example.com/img.jpg"},
		"body":     {body},
	})
}

func wantRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body: %.200s)", w.Code, http.StatusSeeOther, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("redirect location = %q, want %q", got, location)
	}
}

func TestPing(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	w := tc.get("/ping")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("GET /ping = %d %q, want 200 pong", w.Code, w.Body.String())
	}
}

func TestHomePageEmpty(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	w := tc.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No posts yet") {
		t.Fatal("empty listing should say there are no posts")
	}
}

func TestRegisterAutoLogin(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	wantRedirect(t, tc.register("alice@example.com", "secret123", "Alice"), "/")

	// The session from registration must already be authenticated
	w := tc.get("/")
	body := w.Body.String()
	if !strings.Contains(body, "Alice") || !strings.Contains(body, "Log Out") {
		t.Fatalf("listing after registration should show the logged-in user, got: %.300s", body)
	}

	users, err := server.DB.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != 1 {
		t.Fatalf("expected exactly one user with ID 1, got %d users", len(users))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	server := newTestServer(t)
	first := newTestClient(t, server)
	wantRedirect(t, first.register("alice@example.com", "secret123", "Alice"), "/")

	second := newTestClient(t, server)
	wantRedirect(t, second.register("alice@example.com", "other456", "Impostor"), "/login")

	// The login page the duplicate lands on carries the warning flash
	w := second.get("/login")
	if !strings.Contains(w.Body.String(), "already signed up with that email") {
		t.Fatalf("login page should show the duplicate-email flash, got: %.300s", w.Body.String())
	}

	users, err := server.DB.GetAllUsers()
	if err != nil {
		t.Fatalf("GetAllUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("duplicate registration created a row: %d users", len(users))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)
	wantRedirect(t, tc.register("alice@example.com", "secret123", "Alice"), "/")
	tc.get("/logout")

	w := tc.login("alice@example.com", "wrongpass")
	if w.Code != http.StatusOK {
		t.Fatalf("wrong password login = %d, want 200 re-render", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect password") {
		t.Fatal("wrong password should re-render the form with a warning")
	}
}

func TestLoginUnknownEmailStaysSilent(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	w := tc.login("nobody@example.com", "whatever1")
	if w.Code != http.StatusOK {
		t.Fatalf("unknown email login = %d, want 200 re-render", w.Code)
	}
	// The form must not confirm whether the address is registered
	if strings.Contains(w.Body.String(), "Incorrect password") {
		t.Fatal("unknown email must not leak account existence")
	}
}

func TestLoginLogoutCycle(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)
	wantRedirect(t, tc.register("alice@example.com", "secret123", "Alice"), "/")
	wantRedirect(t, tc.get("/logout"), "/")

	// Logged out again: listing shows the anonymous nav
	if body := tc.get("/").Body.String(); !strings.Contains(body, "Log In") {
		t.Fatal("listing after logout should offer login")
	}

	wantRedirect(t, tc.login("alice@example.com", "secret123"), "/")
	if body := tc.get("/").Body.String(); !strings.Contains(body, "Log Out") {
		t.Fatal("listing after login should show the session")
	}
}

func TestLogoutRequiresSession(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	// Anonymous logout hits the auth guard, not the handler
	wantRedirect(t, tc.get("/logout"), "/login")
}

func TestFirstUserIsAdmin(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")

	// Admin sees the management links and can open the post form
	if body := admin.get("/").Body.String(); !strings.Contains(body, "New Post") {
		t.Fatal("admin nav should link to the post form")
	}
	if w := admin.get("/new-post"); w.Code != http.StatusOK {
		t.Fatalf("GET /new-post as admin = %d, want 200", w.Code)
	}

	second := newTestClient(t, server)
	wantRedirect(t, second.register("bob@example.com", "secret123", "Bob"), "/")

	// Second account is a plain user: guard denies silently
	if body := second.get("/").Body.String(); strings.Contains(body, "New Post") {
		t.Fatal("non-admin nav must not show management links")
	}
	wantRedirect(t, second.get("/new-post"), "/")
	wantRedirect(t, second.get("/contact"), "/")
}

func TestNonAdminCannotCreatePost(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")

	bob := newTestClient(t, server)
	wantRedirect(t, bob.register("bob@example.com", "secret123", "Bob"), "/")

	wantRedirect(t, bob.createPost("Sneaky", "sub", "<p>body</p>"), "/")

	posts, err := server.DB.GetAllPosts()
	if err != nil {
		t.Fatalf("GetAllPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("non-admin write went through: %d posts", len(posts))
	}
}

func TestAdminCreatePostVisibleOnListing(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")

	wantRedirect(t, admin.createPost("T1", "a subtitle", "<p>hello world</p>"), "/")

	body := admin.get("/").Body.String()
	if !strings.Contains(body, "T1") {
		t.Fatal("listing should show the new post title")
	}
	today := time.Now().Format(models.PubDateFormat)
	if !strings.Contains(body, today) {
		t.Fatalf("listing should show today's publish date %q", today)
	}
	if !strings.Contains(body, "Admin") {
		t.Fatal("listing should show the author display name")
	}
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("T1", "sub", "<p>one</p>"), "/")

	w := admin.createPost("T1", "sub", "<p>two</p>")
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate title = %d, want 200 re-render", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatal("duplicate title should re-render the form with a warning")
	}

	posts, err := server.DB.GetAllPosts()
	if err != nil {
		t.Fatalf("GetAllPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("duplicate title created a row: %d posts", len(posts))
	}
}

// Concurrent edits of the same post are last-write-wins: there is no
// version column, so two overlapping edit forms silently overwrite each
// other. With a single admin identity this stays a known limitation.
func TestEditPostPreservesDateAndAuthor(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("Original", "sub", "<p>one</p>"), "/")

	before, err := server.DB.GetPostByID(1)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}

	// Edit form comes pre-populated
	if body := admin.get("/edit-post/1").Body.String(); !strings.Contains(body, "Original") {
		t.Fatal("edit form should be pre-populated with the current title")
	}

	w := admin.postForm("/edit-post/1", url.Values{
		"title":    {"Renamed"},
		"subtitle": {"new sub"},
		"img_url":  {"https://example.com/new.jpg"},
		"body":     {"<p>two</p>"},
	})
	wantRedirect(t, w, "/post/1")

	after, err := server.DB.GetPostByID(1)
	if err != nil {
		t.Fatalf("GetPostByID after edit failed: %v", err)
	}
	if after.Title != "Renamed" || after.Body != "<p>two</p>" {
		t.Fatalf("edit not applied: %+v", after)
	}
	if after.Date != before.Date {
		t.Fatalf("publish date changed by edit: %q -> %q", before.Date, after.Date)
	}
	if after.AuthorID != before.AuthorID {
		t.Fatalf("author changed by edit: %d -> %d", before.AuthorID, after.AuthorID)
	}
}

func TestUnauthenticatedCommentRedirects(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("T1", "sub", "<p>body</p>"), "/")

	anon := newTestClient(t, server)
	wantRedirect(t, anon.postForm("/post/1", url.Values{"comment": {"drive-by"}}), "/login")

	// The drafted text is discarded, not stored
	comments, err := server.DB.GetCommentsByPostID(1)
	if err != nil {
		t.Fatalf("GetCommentsByPostID failed: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("unauthenticated comment was stored: %d comments", len(comments))
	}

	// And the login page explains why the caller landed there
	if body := anon.get("/login").Body.String(); !strings.Contains(body, "You need to login to comment") {
		t.Fatal("login page should show the comment-auth flash")
	}
}

func TestCommentFlow(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("T1", "sub", "<p>body</p>"), "/")

	alice := newTestClient(t, server)
	wantRedirect(t, alice.register("alice@example.com", "secret123", "Alice"), "/")

	wantRedirect(t, alice.postForm("/post/1", url.Values{"comment": {"nice post"}}), "/post/1")

	body := alice.get("/post/1").Body.String()
	if !strings.Contains(body, "nice post") || !strings.Contains(body, "Alice") {
		t.Fatalf("post page should show the comment with its author, got: %.400s", body)
	}
}

func TestEmptyCommentRejected(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("T1", "sub", "<p>body</p>"), "/")

	w := admin.postForm("/post/1", url.Values{"comment": {"   "}})
	if w.Code != http.StatusOK {
		t.Fatalf("empty comment = %d, want 200 re-render", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Comment text is required") {
		t.Fatal("empty comment should re-render the post page with a warning")
	}
}

func TestDeletePostCascades(t *testing.T) {
	server := newTestServer(t)
	admin := newTestClient(t, server)
	wantRedirect(t, admin.register("admin@example.com", "secret123", "Admin"), "/")
	wantRedirect(t, admin.createPost("Doomed", "sub", "<p>body</p>"), "/")

	alice := newTestClient(t, server)
	wantRedirect(t, alice.register("alice@example.com", "secret123", "Alice"), "/")
	wantRedirect(t, alice.postForm("/post/1", url.Values{"comment": {"one"}}), "/post/1")
	wantRedirect(t, alice.postForm("/post/1", url.Values{"comment": {"two"}}), "/post/1")

	wantRedirect(t, admin.get("/delete/1"), "/")

	if w := admin.get("/post/1"); w.Code != http.StatusNotFound {
		t.Fatalf("GET deleted post = %d, want 404", w.Code)
	}

	comments, err := server.DB.GetCommentsByPostID(1)
	if err != nil {
		t.Fatalf("GetCommentsByPostID failed: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("comments survived the cascade: %d", len(comments))
	}

	// Deleting the same ID again is a no-op with the same redirect
	wantRedirect(t, admin.get("/delete/1"), "/")
}

func TestMissingPostIs404(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	if w := tc.get("/post/42"); w.Code != http.StatusNotFound {
		t.Fatalf("GET missing post = %d, want 404", w.Code)
	}
	if w := tc.get("/post/notanumber"); w.Code != http.StatusNotFound {
		t.Fatalf("GET non-numeric post id = %d, want 404", w.Code)
	}
}

func TestStaticCSSServed(t *testing.T) {
	server := newTestServer(t)
	tc := newTestClient(t, server)

	w := tc.get("/static/css/blog.css")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /static/css/blog.css = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "body") {
		t.Fatal("stylesheet body looks empty")
	}
}
