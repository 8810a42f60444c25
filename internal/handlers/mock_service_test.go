package handlers

import (
	"context"
	"net/http"
	"sync"

	"microblog/internal/models"
	"microblog/internal/service"
	"microblog/internal/session"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAccounts struct {
	users       map[string]models.User
	registerErr error
	authErr     error
	currentErr  error

	registered    []string
	currentCalled int
}

func newMockAccounts(users ...models.User) *mockAccounts {
	m := &mockAccounts{users: map[string]models.User{}}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *mockAccounts) Register(ctx context.Context, username string) (models.User, error) {
	m.registered = append(m.registered, username)
	if m.registerErr != nil {
		return models.User{}, m.registerErr
	}
	u := models.User{ID: len(m.users) + 1, Username: username}
	m.users[username] = u
	return u, nil
}

func (m *mockAccounts) Authenticate(ctx context.Context, username string) (models.User, error) {
	if m.authErr != nil {
		return models.User{}, m.authErr
	}
	if username == "" {
		return models.User{}, service.ErrUsernameRequired
	}
	u, ok := m.users[username]
	if !ok {
		return models.User{}, service.ErrUserNotFound
	}
	return u, nil
}

func (m *mockAccounts) CurrentUser(ctx context.Context, s session.Session) (*models.User, error) {
	m.currentCalled++
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	id, ok := session.UserID(s)
	if !ok {
		return nil, nil
	}
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

// mockSessions maps tokens of the form "token-<username>" onto user ids.
type mockSessions struct {
	tokens   map[string]int
	startErr error
	endErr   error

	ended []string
}

func newMockSessions() *mockSessions {
	return &mockSessions{tokens: map[string]int{}}
}

func (m *mockSessions) Start(ctx context.Context, user models.User) (string, error) {
	if m.startErr != nil {
		return "", m.startErr
	}
	token := "token-" + user.Username
	m.tokens[token] = user.ID
	return token, nil
}

func (m *mockSessions) Resolve(ctx context.Context, token string) session.Session {
	id, ok := m.tokens[token]
	if !ok {
		return session.Anonymous{}
	}
	return session.Authenticated{ID: token, UserID: id}
}

func (m *mockSessions) End(ctx context.Context, token string) error {
	m.ended = append(m.ended, token)
	if m.endErr != nil {
		return m.endErr
	}
	delete(m.tokens, token)
	return nil
}

type mockPosts struct {
	mu        sync.Mutex
	posts     []models.Post
	createErr error
	feedErr   error
	likeLikes int
	likeErr   error
	deleteErr error

	created       []models.Post
	lastLikeID    int
	lastLiker     string
	likeCalls     int
	lastDeleteID  int
	lastRequester string
	deleteCalls   int
}

func (m *mockPosts) Create(ctx context.Context, author models.User, title, content string) (models.Post, error) {
	if m.createErr != nil {
		return models.Post{}, m.createErr
	}
	p := models.Post{ID: len(m.posts) + 1, Title: title, Content: content, Username: author.Username}
	m.posts = append(m.posts, p)
	m.created = append(m.created, p)
	return p, nil
}

func (m *mockPosts) Get(ctx context.Context, id int) (*models.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, nil
}

// add appends a post while a stream may be reading the feed.
func (m *mockPosts) add(p models.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, p)
}

func (m *mockPosts) Feed(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feedErr != nil {
		return nil, m.feedErr
	}
	out := make([]models.Post, 0, len(m.posts))
	for i := len(m.posts) - 1; i >= 0; i-- {
		out = append(out, m.posts[i])
	}
	return out, nil
}

func (m *mockPosts) ListByUser(ctx context.Context, username string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range m.posts {
		if p.Username == username {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPosts) Like(ctx context.Context, id int, liker string) (int, error) {
	m.likeCalls++
	m.lastLikeID = id
	m.lastLiker = liker
	return m.likeLikes, m.likeErr
}

func (m *mockPosts) Delete(ctx context.Context, id int, requester string) error {
	m.deleteCalls++
	m.lastDeleteID = id
	m.lastRequester = requester
	return m.deleteErr
}

type mockActivityLog struct {
	resp []models.Activity
	err  error
	last service.LogFilter
}

func (m *mockActivityLog) List(ctx context.Context, f service.LogFilter) ([]models.Activity, error) {
	m.last = f
	return m.resp, m.err
}

type mockAvatars struct {
	png []byte
	err error

	lastLetter string
	lastWidth  int
	lastHeight int
}

func (m *mockAvatars) Render(letter string, width, height int) ([]byte, error) {
	m.lastLetter, m.lastWidth, m.lastHeight = letter, width, height
	return m.png, m.err
}

// ---- Shared Test Helpers ----

type testServices struct {
	accounts *mockAccounts
	sessions *mockSessions
	posts    *mockPosts
	activity *mockActivityLog
	avatars  *mockAvatars
}

func newTestServices(users ...models.User) *testServices {
	return &testServices{
		accounts: newMockAccounts(users...),
		sessions: newMockSessions(),
		posts:    &mockPosts{},
		activity: &mockActivityLog{},
		avatars:  &mockAvatars{png: []byte("\x89PNG")},
	}
}

func (ts *testServices) service() *service.Service {
	return &service.Service{
		Accounts:    ts.accounts,
		Sessions:    ts.sessions,
		Posts:       ts.posts,
		ActivityLog: ts.activity,
		Avatars:     ts.avatars,
	}
}

// login registers a live session for u and returns its cookie.
func (ts *testServices) login(u models.User) *http.Cookie {
	token := "token-" + u.Username
	ts.sessions.tokens[token] = u.ID
	return &http.Cookie{Name: defaultCookieName, Value: token}
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}
