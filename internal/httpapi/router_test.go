package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drayac/Martin/internal/config"
	"github.com/drayac/Martin/internal/store/redisstore"
	"github.com/drayac/Martin/internal/store/userfile"
)

type upstream struct {
	mu      sync.Mutex
	reqs    [][]map[string]string
	reply   string
	status  int
	started chan struct{}
	release chan struct{}
}

// newUpstream fakes the ollama /api/chat endpoint.
func newUpstream(t *testing.T) (*upstream, *httptest.Server) {
	t.Helper()
	u := &upstream{reply: "Tell me more", status: http.StatusOK}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("upstream decode: %v", err)
		}
		u.mu.Lock()
		u.reqs = append(u.reqs, body.Messages)
		started := u.started
		release := u.release
		reply := u.reply
		status := u.status
		u.mu.Unlock()

		if started != nil {
			started <- struct{}{}
			<-release
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": reply},
		})
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func (u *upstream) lastRequest(t *testing.T) []map[string]string {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.reqs) == 0 {
		t.Fatalf("upstream received no requests")
	}
	return u.reqs[len(u.reqs)-1]
}

type envelope struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// client drives the router in-process, carrying the session cookie the way
// a browser would.
type client struct {
	t      *testing.T
	r      *gin.Engine
	cookie *http.Cookie
}

func (cl *client) do(method, path string, body any) (int, envelope) {
	cl.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			cl.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "martin_session" {
			cl.cookie = ck
		}
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		cl.t.Fatalf("decode envelope from %s %s: %v (body %q)", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func newTestClient(t *testing.T, upstreamURL string) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		SessionSecret:        "test-secret",
		SessionTTL:           time.Hour,
		UserCacheTTL:         0,
		GuestCleanupInterval: 10,
		HistoryLimit:         5,
		AIProvider:           "ollama",
		GroqAPIKey:           config.NoAPIKey,
		Model:                "llama-3.1-8b-instant",
		Temperature:          0.7,
		OllamaBaseURL:        upstreamURL,
		OllamaModel:          "llama-3.1-8b-instant",
		ModelCacheTTL:        time.Hour,
	}
	store := userfile.New(filepath.Join(t.TempDir(), "users.json"), 0, nil)
	r := NewRouter(cfg, nil, store, redisstore.New(nil, nil))
	return &client{t: t, r: r}
}

func TestSessionBootstrapsGuest(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodGet, "/api/session", nil)
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("session: status=%d code=%d", status, env.Code)
	}
	if cl.cookie == nil {
		t.Fatalf("expected a session cookie on first visit")
	}
	id, _ := env.Data["account_id"].(string)
	if !strings.HasPrefix(id, "Guest_") || len(id) != len("Guest_")+8 {
		t.Fatalf("unexpected guest id %q", id)
	}
	if env.Data["guest"] != true || env.Data["authenticated"] != true {
		t.Fatalf("expected an authenticated guest, got %v", env.Data)
	}
	labels, _ := env.Data["labels"].(map[string]any)
	if labels["title"] != "Martin - Your AI Psychologist" {
		t.Fatalf("unexpected title label %v", labels["title"])
	}

	// the cookie pins the identity across requests
	_, env2 := cl.do(http.MethodGet, "/api/session", nil)
	if env2.Data["account_id"] != id {
		t.Fatalf("identity changed across requests: %v != %v", env2.Data["account_id"], id)
	}
}

func TestChatRoundTrip(t *testing.T) {
	up, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodPost, "/api/chat", gin.H{"message": "I feel stressed"})
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("chat: status=%d code=%d message=%q", status, env.Code, env.Message)
	}
	reply, _ := env.Data["reply"].(string)
	if !strings.HasPrefix(reply, "It's wonderful to connect") {
		t.Fatalf("first reply should open with the welcome, got %q", reply)
	}
	if !strings.HasSuffix(reply, "\n\nTell me more") {
		t.Fatalf("first reply should end with the generated text, got %q", reply)
	}
	msgs := up.lastRequest(t)
	if len(msgs) != 2 || msgs[0]["role"] != "system" || msgs[1]["content"] != "I feel stressed" {
		t.Fatalf("unexpected upstream request %v", msgs)
	}

	status, env = cl.do(http.MethodPost, "/api/chat", gin.H{"message": "Work mostly"})
	if status != http.StatusOK {
		t.Fatalf("second chat: status=%d", status)
	}
	if reply, _ := env.Data["reply"].(string); reply != "Tell me more" {
		t.Fatalf("second reply should carry no welcome, got %q", reply)
	}
	if msgs := up.lastRequest(t); len(msgs) != 4 {
		t.Fatalf("second request should carry the full conversation, got %d messages", len(msgs))
	}

	_, env = cl.do(http.MethodGet, "/api/history", nil)
	entries, _ := env.Data["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	first, _ := entries[0].(map[string]any)
	if first["prompt"] != "I feel stressed" || first["model"] != "llama-3.1-8b-instant" {
		t.Fatalf("unexpected first entry %v", first)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodPost, "/api/chat", gin.H{"message": "   "})
	if status != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("expected 400/10002, got %d/%d", status, env.Code)
	}
}

func TestChatUpstreamFailureKeepsUserTurn(t *testing.T) {
	up, srv := newUpstream(t)
	up.status = http.StatusInternalServerError
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodPost, "/api/chat", gin.H{"message": "hello?"})
	if status != http.StatusBadGateway || env.Code != 50201 {
		t.Fatalf("expected 502/50201, got %d/%d", status, env.Code)
	}
	if !strings.Contains(env.Message, "status 500") {
		t.Fatalf("expected the upstream error surfaced, got %q", env.Message)
	}

	_, env = cl.do(http.MethodGet, "/api/session", nil)
	turns, _ := env.Data["turns"].([]any)
	if len(turns) != 1 {
		t.Fatalf("the user turn should survive the failure, got %d turns", len(turns))
	}
}

func TestChatRejectsConcurrentSubmission(t *testing.T) {
	up, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	// establish the session and cookie first
	cl.do(http.MethodGet, "/api/session", nil)

	up.mu.Lock()
	up.started = make(chan struct{})
	up.release = make(chan struct{})
	up.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		status, _ := cl.do(http.MethodPost, "/api/chat", gin.H{"message": "slow one"})
		if status != http.StatusOK {
			t.Errorf("in-flight request failed with %d", status)
		}
	}()

	<-up.started

	second := &client{t: t, r: cl.r, cookie: cl.cookie}
	status, env := second.do(http.MethodPost, "/api/chat", gin.H{"message": "impatient"})
	if status != http.StatusConflict || env.Code != 40901 {
		t.Fatalf("expected 409/40901 while a request is in flight, got %d/%d", status, env.Code)
	}

	close(up.release)
	wg.Wait()
}

func TestRegisterLoginLogout(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodPost, "/api/register", gin.H{"email": "ana@example.com", "password": "s3cret"})
	if status != http.StatusOK || env.Data["message"] != "Registration successful!" {
		t.Fatalf("register: status=%d data=%v", status, env.Data)
	}
	if env.Data["account_id"] != "ana@example.com" || env.Data["guest"] != false {
		t.Fatalf("register should switch the session to the member, got %v", env.Data)
	}

	status, env = cl.do(http.MethodPost, "/api/register", gin.H{"email": "ana@example.com", "password": "other"})
	if status != http.StatusConflict || env.Code != 10003 || env.Message != "User already exists" {
		t.Fatalf("duplicate register: status=%d code=%d message=%q", status, env.Code, env.Message)
	}

	status, env = cl.do(http.MethodPost, "/api/logout", nil)
	if status != http.StatusOK || env.Data["message"] != "Guest session created!" {
		t.Fatalf("logout: status=%d data=%v", status, env.Data)
	}
	if id, _ := env.Data["account_id"].(string); !strings.HasPrefix(id, "Guest_") {
		t.Fatalf("logout should mint a fresh guest, got %v", env.Data["account_id"])
	}

	status, env = cl.do(http.MethodPost, "/api/login", gin.H{"email": "ana@example.com", "password": "wrong"})
	if status != http.StatusUnauthorized || env.Code != 40102 || env.Message != "Invalid password" {
		t.Fatalf("bad password: status=%d code=%d message=%q", status, env.Code, env.Message)
	}

	status, env = cl.do(http.MethodPost, "/api/login", gin.H{"email": "nobody@example.com", "password": "s3cret"})
	if status != http.StatusUnauthorized || env.Code != 40103 || env.Message != "User not found" {
		t.Fatalf("unknown user: status=%d code=%d message=%q", status, env.Code, env.Message)
	}

	status, env = cl.do(http.MethodPost, "/api/login", gin.H{"email": "ana@example.com", "password": "s3cret"})
	if status != http.StatusOK || env.Data["message"] != "Login successful!" {
		t.Fatalf("login: status=%d data=%v", status, env.Data)
	}
}

func TestRegisterPreservesConversation(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	cl.do(http.MethodPost, "/api/chat", gin.H{"message": "I feel stressed"})
	cl.do(http.MethodPost, "/api/register", gin.H{"email": "bob@example.com", "password": "pw"})

	_, env := cl.do(http.MethodGet, "/api/session", nil)
	if env.Data["account_id"] != "bob@example.com" {
		t.Fatalf("expected the member identity, got %v", env.Data["account_id"])
	}
	turns, _ := env.Data["turns"].([]any)
	if len(turns) != 2 {
		t.Fatalf("registration should keep the transient conversation, got %d turns", len(turns))
	}
}

func TestWrapUp(t *testing.T) {
	up, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	cl.do(http.MethodPost, "/api/chat", gin.H{"message": "I feel stressed"})

	status, env := cl.do(http.MethodPost, "/api/chat/wrapup", nil)
	if status != http.StatusOK || env.Code != 0 {
		t.Fatalf("wrapup: status=%d code=%d", status, env.Code)
	}

	msgs := up.lastRequest(t)
	if len(msgs) != 2 {
		t.Fatalf("wrap-up sends instruction and request only, got %d messages", len(msgs))
	}
	req := msgs[1]["content"]
	if !strings.Contains(req, "<think>") || !strings.Contains(req, "Patient: I feel stressed\n") {
		t.Fatalf("wrap-up request should embed the labeled transcript, got %q", req)
	}

	_, env = cl.do(http.MethodGet, "/api/history", nil)
	entries, _ := env.Data["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected chat + wrap-up entries, got %d", len(entries))
	}
	last, _ := entries[1].(map[string]any)
	if last["prompt"] != "Session wrap-up analysis" {
		t.Fatalf("wrap-up must store the fixed prompt, got %v", last["prompt"])
	}
}

func TestWrapUpRequiresConversation(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodPost, "/api/chat/wrapup", nil)
	if status != http.StatusBadRequest || env.Code != 10004 {
		t.Fatalf("expected 400/10004, got %d/%d", status, env.Code)
	}
}

func TestLanguageToggleAndSet(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	_, env := cl.do(http.MethodPost, "/api/language", nil)
	if env.Data["language"] != "fr" {
		t.Fatalf("toggle from the default should yield fr, got %v", env.Data["language"])
	}
	labels, _ := env.Data["labels"].(map[string]any)
	if labels["title"] != "Martin - votre psychologue IA" {
		t.Fatalf("expected French labels, got %v", labels["title"])
	}

	_, env = cl.do(http.MethodPost, "/api/language", gin.H{"language": "en"})
	if env.Data["language"] != "en" {
		t.Fatalf("explicit set failed, got %v", env.Data["language"])
	}

	status, env := cl.do(http.MethodPost, "/api/language", gin.H{"language": "de"})
	if status != http.StatusBadRequest || env.Code != 10005 {
		t.Fatalf("expected 400/10005 for an unsupported language, got %d/%d", status, env.Code)
	}
}

func TestFrenchChatUsesFrenchPrompt(t *testing.T) {
	up, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	cl.do(http.MethodPost, "/api/language", gin.H{"language": "fr"})
	cl.do(http.MethodPost, "/api/chat", gin.H{"message": "Je suis fatigué"})

	msgs := up.lastRequest(t)
	if !strings.Contains(msgs[0]["content"], "psychologue clinicien") {
		t.Fatalf("expected the French system instruction, got %q", msgs[0]["content"])
	}
}

func TestModelsFallsBackWithoutCredential(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodGet, "/api/models", nil)
	if status != http.StatusOK {
		t.Fatalf("models: status=%d", status)
	}
	models, _ := env.Data["models"].([]any)
	if len(models) != 12 {
		t.Fatalf("expected the static set of 12 models, got %d", len(models))
	}
	for _, m := range models {
		mm, _ := m.(map[string]any)
		id, _ := mm["id"].(string)
		if strings.Contains(id, "whisper") || strings.Contains(id, "distil") {
			t.Fatalf("transcription model %q should not be listed", id)
		}
	}
}

func TestHealthzWithoutCredential(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodGet, "/healthz", nil)
	if status != http.StatusServiceUnavailable || env.Code != 50301 {
		t.Fatalf("expected 503/50301, got %d/%d", status, env.Code)
	}
	if !strings.HasPrefix(env.Message, "Connection Error: ") {
		t.Fatalf("unexpected health message %q", env.Message)
	}
}

func TestPing(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodGet, "/ping", nil)
	if status != http.StatusOK || env.Data["message"] != "pong" {
		t.Fatalf("ping: status=%d data=%v", status, env.Data)
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	_, srv := newUpstream(t)
	cl := newTestClient(t, srv.URL)

	status, env := cl.do(http.MethodGet, "/nope", nil)
	if status != http.StatusNotFound || env.Code != 40400 {
		t.Fatalf("expected 404/40400, got %d/%d", status, env.Code)
	}
}
