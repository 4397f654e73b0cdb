package admin

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/denuo-web/internal/config"
	"github.com/debemdeboas/denuo-web/internal/content"
	"github.com/debemdeboas/denuo-web/internal/draft"
	"github.com/debemdeboas/denuo-web/internal/identity"
	"github.com/debemdeboas/denuo-web/internal/invoice"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/save"
	"github.com/debemdeboas/denuo-web/internal/store"
)

const (
	testEmail    = "admin@denuo.dev"
	testPassword = "hunter22"
	testKey      = model.DefaultDocumentKey
)

type failingWriter struct{ err error }

func (f failingWriter) Set(context.Context, model.DocumentKey, *model.SiteContent) error {
	return f.err
}

// blockingWriter holds each Set until release is closed.
type blockingWriter struct {
	started chan struct{}
	release chan struct{}
}

func (b blockingWriter) Set(context.Context, model.DocumentKey, *model.SiteContent) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

type env struct {
	handler  http.Handler
	store    *store.MemoryStore
	drafts   *draft.Registry
	content  *content.Service
	provider *identity.PasswordProvider
}

type envOptions struct {
	policy   draft.SyncPolicy
	writer   save.Writer
	invoices *invoice.Builder
}

func newEnv(t *testing.T, opts envOptions) *env {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	original := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = original })

	if opts.policy == "" {
		opts.policy = draft.PolicyOverwrite
	}

	mem := store.NewMemoryStore()
	svc := content.NewService(mem, testKey)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load content: %v", err)
	}
	svc.Start()
	t.Cleanup(svc.Stop)

	hash, err := identity.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	_, key, _ := ed25519.GenerateKey(rand.Reader)
	provider := identity.NewPasswordProvider(testEmail, hash, key, time.Hour)

	writer := opts.writer
	if writer == nil {
		writer = mem
	}

	drafts := draft.NewRegistry(opts.policy)
	h := NewHandler(Options{
		FS:       os.DirFS("../.."),
		Provider: provider,
		Drafts:   drafts,
		Content:  svc,
		Saver:    save.NewController(writer, testKey, svc.Replace),
		Invoices: opts.invoices,
	})

	return &env{handler: h.Routes(), store: mem, drafts: drafts, content: svc, provider: provider}
}

func (e *env) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(config.HCType, config.CTypeForm)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *env) signIn(t *testing.T) *http.Cookie {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/admin/login", url.Values{"email": {testEmail}, "password": {testPassword}}, nil)
	for _, c := range rr.Result().Cookies() {
		if c.Name == config.CookieSession && c.Value != "" {
			return c
		}
	}
	t.Fatalf("Expected session cookie, got status %d body %q", rr.Code, rr.Body.String())
	return nil
}

func TestAdminPageWithoutSession(t *testing.T) {
	e := newEnv(t, envOptions{})

	rr := e.do(t, http.MethodGet, "/admin", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `name="password"`) {
		t.Error("Expected the login form")
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t, envOptions{})

	rr := e.do(t, http.MethodPost, "/admin/login", url.Values{"email": {testEmail}, "password": {"wrong"}}, nil)
	if !strings.Contains(rr.Body.String(), config.StatusSignInFailed) {
		t.Errorf("Expected sign-in failure status, got %q", rr.Body.String())
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Error("Expected no cookie after a failed sign-in")
	}

	rr = e.do(t, http.MethodPost, "/admin/login", url.Values{"email": {testEmail}, "password": {testPassword}}, nil)
	if rr.Header().Get(config.HHxRedirect) != "/admin" {
		t.Errorf("Expected redirect to /admin, got %q", rr.Header().Get(config.HHxRedirect))
	}
	if !strings.Contains(rr.Body.String(), config.StatusSignedIn) {
		t.Errorf("Expected signed-in status, got %q", rr.Body.String())
	}
}

func TestEditorShowsDraft(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	rr := e.do(t, http.MethodGet, "/admin", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get(config.HDraftState) != "clean" {
		t.Errorf("Expected clean draft, got %q", rr.Header().Get(config.HDraftState))
	}
	if !strings.Contains(rr.Body.String(), model.DefaultContent().Services[0].Title) {
		t.Error("Expected the editor to show the current services")
	}
	if e.drafts.Len() != 1 {
		t.Errorf("Expected one open draft, got %d", e.drafts.Len())
	}
}

func TestDraftEditsRequireSession(t *testing.T) {
	e := newEnv(t, envOptions{})

	for _, path := range []string{"/admin/draft/hero", "/admin/draft/services/0", "/admin/save", "/admin/draft/sync"} {
		rr := e.do(t, http.MethodPost, path, url.Values{"title": {"x"}}, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rr.Code)
		}
	}
}

func TestEditAndSave(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)
	ctx := context.Background()

	rr := e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Edited title"}}, cookie)
	if rr.Header().Get(config.HDraftState) != "dirty" {
		t.Fatalf("Expected dirty draft after edit, got %q", rr.Header().Get(config.HDraftState))
	}
	if _, err := e.store.Get(ctx, testKey); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected nothing persisted before save, got %v", err)
	}

	rr = e.do(t, http.MethodPost, "/admin/save", nil, cookie)
	if !strings.Contains(rr.Body.String(), config.StatusSaved) {
		t.Fatalf("Expected saved status, got %q", rr.Body.String())
	}

	saved, err := e.store.Get(ctx, testKey)
	if err != nil {
		t.Fatalf("Expected persisted content, got %v", err)
	}
	if saved.Hero.Title != "Edited title" {
		t.Errorf("Expected edited title, got %q", saved.Hero.Title)
	}
	if saved.Hero.Subtitle != model.DefaultContent().Hero.Subtitle {
		t.Error("Expected unsubmitted hero fields to be unchanged")
	}
	if e.content.Current().Hero.Title != "Edited title" {
		t.Error("Expected the authoritative copy to be replaced after save")
	}
	if rr.Header().Get(config.HDraftState) != "clean" {
		t.Errorf("Expected clean draft after save, got %q", rr.Header().Get(config.HDraftState))
	}
}

func TestDraftStateReportsSaveInFlight(t *testing.T) {
	writer := blockingWriter{started: make(chan struct{}, 1), release: make(chan struct{})}
	e := newEnv(t, envOptions{writer: writer})
	cookie := e.signIn(t)

	rr := e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Before save"}}, cookie)
	if rr.Header().Get(config.HSaving) != "false" {
		t.Fatalf("Expected no save in flight, got %q", rr.Header().Get(config.HSaving))
	}

	saved := make(chan *httptest.ResponseRecorder, 1)
	go func() { saved <- e.do(t, http.MethodPost, "/admin/save", nil, cookie) }()

	select {
	case <-writer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the save to start")
	}

	rr = e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"badge": {"While saving"}}, cookie)
	if rr.Header().Get(config.HSaving) != "true" {
		t.Errorf("Expected X-Saving true while a write is in flight, got %q", rr.Header().Get(config.HSaving))
	}
	if !strings.Contains(rr.Body.String(), `class="saving"`) {
		t.Errorf("Expected the draft state to show the save in flight, got %q", rr.Body.String())
	}

	close(writer.release)
	select {
	case rr = <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the save to finish")
	}
	if !strings.Contains(rr.Body.String(), config.StatusSaved) {
		t.Errorf("Expected saved status, got %q", rr.Body.String())
	}

	rr = e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"badge": {"After save"}}, cookie)
	if rr.Header().Get(config.HSaving) != "false" {
		t.Errorf("Expected X-Saving false after the write landed, got %q", rr.Header().Get(config.HSaving))
	}
}

func TestSaveFailure(t *testing.T) {
	e := newEnv(t, envOptions{writer: failingWriter{err: errors.New("boom")}})
	cookie := e.signIn(t)

	e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Edited"}}, cookie)
	rr := e.do(t, http.MethodPost, "/admin/save", nil, cookie)

	if !strings.Contains(rr.Body.String(), "Save failed: boom") {
		t.Errorf("Expected save failure status, got %q", rr.Body.String())
	}
	d, _ := e.drafts.Get(sessionID(t, e, cookie))
	if d.State() != draft.Dirty {
		t.Error("Expected the draft to keep its edits after a failed save")
	}
}

func sessionID(t *testing.T, e *env, cookie *http.Cookie) string {
	t.Helper()
	s, err := e.provider.Verify(cookie.Value)
	if err != nil {
		t.Fatalf("Failed to verify session: %v", err)
	}
	return s.ID
}

func TestListEdits(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	e.do(t, http.MethodPost, "/admin/draft/services/1", url.Values{"bullets": {"Auth\r\n\r\n  Billing  \n"}}, cookie)
	e.do(t, http.MethodPost, "/admin/draft/projects/0", url.Values{"stack": {" Go, , htmx ,"}}, cookie)
	e.do(t, http.MethodPost, "/admin/draft/differentiators", url.Values{"differentiators": {"One\n\nTwo"}}, cookie)
	e.do(t, http.MethodPost, "/admin/draft/process/2", url.Values{"outcome": {"Shipped"}}, cookie)
	e.do(t, http.MethodPost, "/admin/draft/contact", url.Values{"note": {"Replies within a day"}}, cookie)

	d, _ := e.drafts.Get(sessionID(t, e, cookie))
	got := d.Draft()
	defaults := model.DefaultContent()

	if want := []string{"Auth", "  Billing  "}; strings.Join(got.Services[1].Bullets, "|") != strings.Join(want, "|") {
		t.Errorf("Expected bullets %q, got %q", want, got.Services[1].Bullets)
	}
	if got.Services[1].Title != defaults.Services[1].Title {
		t.Error("Expected the service title to be unchanged")
	}
	if !got.Services[0].Equal(defaults.Services[0]) {
		t.Error("Expected other services to be untouched")
	}
	if strings.Join(got.Projects[0].Stack, "|") != "Go|htmx" {
		t.Errorf("Expected stack [Go htmx], got %q", got.Projects[0].Stack)
	}
	if strings.Join(got.Differentiators, "|") != "One|Two" {
		t.Errorf("Expected differentiators [One Two], got %q", got.Differentiators)
	}
	if got.Process[2].Outcome != "Shipped" || got.Process[2].Title != defaults.Process[2].Title {
		t.Errorf("Unexpected process step %+v", got.Process[2])
	}
	if got.Contact.Note != "Replies within a day" || got.Contact.Email != defaults.Contact.Email {
		t.Errorf("Unexpected contact %+v", got.Contact)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	for _, path := range []string{"/admin/draft/services/9", "/admin/draft/projects/-1", "/admin/draft/process/x"} {
		rr := e.do(t, http.MethodPost, path, url.Values{"title": {"x"}}, cookie)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestAppend(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	rr := e.do(t, http.MethodPost, "/admin/draft/services", nil, cookie)
	if rr.Header().Get(config.HHxRefresh) != "true" {
		t.Error("Expected the editor to refresh after an append")
	}
	e.do(t, http.MethodPost, "/admin/draft/projects", nil, cookie)

	d, _ := e.drafts.Get(sessionID(t, e, cookie))
	got := d.Draft()
	defaults := model.DefaultContent()

	if len(got.Services) != len(defaults.Services)+1 || !got.Services[len(got.Services)-1].Equal(draft.NewService) {
		t.Errorf("Expected a default service appended, got %+v", got.Services)
	}
	if len(got.Projects) != len(defaults.Projects)+1 || !got.Projects[len(got.Projects)-1].Equal(draft.NewProject) {
		t.Errorf("Expected a default project appended, got %+v", got.Projects)
	}
}

func TestUpstreamOverwrite(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Local edit"}}, cookie)

	upstream := model.DefaultContent()
	upstream.Hero.Title = "Published elsewhere"
	if err := e.store.Set(context.Background(), testKey, upstream); err != nil {
		t.Fatal(err)
	}

	d, _ := e.drafts.Get(sessionID(t, e, cookie))
	if d.Draft().Hero.Title != "Published elsewhere" || d.State() != draft.Clean {
		t.Errorf("Expected the draft to be reset to upstream, got %q (%s)", d.Draft().Hero.Title, d.State())
	}
}

func TestUpstreamHold(t *testing.T) {
	e := newEnv(t, envOptions{policy: draft.PolicyHold})
	cookie := e.signIn(t)

	e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Local edit"}}, cookie)

	upstream := model.DefaultContent()
	upstream.Hero.Title = "Published elsewhere"
	e.store.Set(context.Background(), testKey, upstream)

	d, _ := e.drafts.Get(sessionID(t, e, cookie))
	if d.Draft().Hero.Title != "Local edit" || !d.HasConflict() {
		t.Fatalf("Expected local edits held with a conflict, got %q", d.Draft().Hero.Title)
	}

	rr := e.do(t, http.MethodGet, "/admin", nil, cookie)
	if !strings.Contains(rr.Body.String(), "/admin/draft/sync") {
		t.Error("Expected the conflict banner")
	}

	rr = e.do(t, http.MethodPost, "/admin/draft/sync", nil, cookie)
	if !strings.Contains(rr.Body.String(), config.StatusSyncedUpstream) {
		t.Errorf("Expected synced status, got %q", rr.Body.String())
	}
	if d.Draft().Hero.Title != "Published elsewhere" || d.HasConflict() {
		t.Error("Expected the held upstream to be accepted")
	}
}

func TestLogoutDiscardsDraft(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"Unsaved"}}, cookie)
	if e.drafts.Len() != 1 {
		t.Fatalf("Expected one draft, got %d", e.drafts.Len())
	}

	rr := e.do(t, http.MethodPost, "/admin/logout", nil, cookie)
	if !strings.Contains(rr.Body.String(), config.StatusSignedOut) {
		t.Errorf("Expected signed-out status, got %q", rr.Body.String())
	}
	if e.drafts.Len() != 0 {
		t.Errorf("Expected the draft to be discarded, got %d", e.drafts.Len())
	}

	rr = e.do(t, http.MethodPost, "/admin/draft/hero", url.Values{"title": {"x"}}, cookie)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected a revoked session to be rejected, got %d", rr.Code)
	}
}

func TestInvoice(t *testing.T) {
	calls := 0
	billing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req invoice.Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "fail@example.com" {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"Card declined"}`))
			return
		}
		json.NewEncoder(w).Encode(invoice.Receipt{HostedInvoiceURL: "https://pay.example.com/i/1", InvoiceID: "in_1"})
	}))
	defer billing.Close()

	e := newEnv(t, envOptions{invoices: invoice.NewBuilder(billing.URL, billing.Client())})
	cookie := e.signIn(t)

	testCases := []struct {
		name   string
		form   url.Values
		cookie *http.Cookie
		want   string
		calls  int
	}{
		{
			name:  "not signed in",
			form:  url.Values{"email": {"a@b.c"}, "name": {"A"}, "amount": {"10"}},
			want:  config.StatusInvoiceAuth,
			calls: 0,
		},
		{
			name:   "invalid",
			form:   url.Values{"email": {"a@b.c"}, "name": {""}, "amount": {"10"}},
			cookie: cookie,
			want:   config.StatusInvoiceInvalid,
			calls:  0,
		},
		{
			name:   "sent",
			form:   url.Values{"email": {"a@b.c"}, "name": {"A"}, "amount": {"10.50"}},
			cookie: cookie,
			want:   "Invoice sent. URL: https://pay.example.com/i/1",
			calls:  1,
		},
		{
			name:   "billing error",
			form:   url.Values{"email": {"fail@example.com"}, "name": {"A"}, "amount": {"10"}},
			cookie: cookie,
			want:   "Invoice failed: Card declined",
			calls:  2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := e.do(t, http.MethodPost, "/admin/invoice", tc.form, tc.cookie)
			if !strings.Contains(rr.Body.String(), tc.want) {
				t.Errorf("Expected %q, got %q", tc.want, rr.Body.String())
			}
			if calls != tc.calls {
				t.Errorf("Expected %d billing calls, got %d", tc.calls, calls)
			}
		})
	}
}

func TestInvoiceDisabled(t *testing.T) {
	e := newEnv(t, envOptions{})
	cookie := e.signIn(t)

	rr := e.do(t, http.MethodPost, "/admin/invoice", url.Values{"email": {"a@b.c"}}, cookie)
	if !strings.Contains(rr.Body.String(), config.ErrBillingNotConfigured) {
		t.Errorf("Expected billing not configured, got %q", rr.Body.String())
	}
}
