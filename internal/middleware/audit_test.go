package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/audit"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/config"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// channelStore delivers recorded entries to the test goroutine. The recorder
// writes asynchronously, so tests must wait on the channel, not poll state.
type channelStore struct {
	entries chan *models.JournalAudit
}

func newChannelStore() *channelStore {
	return &channelStore{entries: make(chan *models.JournalAudit, 10)}
}

func (s *channelStore) Create(_ context.Context, entry *models.JournalAudit) error {
	s.entries <- entry
	return nil
}

func (s *channelStore) waitForEntry(t *testing.T) *models.JournalAudit {
	t.Helper()
	select {
	case entry := <-s.entries:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("no audit entry recorded within 2s")
		return nil
	}
}

// expectNoEntry gives the async write a moment to (wrongly) arrive.
func (s *channelStore) expectNoEntry(t *testing.T) {
	t.Helper()
	select {
	case entry := <-s.entries:
		t.Fatalf("unexpected audit entry recorded: %+v", entry)
	case <-time.After(100 * time.Millisecond):
	}
}

func newAuditRouter(store *channelStore, auditCfg *config.AuditConfig, withUser bool) *gin.Engine {
	recorder := audit.NewRecorder(store, nil)

	r := gin.New()
	if withUser {
		r.Use(injectUser(&auth.CurrentUser{UserID: 7, Login: "cdurand"}))
	}
	r.Use(AuditMiddleware(recorder, auditCfg))
	r.POST("/api/v1/signalements", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.PATCH("/api/v1/organigrammes/:id/freeze", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/annees", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/delegations", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	return r
}

func send(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w.Code
}

// ---------------------------------------------------------------------------
// AuditMiddleware
// ---------------------------------------------------------------------------

func TestAuditMiddleware_RecordsWrite(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{}, true)

	send(r, http.MethodPost, "/api/v1/signalements")

	entry := store.waitForEntry(t)
	if entry.UserAuteurID != 7 {
		t.Errorf("UserAuteurID = %d, want 7", entry.UserAuteurID)
	}
	if entry.TypeAction != "POST /api/v1/signalements" {
		t.Errorf("TypeAction = %q, want POST /api/v1/signalements", entry.TypeAction)
	}
	if entry.CibleType != "signalement" {
		t.Errorf("CibleType = %q, want signalement", entry.CibleType)
	}
	if entry.CibleID != nil {
		t.Errorf("CibleID = %v, want nil for a collection route", *entry.CibleID)
	}
}

func TestAuditMiddleware_CapturesIDParam(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{}, true)

	send(r, http.MethodPatch, "/api/v1/organigrammes/42/freeze")

	entry := store.waitForEntry(t)
	if entry.CibleType != "organigramme" {
		t.Errorf("CibleType = %q, want organigramme", entry.CibleType)
	}
	if entry.CibleID == nil || *entry.CibleID != "42" {
		t.Errorf("CibleID = %v, want 42", entry.CibleID)
	}
}

func TestAuditMiddleware_SkipsReadsByDefault(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{}, true)

	send(r, http.MethodGet, "/api/v1/annees")

	store.expectNoEntry(t)
}

func TestAuditMiddleware_RecordsReadsWhenConfigured(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{LogReadOperations: true}, true)

	send(r, http.MethodGet, "/api/v1/annees")

	entry := store.waitForEntry(t)
	if entry.CibleType != "annee" {
		t.Errorf("CibleType = %q, want annee", entry.CibleType)
	}
}

func TestAuditMiddleware_SkipsFailuresByDefault(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{}, true)

	if code := send(r, http.MethodPost, "/api/v1/delegations"); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 from handler", code)
	}

	store.expectNoEntry(t)
}

func TestAuditMiddleware_RecordsFailuresWhenConfigured(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{LogFailedRequests: true}, true)

	send(r, http.MethodPost, "/api/v1/delegations")

	entry := store.waitForEntry(t)
	if entry.CibleType != "delegation" {
		t.Errorf("CibleType = %q, want delegation", entry.CibleType)
	}
}

func TestAuditMiddleware_SkipsAnonymousRequests(t *testing.T) {
	store := newChannelStore()
	r := newAuditRouter(store, &config.AuditConfig{}, false)

	send(r, http.MethodPost, "/api/v1/signalements")

	store.expectNoEntry(t)
}
