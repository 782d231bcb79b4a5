package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mail "eventdesk-backend/internal/mail/domain"
	settings "eventdesk-backend/internal/settings/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/pkg/config"
	"eventdesk-backend/pkg/i18n"
	"eventdesk-backend/pkg/idgen"
	"eventdesk-backend/pkg/sse"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*state.Store, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env: "test",
		AIConfig: config.AIConfig{
			Provider:          "ollama",
			OllamaBaseURL:     "http://127.0.0.1:1",
			OllamaModel:       "llama3",
			AnalysisWorkers:   1,
			RequestsPerMinute: 600,
		},
	}
	store := state.NewStore(state.New(settings.Collaborator{ID: "u1", Name: "Alice"}),
		state.WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }),
		state.WithIDGenerator(idgen.Sequence()),
	)
	h := NewHandler(context.Background(), cfg, store, i18n.New("en"), sse.NewManager())
	t.Cleanup(h.Close)
	return store, h.Engine()
}

func call(t *testing.T, r http.Handler, method, path, body string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestHealthAndCORS(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/health", "", nil))
}

func TestReplyWorkflowOverHTTP(t *testing.T) {
	store, r := newTestServer(t)

	var email mail.Email
	code := call(t, r, http.MethodPost, "/api/emails",
		`{"sender":{"name":"Taro","email":"taro@example.com"},"subject":"Parking","body":"<p>Is there parking?</p>"}`, &email)
	require.Equal(t, http.StatusCreated, code)
	base := "/api/emails/" + email.ID

	var draft mail.Draft
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, base+"/draft", "", &draft))
	assert.Equal(t, "Re: Parking", draft.Subject)

	draft.Body = "<p>Yes, lot B.</p>" + draft.Body
	body, _ := json.Marshal(draft)
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPut, base+"/draft", string(body), &email))
	assert.Equal(t, mail.StatusDrafting, email.Status)

	assert.Equal(t, http.StatusConflict, call(t, r, http.MethodPost, base+"/reply", "", nil))
	assert.Equal(t, http.StatusConflict, call(t, r, http.MethodPost, base+"/workflow/approve", "", nil))
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodPost, base+"/workflow/publish", "", nil))

	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, base+"/workflow/submit", "", nil))
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, base+"/workflow/approve", "", nil))

	var sent mail.SentEmail
	require.Equal(t, http.StatusCreated, call(t, r, http.MethodPost, base+"/reply", "", &sent))
	assert.Equal(t, email.ThreadID, sent.ThreadID)

	var thread struct {
		Items []mail.Item `json:"items"`
	}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/threads/"+email.ThreadID, "", &thread))
	assert.Len(t, thread.Items, 2)

	after, _ := store.GetState().FindEmail(email.ID)
	assert.Equal(t, mail.StatusReplied, after.Status)
}

func TestWorkspaceRoutes(t *testing.T) {
	store, r := newTestServer(t)

	var view struct {
		View    state.View         `json:"view"`
		SubView state.InboxSubView `json:"subView"`
	}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPut, "/api/view", `{"view":"tasks"}`, &view))
	assert.Equal(t, state.ViewTasks, view.View)

	var filter state.Filter
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPut, "/api/filters", `{"searchTerm":"parking"}`, &filter))
	assert.Equal(t, "parking", filter.SearchTerm)
	assert.Equal(t, state.FilterAll, filter.Status)

	code := call(t, r, http.MethodPost, "/api/actions", `{"type":"ADD_NOTIFICATION","payload":{"message":"hello","type":"info"}}`, nil)
	require.Equal(t, http.StatusOK, code)

	var notes struct {
		Notifications []state.Notification `json:"notifications"`
	}
	require.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/notifications", "", &notes))
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, "hello", notes.Notifications[0].Message)

	path := "/api/notifications/" + itoa(notes.Notifications[0].ID)
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodDelete, path, "", nil))
	assert.Empty(t, store.GetState().Notifications)

	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPost, "/api/actions", `{"payload":{}}`, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodDelete, "/api/notifications/abc", "", nil))
}

func TestAppSettings(t *testing.T) {
	store, r := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodPut, "/api/settings", `{"communicationStyle":"rude"}`, nil))
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPut, "/api/settings", `{"eventName":"Summit 2025"}`, nil))
	assert.Equal(t, "Summit 2025", store.GetState().Settings.EventName)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
