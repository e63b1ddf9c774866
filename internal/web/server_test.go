package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	t     *testing.T
	dir   string
	user  *model.User
	ws    *model.Workspace
	catID string
	h     http.Handler
	srv   *Server
}

func newFixture(t *testing.T, mode string) *fixture {
	t.Helper()
	dir := t.TempDir()
	st := store.Store{Dir: dir}
	db, err := st.Load()
	require.NoError(t, err)
	u, err := mutate.CreateUser(db, mutate.UserInput{Name: "ada"})
	require.NoError(t, err)
	db.CurrentUserID = u.ID
	ws, err := mutate.CreateWorkspace(db, u.ID, mutate.WorkspaceInput{Name: "Home"})
	require.NoError(t, err)
	cats := mutate.ListCategories(db, u.ID, ws.ID)
	require.Len(t, cats, 1)
	require.NoError(t, st.Save(db))

	srv, err := NewServer(ServerConfig{Dir: dir, AuthMode: mode, PageSize: 10})
	require.NoError(t, err)
	return &fixture{t: t, dir: dir, user: u, ws: ws, catID: cats[0].ID, h: srv.Handler(), srv: srv}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	f.t.Helper()
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (f *fixture) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func (f *fixture) db() *store.DB {
	f.t.Helper()
	db, err := store.Store{Dir: f.dir}.Load()
	require.NoError(f.t, err)
	return db
}

func (f *fixture) createTask(title string, parent string) string {
	f.t.Helper()
	form := url.Values{"title": {title}, "category": {f.catID}}
	if parent != "" {
		form.Set("parent", parent)
	}
	rec := f.post("/tasks", form)
	require.Equal(f.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	for _, tk := range f.db().Tasks {
		if tk.Title == title {
			return tk.ID
		}
	}
	f.t.Fatalf("task %q not stored", title)
	return ""
}

func TestHealth(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
}

func TestNewServer_RejectsUnknownAuthMode(t *testing.T) {
	_, err := NewServer(ServerConfig{Dir: t.TempDir(), AuthMode: "magic"})
	require.Error(t, err)
}

func TestDevMode_RedirectsToLogin(t *testing.T) {
	f := newFixture(t, AuthDev)
	rec := f.get("/tasks")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = f.get("/login")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ada")
}

func TestDevMode_LoginSetsCookie(t *testing.T) {
	f := newFixture(t, AuthDev)
	rec := f.post("/login", url.Values{"user": {"ada"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, sessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(cookies[0])
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDevMode_UnknownUserIsUnauthorized(t *testing.T) {
	f := newFixture(t, AuthDev)
	rec := f.post("/login", url.Values{"user": {"nobody"}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), mutate.MsgUnauthorized)
}

func TestTasks_CreateAndList(t *testing.T) {
	f := newFixture(t, AuthNone)
	id := f.createTask("Buy milk", "")

	got := f.db()
	tk, ok := got.FindTask(id)
	require.True(t, ok)
	require.NotNil(t, tk.StatusID, "new tasks get the workspace default status")

	rec := f.get("/tasks")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Buy milk")
	require.Contains(t, body, `id="task-tree"`)
}

func TestTasks_CreateWithTagNames(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/tasks", url.Values{"title": {"Tagged"}, "category": {f.catID}, "tags": {"home, errand"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	db := f.db()
	require.Len(t, db.Tags, 2)
	require.Len(t, db.Tasks[0].TagIDs, 2)
}

func TestTasks_BlankTitleIsUnprocessable(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/tasks", url.Values{"title": {"  "}, "category": {f.catID}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, f.db().Tasks)
}

func TestTasks_UnknownTaskIsNotFound(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.get("/tasks/task-missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_SearchKeepsAncestors(t *testing.T) {
	f := newFixture(t, AuthNone)
	parent := f.createTask("Garden", "")
	f.createTask("Water roses", parent)
	f.createTask("Taxes", "")

	require.Equal(t, http.StatusSeeOther, f.post("/tasks/search", url.Values{"q": {"roses"}}).Code)
	body := f.get("/tasks").Body.String()
	require.Contains(t, body, "Garden")
	require.NotContains(t, body, "Taxes")
}

func TestTasks_DeleteSelectedOnlyTouchesVisibleSelection(t *testing.T) {
	f := newFixture(t, AuthNone)
	a := f.createTask("Alpha", "")
	b := f.createTask("Beta", "")

	require.Equal(t, http.StatusSeeOther, f.post("/tasks/select-all", nil).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/tasks/search", url.Values{"q": {"alpha"}}).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/tasks/delete-selected", nil).Code)

	db := f.db()
	_, okA := db.FindTask(a)
	_, okB := db.FindTask(b)
	require.False(t, okA)
	require.True(t, okB, "hidden selection must survive")
}

func TestTasks_ToggleUnknownIsNotFound(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/tasks/task-nope/toggle/expand", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_ArchiveHidesFromDefaultView(t *testing.T) {
	f := newFixture(t, AuthNone)
	id := f.createTask("Old chore", "")
	require.Equal(t, http.StatusSeeOther, f.post("/tasks/"+id+"/archive", url.Values{"archived": {"true"}}).Code)
	require.NotContains(t, f.get("/tasks").Body.String(), "Old chore")

	require.Equal(t, http.StatusSeeOther, f.post("/tasks/filters", url.Values{"visibility": {"archived"}}).Code)
	require.Contains(t, f.get("/tasks").Body.String(), "Old chore")
}

func TestTasks_UpdateOnlySubmittedFields(t *testing.T) {
	f := newFixture(t, AuthNone)
	id := f.createTask("Draft", "")
	rec := f.post("/tasks/"+id, url.Values{"endDate": {"2026-03-01"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	tk, _ := f.db().FindTask(id)
	require.Equal(t, "Draft", tk.Title)
	require.NotNil(t, tk.EndDate)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), tk.EndDate.UTC())
}

func TestTasks_BadDateIsBadRequest(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/tasks/filters", url.Values{"due": {"tomorrow"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// deadStream accepts the SSE headers and fails every body write, like a closed tab.
type deadStream struct{ *httptest.ResponseRecorder }

func (deadStream) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestTaskEvents_StopAfterFailedWrite(t *testing.T) {
	f := newFixture(t, AuthNone)
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.h.ServeHTTP(deadStream{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/tasks/events", nil))
	}()
	require.Eventually(t, func() bool { return f.srv.bc.len() == 1 }, 2*time.Second, 5*time.Millisecond)

	f.srv.bc.notify(userKey(f.user.ID))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task stream kept running after a failed write")
	}
	require.Equal(t, 0, f.srv.bc.len())
}

func TestWorkspaces_CreateDuplicateIsUnprocessable(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/workspaces", url.Values{"name": {"home"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWorkspaces_SettingsShowsDefaults(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.get("/workspaces/" + f.ws.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, model.DefaultCategoryName)
	require.Contains(t, body, "In-progress")
	require.Contains(t, body, "Medium")
}

func TestCategories_CreateChildAndDelete(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/workspaces/"+f.ws.ID+"/categories", url.Values{"name": {"Errands"}, "parent": {f.catID}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, f.db().Categories, 2)

	rec = f.post("/categories/"+f.catID+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Empty(t, f.db().Categories)
}

func TestTags_CRUD(t *testing.T) {
	f := newFixture(t, AuthNone)
	require.Equal(t, http.StatusSeeOther, f.post("/tags", url.Values{"name": {"home"}}).Code)
	db := f.db()
	require.Len(t, db.Tags, 1)
	id := db.Tags[0].ID

	require.Equal(t, http.StatusSeeOther, f.post("/tags/"+id, url.Values{"name": {"house"}}).Code)
	require.Contains(t, f.get("/tags?q=hou").Body.String(), "house")

	require.Equal(t, http.StatusSeeOther, f.post("/tags/"+id+"/delete", nil).Code)
	require.Empty(t, f.db().Tags)
}

func TestTimers_ZeroDurationIsRejected(t *testing.T) {
	f := newFixture(t, AuthNone)
	rec := f.post("/timers", url.Values{"title": {"nothing"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Expiry should be greater than 0.")
}

func TestTimers_PresetAndActions(t *testing.T) {
	f := newFixture(t, AuthNone)
	require.Equal(t, http.StatusSeeOther, f.post("/timers/presets/0", nil).Code)
	require.Equal(t, http.StatusNotFound, f.post("/timers/presets/99", nil).Code)

	rc := f.srv.sessions.get("local:" + f.user.ID)
	rc.mu.Lock()
	list := rc.timers.List()
	rc.mu.Unlock()
	require.Len(t, list, 1)
	id := list[0].ID

	require.Equal(t, http.StatusSeeOther, f.post("/timers/"+id+"/pause", nil).Code)
	require.Contains(t, f.get("/timers").Body.String(), "paused")
	require.Equal(t, http.StatusSeeOther, f.post("/timers/"+id+"/clear", nil).Code)
	require.Equal(t, http.StatusNotFound, f.post("/timers/"+id+"/start", nil).Code)
}

func TestCounters_Flow(t *testing.T) {
	f := newFixture(t, AuthNone)
	require.Equal(t, http.StatusSeeOther, f.post("/counters", url.Values{"title": {"laps"}, "amount": {"2"}, "base": {"10"}}).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/counters/0/inc", nil).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/counters/0/inc", nil).Code)

	ss := f.srv.sessions.get("local:" + f.user.ID)
	ss.mu.Lock()
	c, ok := ss.counters.At(0)
	require.True(t, ok)
	require.Equal(t, 14, c.Count)
	ss.mu.Unlock()

	require.Equal(t, http.StatusSeeOther, f.post("/counters/0/reset", nil).Code)
	require.Equal(t, http.StatusSeeOther, f.post("/counters/0/remove", nil).Code)
	require.Equal(t, http.StatusNotFound, f.post("/counters/0/inc", nil).Code)
	require.Equal(t, http.StatusBadRequest, f.post("/counters/x/inc", nil).Code)
}

func TestMetrics_CountsRoutesAndMutations(t *testing.T) {
	f := newFixture(t, AuthNone)
	f.createTask("Counted", "")
	rec := f.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `organizer_mutations_total{op="task.create",result="success"} 1`)
	require.Contains(t, string(body), `route="POST /tasks"`)
}
