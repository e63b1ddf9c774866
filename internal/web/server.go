package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/timer"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const (
	AuthNone = "none"
	AuthDev  = "dev"
)

type ServerConfig struct {
	Addr string
	Dir  string
	// AuthMode is none|dev. In none mode every request acts as UserID.
	AuthMode string
	UserID   string
	PageSize int
	Sound    string

	Logger *zap.Logger
	// Registry receives the server metrics. Nil creates a private registry.
	Registry *prometheus.Registry
	// Now is the clock for per-session timers. Nil means time.Now.
	Now func() time.Time
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *zap.Logger

	// dbMu serializes load-mutate-save cycles against the store.
	dbMu sync.Mutex
	st   store.Store

	bc       *broadcaster
	sessions *sessions
	metrics  *metrics
	reg      *prometheus.Registry
}

type baseVM struct {
	Title     string
	Nav       string
	User      *model.User
	AuthMode  string
	Flash     []string
	StreamURL string
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.AuthMode == "" {
		cfg.AuthMode = AuthDev
	}
	if cfg.AuthMode != AuthNone && cfg.AuthMode != AuthDev {
		return nil, errors.New("web: invalid auth mode (expected none|dev)")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.Sound == "" {
		cfg.Sound = timer.DefaultSound
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	tmpl, err := template.New("base").Funcs(templateFuncs).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		tmpl:    tmpl,
		log:     cfg.Logger,
		st:      store.Store{Dir: cfg.Dir},
		bc:      newBroadcaster(),
		metrics: newMetrics(reg),
		reg:     reg,
	}
	s.sessions = newSessions(s.newSession)
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metricsHandler())
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)

	mux.HandleFunc("GET /login", s.handleLoginGet)
	mux.HandleFunc("POST /login", s.handleLoginPost)
	mux.HandleFunc("POST /logout", s.handleLogoutPost)
	mux.HandleFunc("POST /users", s.handleUserCreate)

	mux.HandleFunc("GET /{$}", s.authed(s.handleHome))
	mux.HandleFunc("GET /events", s.authed(s.handleTaskEvents))

	mux.HandleFunc("GET /tasks", s.authed(s.handleTasks))
	mux.HandleFunc("GET /tasks/events", s.authed(s.handleTaskEvents))
	mux.HandleFunc("POST /tasks", s.authed(s.handleTaskCreate))
	mux.HandleFunc("POST /tasks/filters", s.authed(s.handleTaskFilters))
	mux.HandleFunc("POST /tasks/filters/reset", s.authed(s.handleTaskFiltersReset))
	mux.HandleFunc("POST /tasks/search", s.authed(s.handleTaskSearch))
	mux.HandleFunc("POST /tasks/sort", s.authed(s.handleTaskSort))
	mux.HandleFunc("POST /tasks/sort/reset", s.authed(s.handleTaskSortReset))
	mux.HandleFunc("POST /tasks/page", s.authed(s.handleTaskPage))
	mux.HandleFunc("POST /tasks/select-all", s.authed(s.handleTaskSelectAll))
	mux.HandleFunc("POST /tasks/delete-selected", s.authed(s.handleTaskDeleteSelected))
	mux.HandleFunc("GET /tasks/{id}", s.authed(s.handleTask))
	mux.HandleFunc("POST /tasks/{id}", s.authed(s.handleTaskUpdate))
	mux.HandleFunc("POST /tasks/{id}/delete", s.authed(s.handleTaskDelete))
	mux.HandleFunc("POST /tasks/{id}/status", s.authed(s.handleTaskStatus))
	mux.HandleFunc("POST /tasks/{id}/archive", s.authed(s.handleTaskArchive))
	mux.HandleFunc("POST /tasks/{id}/move", s.authed(s.handleTaskMove))
	mux.HandleFunc("POST /tasks/{id}/toggle/{what}", s.authed(s.handleTaskToggle))

	mux.HandleFunc("GET /workspaces", s.authed(s.handleWorkspaces))
	mux.HandleFunc("POST /workspaces", s.authed(s.handleWorkspaceCreate))
	mux.HandleFunc("POST /workspaces/delete", s.authed(s.handleWorkspacesDelete))
	mux.HandleFunc("GET /workspaces/{id}", s.authed(s.handleWorkspaceSettings))
	mux.HandleFunc("POST /workspaces/{id}", s.authed(s.handleWorkspaceUpdate))
	mux.HandleFunc("POST /workspaces/{id}/delete", s.authed(s.handleWorkspaceDelete))
	mux.HandleFunc("POST /workspaces/{id}/categories", s.authed(s.handleCategoryCreate))
	mux.HandleFunc("POST /workspaces/{id}/categories/search", s.authed(s.handleCategorySearch))
	mux.HandleFunc("POST /workspaces/{id}/categories/select-all", s.authed(s.handleCategorySelectAll))
	mux.HandleFunc("POST /workspaces/{id}/categories/delete-selected", s.authed(s.handleCategoryDeleteSelected))
	mux.HandleFunc("POST /workspaces/{id}/statuses", s.authed(s.handleStatusCreate))
	mux.HandleFunc("POST /workspaces/{id}/priorities", s.authed(s.handlePriorityCreate))
	mux.HandleFunc("POST /categories/{id}", s.authed(s.handleCategoryUpdate))
	mux.HandleFunc("POST /categories/{id}/delete", s.authed(s.handleCategoryDelete))
	mux.HandleFunc("POST /categories/{id}/toggle/{what}", s.authed(s.handleCategoryToggle))
	mux.HandleFunc("POST /statuses/{id}", s.authed(s.handleStatusUpdate))
	mux.HandleFunc("POST /statuses/{id}/delete", s.authed(s.handleStatusDelete))
	mux.HandleFunc("POST /priorities/{id}", s.authed(s.handlePriorityUpdate))
	mux.HandleFunc("POST /priorities/{id}/delete", s.authed(s.handlePriorityDelete))

	mux.HandleFunc("GET /tags", s.authed(s.handleTags))
	mux.HandleFunc("POST /tags", s.authed(s.handleTagCreate))
	mux.HandleFunc("POST /tags/delete", s.authed(s.handleTagsDelete))
	mux.HandleFunc("POST /tags/{id}", s.authed(s.handleTagUpdate))
	mux.HandleFunc("POST /tags/{id}/delete", s.authed(s.handleTagDelete))

	mux.HandleFunc("GET /timers", s.authed(s.handleTimers))
	mux.HandleFunc("GET /timers/events", s.authed(s.handleTimerEvents))
	mux.HandleFunc("POST /timers", s.authed(s.handleTimerCreate))
	mux.HandleFunc("POST /timers/settings", s.authed(s.handleTimerSettings))
	mux.HandleFunc("POST /timers/presets/{index}", s.authed(s.handleTimerPreset))
	mux.HandleFunc("POST /timers/{id}/{action}", s.authed(s.handleTimerAction))

	mux.HandleFunc("GET /counters", s.authed(s.handleCounters))
	mux.HandleFunc("POST /counters", s.authed(s.handleCounterCreate))
	mux.HandleFunc("POST /counters/{index}/{action}", s.authed(s.handleCounterAction))

	return s.instrument(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type homeVM struct {
	baseVM
	Workspaces int
	Tasks      int
	Active     int
	Tags       int
	Timers     int
	Counters   int
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks := mutate.ListTasks(db, rc.user.ID)
	active := 0
	for _, t := range tasks {
		if !t.IsArchived {
			active++
		}
	}
	vm := homeVM{
		baseVM:     s.base(rc, "Home", "home", ""),
		Workspaces: len(mutate.ListWorkspaces(db, rc.user.ID)),
		Tasks:      len(tasks),
		Active:     active,
		Tags:       len(mutate.ListTags(db, rc.user.ID)),
	}
	rc.sess.mu.Lock()
	vm.Timers = rc.sess.timers.Len()
	vm.Counters = rc.sess.counters.Len()
	rc.sess.mu.Unlock()
	s.writeHTMLTemplate(w, http.StatusOK, "home.html", vm)
}

func (s *Server) base(rc *reqCtx, title, nav, stream string) baseVM {
	return baseVM{
		Title:     title,
		Nav:       nav,
		User:      rc.user,
		AuthMode:  s.cfg.AuthMode,
		Flash:     rc.sess.takeFlash(),
		StreamURL: stream,
	}
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, mutate.MsgInternalServer, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}
