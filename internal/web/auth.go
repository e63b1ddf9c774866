package web

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"organizer/internal/model"
	"organizer/internal/mutate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "organizer_session"
	sessionTTL        = 30 * 24 * time.Hour
)

type signedPayload struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"` // user id
	N   string `json:"n"`   // nonce, also the key of the per-session UI state
}

func secretKeyPath(dir string) string {
	return filepath.Join(filepath.Clean(dir), "web", "secret.key")
}

func loadOrInitSecretKey(dir string) ([]byte, error) {
	path := secretKeyPath(dir)
	if b, err := os.ReadFile(path); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

func signToken(secret []byte, payload signedPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	return p + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func verifyToken(secret []byte, token string, now time.Time) (signedPayload, error) {
	p, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok {
		return signedPayload{}, errors.New("invalid token format")
	}
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(mac.Sum(nil), got) {
		return signedPayload{}, errors.New("invalid token signature")
	}
	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return signedPayload{}, errors.New("invalid token payload")
	}
	var sp signedPayload
	if err := json.Unmarshal(raw, &sp); err != nil {
		return signedPayload{}, errors.New("invalid token payload")
	}
	switch {
	case sp.Exp == 0:
		return signedPayload{}, errors.New("token missing exp")
	case now.Unix() > sp.Exp:
		return signedPayload{}, errors.New("token expired")
	case strings.TrimSpace(sp.Sub) == "" || sp.N == "":
		return signedPayload{}, errors.New("token missing sub")
	}
	return sp, nil
}

func newSessionToken(secret []byte, userID string, now time.Time) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("missing user")
	}
	return signToken(secret, signedPayload{
		Sub: userID,
		N:   uuid.NewString(),
		Exp: now.Add(sessionTTL).Unix(),
	})
}

// reqCtx is what authed handlers get: the acting user and the per-session UI state.
type reqCtx struct {
	user *model.User
	sess *session
}

type reqCtxKey struct{}

func reqCtxFrom(r *http.Request) (*reqCtx, bool) {
	rc, ok := r.Context().Value(reqCtxKey{}).(*reqCtx)
	return rc, ok
}

type authedHandler func(w http.ResponseWriter, r *http.Request, rc *reqCtx)

// authed resolves the acting user and session, or sends the browser to /login.
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				s.fail(w, r, badRequest("invalid form"))
				return
			}
		}
		userID, sid := s.identify(r)
		if userID == "" {
			if s.cfg.AuthMode == AuthDev {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			s.fail(w, r, mutate.UnauthorizedError{})
			return
		}
		db, err := s.st.LoadContext(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		u, ok := db.FindUser(userID)
		if !ok {
			s.clearSessionCookie(w)
			s.fail(w, r, mutate.UnauthorizedError{UserID: userID})
			return
		}
		user := *u
		rc := &reqCtx{user: &user, sess: s.sessions.get(sid)}
		if m, ok := w.(*statusRecorder); ok {
			m.userID = user.ID
		}
		h(w, r.WithContext(context.WithValue(r.Context(), reqCtxKey{}, rc)), rc)
	}
}

// identify returns the acting user id and the session key.
func (s *Server) identify(r *http.Request) (userID, sid string) {
	if s.cfg.AuthMode == AuthNone {
		userID = s.cfg.UserID
		if userID == "" {
			if db, err := s.st.LoadContext(r.Context()); err == nil {
				userID = db.CurrentUserID
			}
		}
		return userID, "local:" + userID
	}
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", ""
	}
	secret, err := loadOrInitSecretKey(s.cfg.Dir)
	if err != nil {
		s.log.Error("load secret key", zap.Error(err))
		return "", ""
	}
	sp, err := verifyToken(secret, c.Value, time.Now())
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(sp.Sub), sp.N
}

type loginVM struct {
	baseVM
	Users []model.User
	Error string
}

func (s *Server) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthMode != AuthDev {
		http.NotFound(w, r)
		return
	}
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeHTMLTemplate(w, http.StatusOK, "login.html", loginVM{
		baseVM: baseVM{Title: "Sign in", AuthMode: s.cfg.AuthMode},
		Users:  db.Users,
	})
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthMode != AuthDev {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := mutate.ResolveUser(db, r.Form.Get("user"))
	if err != nil {
		s.writeHTMLTemplate(w, http.StatusUnauthorized, "login.html", loginVM{
			baseVM: baseVM{Title: "Sign in", AuthMode: s.cfg.AuthMode},
			Users:  db.Users,
			Error:  mutate.MsgUnauthorized,
		})
		return
	}
	if err := s.startSession(w, u.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUserCreate registers a local user from the login page and signs them in.
func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthMode != AuthDev {
		http.NotFound(w, r)
		return
	}
	_ = r.ParseForm()
	var created *model.User
	s.dbMu.Lock()
	err := func() error {
		db, err := s.st.LoadContext(r.Context())
		if err != nil {
			return err
		}
		u, err := mutate.CreateUser(db, mutate.UserInput{Name: r.Form.Get("name")})
		if err != nil {
			return err
		}
		created = u
		return s.st.SaveContext(r.Context(), db)
	}()
	s.dbMu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.startSession(w, created.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) startSession(w http.ResponseWriter, userID string) error {
	secret, err := loadOrInitSecretKey(s.cfg.Dir)
	if err != nil {
		return err
	}
	tok, err := newSessionToken(secret, userID, time.Now())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthMode != AuthDev {
		http.NotFound(w, r)
		return
	}
	if _, sid := s.identify(r); sid != "" {
		s.sessions.drop(sid)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
