package web

import (
	"errors"
	"net/http"

	"organizer/internal/mutate"
	"organizer/internal/store"

	"go.uber.org/zap"
)

// statusFor maps domain errors onto HTTP status codes. A joined error takes the code of its
// first member.
func statusFor(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return statusFor(errs[0])
		}
	}
	var nf mutate.NotFoundError
	var ua mutate.UnauthorizedError
	var ve mutate.ValidationError
	var ue mutate.UniqueError
	var be badRequestError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ua):
		return http.StatusForbidden
	case errors.As(err, &ve), errors.As(err, &ue):
		return http.StatusUnprocessableEntity
	case errors.As(err, &be):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// badRequestError is a malformed form value.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return badRequestError{msg: msg} }

func errMessages(err error) []string {
	var be badRequestError
	if errors.As(err, &be) {
		return []string{be.msg}
	}
	return mutate.Messages(err)
}

type errorVM struct {
	baseVM
	Status   int
	Messages []string
	Back     string
}

// fail renders the error page with the mapped status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	fields := []zap.Field{zap.String("path", r.URL.Path), zap.Int("status", code), zap.Error(err)}
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Info("request rejected", fields...)
	}
	vm := errorVM{
		baseVM:   baseVM{Title: http.StatusText(code), AuthMode: s.cfg.AuthMode},
		Status:   code,
		Messages: errMessages(err),
		Back:     r.Header.Get("Referer"),
	}
	if rc, ok := reqCtxFrom(r); ok {
		vm.User = rc.user
	}
	s.writeHTMLTemplate(w, code, "error.html", vm)
}

// change runs fn against a freshly loaded DB and saves it when fn succeeds. A failing fn
// leaves the stored state untouched. Subscribers of the user are notified after a save.
func (s *Server) change(r *http.Request, rc *reqCtx, op string, fn func(db *store.DB) error) error {
	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		s.metrics.mutations.WithLabelValues(op, mutate.StatusError).Inc()
		return err
	}
	if err := s.st.SaveContext(r.Context(), db); err != nil {
		s.metrics.mutations.WithLabelValues(op, mutate.StatusError).Inc()
		return err
	}
	s.metrics.mutations.WithLabelValues(op, mutate.StatusSuccess).Inc()
	s.bc.notify(userKey(rc.user.ID))
	return nil
}

// act is the common shape of a form POST: mutate, flash, redirect back.
func (s *Server) act(w http.ResponseWriter, r *http.Request, rc *reqCtx, op, flash, fallback string, fn func(db *store.DB) error) {
	if err := s.change(r, rc, op, fn); err != nil {
		s.fail(w, r, err)
		return
	}
	if flash != "" {
		rc.sess.addFlash(flash)
	}
	redirectBack(w, r, fallback)
}
