package web

import (
	"net/http"
	"strconv"

	"organizer/internal/counter"
	"organizer/internal/mutate"
)

type countersVM struct {
	baseVM
	Counters []counter.Counter
}

func (s *Server) handleCounters(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	vm := countersVM{baseVM: s.base(rc, "Counters", "counters", "")}
	rc.sess.mu.Lock()
	vm.Counters = rc.sess.counters.List()
	rc.sess.mu.Unlock()
	s.writeHTMLTemplate(w, http.StatusOK, "counters.html", vm)
}

func (s *Server) handleCounterCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	amount, err := formInt(r, "amount", counter.DefaultAmount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	base, err := formInt(r, "base", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	rc.sess.counters.Add(counter.New(formString(r, "title"), amount, base))
	rc.sess.mu.Unlock()
	redirectBack(w, r, "/counters")
}

func (s *Server) handleCounterAction(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.fail(w, r, badRequest("counter index must be a number"))
		return
	}
	cs := rc.sess.counters
	rc.sess.mu.Lock()
	err = counterAction(cs, i, r)
	rc.sess.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirectBack(w, r, "/counters")
}

func counterAction(cs *counter.Counters, i int, r *http.Request) error {
	action := r.PathValue("action")
	if action == "remove" {
		if !cs.Remove(i) {
			return mutate.NotFoundError{Kind: "Counter", ID: strconv.Itoa(i)}
		}
		return nil
	}
	c, ok := cs.At(i)
	if !ok {
		return mutate.NotFoundError{Kind: "Counter", ID: strconv.Itoa(i)}
	}
	switch action {
	case "inc":
		c.Increment()
	case "dec":
		c.Decrement()
	case "reset":
		c.Reset()
	case "settings":
		amount, err := formInt(r, "amount", c.Amount)
		if err != nil {
			return err
		}
		base, err := formInt(r, "base", c.Base)
		if err != nil {
			return err
		}
		c.SetAmount(amount)
		c.SetBase(base)
	default:
		return badRequest("unknown counter action (expected inc|dec|reset|settings|remove)")
	}
	return nil
}
