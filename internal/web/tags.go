package web

import (
	"net/http"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
)

type tagsVM struct {
	baseVM
	Tags   []model.Tag
	Search string
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query().Get("q")
	vm := tagsVM{
		baseVM: s.base(rc, "Tags", "tags", ""),
		Tags:   mutate.SearchTags(db, rc.user.ID, q),
		Search: q,
	}
	s.writeHTMLTemplate(w, http.StatusOK, "tags.html", vm)
}

func (s *Server) handleTagCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "tag.create", "Tag created.", "/tags", func(db *store.DB) error {
		_, err := mutate.CreateTag(db, rc.user.ID, mutate.TagInput{Name: formString(r, "name")})
		return err
	})
}

func (s *Server) handleTagsDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "tag.delete", "Tags deleted.", "/tags", func(db *store.DB) error {
		ids := formValues(r, "id")
		if len(ids) == 0 {
			return badRequest("nothing selected")
		}
		return mutate.DeleteTags(db, rc.user.ID, ids)
	})
}

func (s *Server) handleTagUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "tag.update", "Tag renamed.", "/tags", func(db *store.DB) error {
		_, err := mutate.UpdateTag(db, rc.user.ID, r.PathValue("id"), formString(r, "name"))
		return err
	})
}

func (s *Server) handleTagDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "tag.delete", "Tag deleted.", "/tags", func(db *store.DB) error {
		return mutate.DeleteTag(db, rc.user.ID, r.PathValue("id"))
	})
}
