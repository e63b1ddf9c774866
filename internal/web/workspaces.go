package web

import (
	"net/http"
	"strings"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/tree"
)

type workspacesVM struct {
	baseVM
	Workspaces []model.Workspace
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	vm := workspacesVM{
		baseVM:     s.base(rc, "Workspaces", "workspaces", ""),
		Workspaces: mutate.ListWorkspaces(db, rc.user.ID),
	}
	s.writeHTMLTemplate(w, http.StatusOK, "workspaces.html", vm)
}

func (s *Server) handleWorkspaceCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "workspace.create", "Workspace created.", "/workspaces", func(db *store.DB) error {
		_, err := mutate.CreateWorkspace(db, rc.user.ID, mutate.WorkspaceInput{
			Name:        formString(r, "name"),
			Description: strings.TrimSpace(r.Form.Get("description")),
		})
		return err
	})
}

func (s *Server) handleWorkspacesDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "workspace.delete", "Workspaces deleted.", "/workspaces", func(db *store.DB) error {
		ids := formValues(r, "id")
		if len(ids) == 0 {
			return badRequest("nothing selected")
		}
		return mutate.DeleteWorkspaces(db, rc.user.ID, ids)
	})
}

type categoryLineVM struct {
	model.Category
	Depth       int
	HasChildren bool
	State       tree.NodeState
}

type workspaceVM struct {
	baseVM
	Workspace   *model.Workspace
	Categories  []categoryLineVM
	AllCats     []model.Category
	Search      string
	AllSelected bool
	Statuses    []model.Status
	Priorities  []model.Priority
}

func (s *Server) handleWorkspaceSettings(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	uid := rc.user.ID
	ws, err := mutate.GetWorkspace(db, uid, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats := mutate.ListCategories(db, uid, ws.ID)
	vm := workspaceVM{
		baseVM:     s.base(rc, ws.Name, "workspaces", ""),
		Workspace:  ws,
		AllCats:    cats,
		Statuses:   mutate.ListStatuses(db, uid, ws.ID),
		Priorities: mutate.ListPriorities(db, uid, ws.ID),
	}

	sess := rc.sess
	sess.mu.Lock()
	v, ui := categoryView(sess, ws.ID, cats)
	for _, l := range tree.Flatten(v, v.Roots, ui) {
		vm.Categories = append(vm.Categories, categoryLineVM{Category: l.Node, Depth: l.Depth, HasChildren: l.HasChildren, State: l.State})
	}
	vm.Search = strings.Join(sess.catSearch[ws.ID], ", ")
	vm.AllSelected = ui.AllSelected()
	sess.mu.Unlock()

	s.writeHTMLTemplate(w, http.StatusOK, "workspace.html", vm)
}

// categoryView derives the workspace's category tree. Callers hold sess.mu.
func categoryView(sess *session, workspaceID string, cats []model.Category) (tree.View[model.Category], *tree.UIState) {
	ui := sess.categoryUI(workspaceID)
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	ui.Sync(ids)
	return tree.CategoryTree(cats, sess.catSearch[workspaceID]), ui
}

func (s *Server) handleWorkspaceUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	id := r.PathValue("id")
	s.act(w, r, rc, "workspace.update", "Workspace saved.", "/workspaces/"+id, func(db *store.DB) error {
		var p mutate.WorkspacePatch
		if formHas(r, "name") {
			p.Name = mutate.Some(formString(r, "name"))
		}
		if formHas(r, "description") {
			p.Description = mutate.Some(strings.TrimSpace(r.Form.Get("description")))
		}
		_, err := mutate.UpdateWorkspace(db, rc.user.ID, id, p)
		return err
	})
}

func (s *Server) handleWorkspaceDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	if err := s.change(r, rc, "workspace.delete", func(db *store.DB) error {
		return mutate.DeleteWorkspace(db, rc.user.ID, r.PathValue("id"))
	}); err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.addFlash("Workspace deleted.")
	http.Redirect(w, r, "/workspaces", http.StatusSeeOther)
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	s.act(w, r, rc, "category.create", "Category created.", "/workspaces/"+wsID, func(db *store.DB) error {
		order, err := formInt(r, "order", 0)
		if err != nil {
			return err
		}
		in := mutate.CategoryInput{
			WorkspaceID: wsID,
			ParentID:    formOptional(r, "parent"),
			Name:        formString(r, "name"),
			Description: strings.TrimSpace(r.Form.Get("description")),
			Order:       order,
		}
		if _, err := mutate.CreateCategory(db, rc.user.ID, in); err != nil {
			return err
		}
		if in.ParentID != nil {
			rc.sess.mu.Lock()
			ui := rc.sess.categoryUI(wsID)
			ui.SetExpanded(*in.ParentID, true)
			ui.SetAddChildVisible(*in.ParentID, false)
			rc.sess.mu.Unlock()
		}
		return nil
	})
}

func (s *Server) handleCategorySearch(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	rc.sess.mu.Lock()
	if q := tree.ParseSearch(r.Form.Get("q")); q != nil {
		rc.sess.catSearch[wsID] = q
	} else {
		delete(rc.sess.catSearch, wsID)
	}
	rc.sess.mu.Unlock()
	redirectBack(w, r, "/workspaces/"+wsID)
}

func (s *Server) handleCategorySelectAll(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := mutate.GetWorkspace(db, rc.user.ID, wsID); err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	_, ui := categoryView(rc.sess, wsID, mutate.ListCategories(db, rc.user.ID, wsID))
	ui.ToggleAllSelection()
	rc.sess.mu.Unlock()
	redirectBack(w, r, "/workspaces/"+wsID)
}

// handleCategoryDeleteSelected deletes the selected categories that are part of the
// current (searched) tree.
func (s *Server) handleCategoryDeleteSelected(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	s.act(w, r, rc, "category.delete", "Categories deleted.", "/workspaces/"+wsID, func(db *store.DB) error {
		if _, err := mutate.GetWorkspace(db, rc.user.ID, wsID); err != nil {
			return err
		}
		rc.sess.mu.Lock()
		defer rc.sess.mu.Unlock()
		v, ui := categoryView(rc.sess, wsID, mutate.ListCategories(db, rc.user.ID, wsID))
		in := map[string]bool{}
		for _, c := range v.Nodes() {
			in[c.ID] = true
		}
		var ids []string
		for _, id := range ui.SelectedIDs() {
			if in[id] {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return badRequest("nothing selected")
		}
		if err := mutate.DeleteCategories(db, rc.user.ID, ids); err != nil {
			return err
		}
		ui.Remove(ids...)
		return nil
	})
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "category.update", "Category saved.", "/workspaces", func(db *store.DB) error {
		var p mutate.CategoryPatch
		if formHas(r, "name") {
			p.Name = mutate.Some(formString(r, "name"))
		}
		if formHas(r, "description") {
			p.Description = mutate.Some(strings.TrimSpace(r.Form.Get("description")))
		}
		if formHas(r, "parent") {
			p.ParentID = mutate.Some(formOptional(r, "parent"))
		}
		if formHas(r, "order") {
			n, err := formInt(r, "order", 0)
			if err != nil {
				return err
			}
			p.Order = mutate.Some(n)
		}
		_, err := mutate.UpdateCategory(db, rc.user.ID, r.PathValue("id"), p)
		return err
	})
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "category.delete", "Category deleted.", "/workspaces", func(db *store.DB) error {
		return mutate.DeleteCategory(db, rc.user.ID, r.PathValue("id"))
	})
}

func (s *Server) handleCategoryToggle(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := mutate.GetCategory(db, rc.user.ID, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	v, ui := categoryView(rc.sess, c.WorkspaceID, mutate.ListCategories(db, rc.user.ID, c.WorkspaceID))
	switch r.PathValue("what") {
	case "expand":
		ui.ToggleExpand(c.ID)
	case "expand-all":
		ui.ToggleExpandAll(c.ID, v)
	case "select":
		ui.ToggleSelection(c.ID, v)
	case "add-child":
		ui.ToggleAddChildVisible(c.ID)
	default:
		err = badRequest("unknown toggle (expected expand|expand-all|select|add-child)")
	}
	rc.sess.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirectBack(w, r, "/workspaces/"+c.WorkspaceID)
}

func (s *Server) handleStatusCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	s.act(w, r, rc, "status.create", "Status created.", "/workspaces/"+wsID, func(db *store.DB) error {
		group, order, err := groupAndOrder(r)
		if err != nil {
			return err
		}
		_, err = mutate.CreateStatus(db, rc.user.ID, mutate.StatusInput{
			WorkspaceID:  wsID,
			Name:         formString(r, "name"),
			Code:         formString(r, "code"),
			Group:        group,
			Order:        order,
			IsCompletion: formBool(r, "isCompletion"),
		})
		return err
	})
}

func (s *Server) handleStatusUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "status.update", "Status saved.", "/workspaces", func(db *store.DB) error {
		var p mutate.StatusPatch
		if err := settingPatch(r, &p.Name, &p.Code, &p.Group, &p.Order); err != nil {
			return err
		}
		if formHas(r, "isCompletion") || formHas(r, "isCompletionSent") {
			p.IsCompletion = mutate.Some(formBool(r, "isCompletion"))
		}
		_, err := mutate.UpdateStatus(db, rc.user.ID, r.PathValue("id"), p)
		return err
	})
}

func (s *Server) handleStatusDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "status.delete", "Status deleted.", "/workspaces", func(db *store.DB) error {
		return mutate.DeleteStatus(db, rc.user.ID, r.PathValue("id"))
	})
}

func (s *Server) handlePriorityCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	wsID := r.PathValue("id")
	s.act(w, r, rc, "priority.create", "Priority created.", "/workspaces/"+wsID, func(db *store.DB) error {
		group, order, err := groupAndOrder(r)
		if err != nil {
			return err
		}
		_, err = mutate.CreatePriority(db, rc.user.ID, mutate.PriorityInput{
			WorkspaceID: wsID,
			Name:        formString(r, "name"),
			Code:        formString(r, "code"),
			Group:       group,
			Order:       order,
		})
		return err
	})
}

func (s *Server) handlePriorityUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "priority.update", "Priority saved.", "/workspaces", func(db *store.DB) error {
		var p mutate.PriorityPatch
		if err := settingPatch(r, &p.Name, &p.Code, &p.Group, &p.Order); err != nil {
			return err
		}
		_, err := mutate.UpdatePriority(db, rc.user.ID, r.PathValue("id"), p)
		return err
	})
}

func (s *Server) handlePriorityDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "priority.delete", "Priority deleted.", "/workspaces", func(db *store.DB) error {
		return mutate.DeletePriority(db, rc.user.ID, r.PathValue("id"))
	})
}

func groupAndOrder(r *http.Request) (group, order int, err error) {
	if group, err = formInt(r, "group", 0); err != nil {
		return 0, 0, err
	}
	if order, err = formInt(r, "order", 0); err != nil {
		return 0, 0, err
	}
	return group, order, nil
}

// settingPatch fills the fields statuses and priorities share from the submitted form.
func settingPatch(r *http.Request, name, code *mutate.Opt[string], group, order *mutate.Opt[int]) error {
	if formHas(r, "name") {
		*name = mutate.Some(formString(r, "name"))
	}
	if formHas(r, "code") {
		*code = mutate.Some(formString(r, "code"))
	}
	for key, dst := range map[string]*mutate.Opt[int]{"group": group, "order": order} {
		if !formHas(r, key) {
			continue
		}
		n, err := formInt(r, key, 0)
		if err != nil {
			return err
		}
		*dst = mutate.Some(n)
	}
	return nil
}
