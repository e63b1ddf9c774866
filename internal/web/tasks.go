package web

import (
	"net/http"
	"strings"
	"time"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/tree"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

type taskLineVM struct {
	tree.Row
	Depth       int
	HasChildren bool
	State       tree.NodeState
}

type sortVM struct {
	Name      string
	Direction string
}

type taskTreeVM struct {
	Lines         []taskLineVM
	Page          int
	Pages         int
	PageSize      int
	Roots         int
	Matched       int
	AllSelected   bool
	SelectedCount int
}

type tasksVM struct {
	baseVM
	Tree taskTreeVM

	Filters   tree.Filters
	Due       string
	Start     string
	Search    string
	Sorts     []sortVM
	SortNames []string

	Workspaces []model.Workspace
	Categories []model.Category
	Statuses   []model.Status
	Priorities []model.Priority
	Tags       []model.Tag
}

// taskView derives the session's task view. Callers hold sess.mu.
func taskView(db *store.DB, userID string, sess *session) (tree.View[tree.Row], []tree.Row) {
	rows := tree.RowsFor(db, mutate.ListTasks(db, userID))
	sess.taskUI.Sync(tree.RowIDs(rows))
	return sess.tasks.Derive(rows), rows
}

func buildTaskTree(v tree.View[tree.Row], sess *session) taskTreeVM {
	pages := tree.PageCount(len(v.Roots), sess.pageSize)
	if sess.page > pages && pages > 0 {
		sess.page = pages
	}
	vm := taskTreeVM{
		Page:     max(sess.page, 1),
		Pages:    pages,
		PageSize: sess.pageSize,
		Roots:    len(v.Roots),
		Matched:  v.Len(),
	}
	for _, l := range tree.Flatten(v, tree.Paginate(v.Roots, sess.page, sess.pageSize), sess.taskUI) {
		vm.Lines = append(vm.Lines, taskLineVM{Row: l.Node, Depth: l.Depth, HasChildren: l.HasChildren, State: l.State})
	}
	vm.AllSelected = sess.taskUI.AllSelected()
	vm.SelectedCount = len(visibleSelection(v, sess.taskUI))
	return vm
}

// visibleSelection is the selection restricted to the current view.
func visibleSelection(v tree.View[tree.Row], ui *tree.UIState) []string {
	in := map[string]bool{}
	for _, n := range v.Nodes() {
		in[n.ID] = true
	}
	var out []string
	for _, id := range ui.SelectedIDs() {
		if in[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *Server) tasksPage(r *http.Request, rc *reqCtx) (tasksVM, error) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		return tasksVM{}, err
	}
	uid := rc.user.ID
	sess := rc.sess

	sess.mu.Lock()
	defer sess.mu.Unlock()
	v, _ := taskView(db, uid, sess)
	f := sess.tasks.Filters
	vm := tasksVM{
		Tree:       buildTaskTree(v, sess),
		Filters:    f,
		Search:     strings.Join(sess.tasks.Search, ", "),
		SortNames:  tree.TaskSortNames,
		Workspaces: mutate.ListWorkspaces(db, uid),
		Categories: mutate.ListCategories(db, uid, f.WorkspaceIDs...),
		Statuses:   mutate.ListStatuses(db, uid, f.WorkspaceIDs...),
		Priorities: mutate.ListPriorities(db, uid, f.WorkspaceIDs...),
		Tags:       mutate.ListTags(db, uid),
	}
	if f.Due != nil {
		vm.Due = f.Due.Format(dateLayout)
	}
	if f.Start != nil {
		vm.Start = f.Start.Format(dateLayout)
	}
	for _, sp := range sess.tasks.Sorts {
		vm.Sorts = append(vm.Sorts, sortVM{Name: sp.Name, Direction: string(sp.Direction)})
	}
	return vm, nil
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	vm, err := s.tasksPage(r, rc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	vm.baseVM = s.base(rc, "Tasks", "tasks", "/tasks/events")
	s.writeHTMLTemplate(w, http.StatusOK, "tasks.html", vm)
}

// handleTaskEvents streams a fresh #task-tree whenever the user's data changes.
func (s *Server) handleTaskEvents(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	sse := datastar.NewSSE(w, r)
	s.metrics.streams.Inc()
	defer s.metrics.streams.Dec()

	ch, cancel := s.bc.subscribe(userKey(rc.user.ID))
	defer cancel()
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-ch:
			vm, err := s.tasksPage(r, rc)
			if err != nil {
				s.log.Warn("task stream render", zap.Error(err))
				continue
			}
			html, err := s.renderTemplate("task_tree", vm)
			if err != nil {
				continue
			}
			if err := sse.PatchElements(html, datastar.WithSelector("#task-tree"), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
				return
			}
		}
	}
}

// uiAction applies a session-only change and redirects back to the task list.
func (s *Server) uiAction(w http.ResponseWriter, r *http.Request, rc *reqCtx, fn func(db *store.DB, sess *session) error) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	err = fn(db, rc.sess)
	rc.sess.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirectBack(w, r, "/tasks")
}

func (s *Server) handleTaskFilters(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(db *store.DB, sess *session) error {
		due, err := formDate(r, "due")
		if err != nil {
			return err
		}
		start, err := formDate(r, "start")
		if err != nil {
			return err
		}
		vis, ok := tree.ParseVisibility(formString(r, "visibility"))
		if !ok {
			return badRequest("visibility must be all, active or archived")
		}
		st := sess.tasks
		st.SetCategories(formValues(r, "category"))
		st.SetStatuses(formValues(r, "status"))
		st.SetPriorities(formValues(r, "priority"))
		st.SetTags(formValues(r, "tag"))
		st.SetVisibility(vis)
		st.SetDue(endOfDay(due))
		st.SetStart(endOfDay(start))
		st.SetWorkspaces(formValues(r, "workspace"), tree.CatalogFrom(db))
		sess.page = 1
		return nil
	})
}

func (s *Server) handleTaskFiltersReset(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(_ *store.DB, sess *session) error {
		sess.tasks.ResetFilters()
		sess.page = 1
		return nil
	})
}

func (s *Server) handleTaskSearch(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(_ *store.DB, sess *session) error {
		sess.tasks.SetSearch(r.Form.Get("q"))
		sess.page = 1
		return nil
	})
}

func (s *Server) handleTaskSort(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(_ *store.DB, sess *session) error {
		dir, err := tree.ParseDirection(formString(r, "dir"))
		if err != nil {
			return badRequest(err.Error())
		}
		spec, err := tree.TaskSort(formString(r, "name"), dir)
		if err != nil {
			return badRequest(err.Error())
		}
		sess.tasks.UpdateSort(spec)
		return nil
	})
}

func (s *Server) handleTaskSortReset(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(_ *store.DB, sess *session) error {
		sess.tasks.ResetSort()
		return nil
	})
}

func (s *Server) handleTaskPage(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(_ *store.DB, sess *session) error {
		page, err := formInt(r, "page", sess.page)
		if err != nil {
			return err
		}
		size, err := formInt(r, "size", sess.pageSize)
		if err != nil {
			return err
		}
		sess.page, sess.pageSize = max(page, 1), max(size, 1)
		return nil
	})
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	id := r.PathValue("id")
	s.uiAction(w, r, rc, func(db *store.DB, sess *session) error {
		v, _ := taskView(db, rc.user.ID, sess)
		if !sess.taskUI.Has(id) {
			return mutate.NotFoundError{Kind: "Task", ID: id}
		}
		switch r.PathValue("what") {
		case "expand":
			sess.taskUI.ToggleExpand(id)
		case "expand-all":
			sess.taskUI.ToggleExpandAll(id, v)
		case "select":
			sess.taskUI.ToggleSelection(id, v)
		case "add-child":
			sess.taskUI.ToggleAddChildVisible(id)
		default:
			return badRequest("unknown toggle (expected expand|expand-all|select|add-child)")
		}
		return nil
	})
}

func (s *Server) handleTaskSelectAll(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.uiAction(w, r, rc, func(db *store.DB, sess *session) error {
		taskView(db, rc.user.ID, sess)
		sess.taskUI.ToggleAllSelection()
		return nil
	})
}

func (s *Server) handleTaskDeleteSelected(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	var removed []string
	err := s.change(r, rc, "task.delete", func(db *store.DB) error {
		rc.sess.mu.Lock()
		v, _ := taskView(db, rc.user.ID, rc.sess)
		ids := visibleSelection(v, rc.sess.taskUI)
		rc.sess.mu.Unlock()
		var err error
		removed, err = mutate.DeleteTasks(db, rc.user.ID, ids)
		return err
	})
	rc.sess.mu.Lock()
	rc.sess.taskUI.Remove(removed...)
	rc.sess.mu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.addFlash("Tasks deleted.")
	redirectBack(w, r, "/tasks")
}

// taskInput reads the create form. Tag names are created on demand.
func taskInput(db *store.DB, userID string, r *http.Request) (mutate.TaskInput, error) {
	in := mutate.TaskInput{
		CategoryID:          formString(r, "category"),
		ParentID:            formOptional(r, "parent"),
		Title:               formString(r, "title"),
		Description:         strings.TrimSpace(r.Form.Get("description")),
		ArchiveOnCompletion: formBool(r, "archiveOnCompletion"),
		StatusID:            formOptional(r, "status"),
		PriorityID:          formOptional(r, "priority"),
	}
	var err error
	if in.StartDate, err = formDate(r, "startDate"); err != nil {
		return in, err
	}
	if in.EndDate, err = formDate(r, "endDate"); err != nil {
		return in, err
	}
	if in.EstimatedStart, err = formDate(r, "estimatedStart"); err != nil {
		return in, err
	}
	if in.EstimatedEnd, err = formDate(r, "estimatedEnd"); err != nil {
		return in, err
	}
	if in.ParentID != nil && in.CategoryID == "" {
		if p, ok := db.FindTask(*in.ParentID); ok {
			in.CategoryID = p.CategoryID
		}
	}
	if names := formValues(r, "tags"); len(names) > 0 {
		if in.TagIDs, err = mutate.EnsureTags(db, userID, names); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "task.create", "Task created.", "/tasks", func(db *store.DB) error {
		in, err := taskInput(db, rc.user.ID, r)
		if err != nil {
			return err
		}
		t, err := mutate.CreateTask(db, rc.user.ID, in)
		if err != nil {
			return err
		}
		if in.ParentID != nil {
			rc.sess.mu.Lock()
			rc.sess.taskUI.SetExpanded(*in.ParentID, true)
			rc.sess.taskUI.SetAddChildVisible(*in.ParentID, false)
			rc.sess.mu.Unlock()
		}
		s.log.Debug("task created", zap.String("id", t.ID))
		return nil
	})
}

type taskVM struct {
	baseVM
	Task       *model.Task
	Row        tree.Row
	Ancestors  []tree.Row
	Children   []tree.Row
	Categories []model.Category
	Statuses   []model.Status
	Priorities []model.Priority
	Tags       string
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	db, err := s.st.LoadContext(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	uid := rc.user.ID
	t, err := mutate.GetTask(db, uid, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := tree.RowsFor(db, mutate.ListTasks(db, uid))
	f := tree.NewForest(rows)
	row, _ := f.Get(t.ID)
	wsID, _ := db.WorkspaceIDForTask(t.ID)
	vm := taskVM{
		baseVM:     s.base(rc, t.Title, "tasks", ""),
		Task:       t,
		Row:        row,
		Ancestors:  f.Ancestors(t.ID),
		Children:   f.Children(t.ID),
		Categories: mutate.ListCategories(db, uid, wsID),
		Statuses:   mutate.ListStatuses(db, uid, wsID),
		Priorities: mutate.ListPriorities(db, uid, wsID),
		Tags:       strings.Join(row.TagNames, ", "),
	}
	s.writeHTMLTemplate(w, http.StatusOK, "task.html", vm)
}

// handleTaskUpdate patches only the fields present in the form.
func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	id := r.PathValue("id")
	s.act(w, r, rc, "task.update", "Task saved.", "/tasks/"+id, func(db *store.DB) error {
		var p mutate.TaskPatch
		if formHas(r, "title") {
			p.Title = mutate.Some(formString(r, "title"))
		}
		if formHas(r, "description") {
			p.Description = mutate.Some(strings.TrimSpace(r.Form.Get("description")))
		}
		if formHas(r, "archiveOnCompletion") || formHas(r, "archiveOnCompletionSent") {
			p.ArchiveOnCompletion = mutate.Some(formBool(r, "archiveOnCompletion"))
		}
		for key, dst := range map[string]*mutate.Opt[*time.Time]{
			"startDate":      &p.StartDate,
			"endDate":        &p.EndDate,
			"estimatedStart": &p.EstimatedStart,
			"estimatedEnd":   &p.EstimatedEnd,
		} {
			if !formHas(r, key) {
				continue
			}
			d, err := formDate(r, key)
			if err != nil {
				return err
			}
			*dst = mutate.Some(d)
		}
		if formHas(r, "status") {
			p.StatusID = mutate.Some(formOptional(r, "status"))
		}
		if formHas(r, "priority") {
			p.PriorityID = mutate.Some(formOptional(r, "priority"))
		}
		if formHas(r, "tags") {
			ids, err := mutate.EnsureTags(db, rc.user.ID, formValues(r, "tags"))
			if err != nil {
				return err
			}
			p.TagIDs = mutate.Some(ids)
		}
		_, err := mutate.UpdateTask(db, rc.user.ID, id, p)
		return err
	})
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	var removed []string
	err := s.change(r, rc, "task.delete", func(db *store.DB) error {
		var err error
		removed, err = mutate.DeleteTask(db, rc.user.ID, r.PathValue("id"))
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	rc.sess.taskUI.Remove(removed...)
	rc.sess.mu.Unlock()
	rc.sess.addFlash("Task deleted.")
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "task.status", "", "/tasks", func(db *store.DB) error {
		_, err := mutate.SetTaskStatus(db, rc.user.ID, r.PathValue("id"), formString(r, "status"))
		return err
	})
}

func (s *Server) handleTaskArchive(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	archived := !formHas(r, "archived") || formBool(r, "archived")
	flash := "Task archived."
	if !archived {
		flash = "Task restored."
	}
	s.act(w, r, rc, "task.archive", flash, "/tasks", func(db *store.DB) error {
		_, err := mutate.SetTaskArchived(db, rc.user.ID, r.PathValue("id"), archived)
		return err
	})
}

func (s *Server) handleTaskMove(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	s.act(w, r, rc, "task.move", "Task moved.", "/tasks", func(db *store.DB) error {
		_, err := mutate.MoveTask(db, rc.user.ID, r.PathValue("id"), formString(r, "category"), formOptional(r, "parent"))
		return err
	})
}
