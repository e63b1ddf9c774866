package cli

import (
	"fmt"
	"time"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/tree"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksTreeCmd(app))
	return cmd
}

// taskFlags are the editable task fields shared by create and update.
type taskFlags struct {
	title               string
	description         string
	archived            bool
	archiveOnCompletion bool
	start               string
	end                 string
	estimatedStart      string
	estimatedEnd        string
	statusID            string
	priorityID          string
	tags                []string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description (markdown)")
	cmd.Flags().BoolVar(&f.archiveOnCompletion, "archive-on-completion", false, "Archive when moved to a completion status")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End (due) date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.estimatedStart, "estimated-start", "", "Estimated start date")
	cmd.Flags().StringVar(&f.estimatedEnd, "estimated-end", "", "Estimated end date")
	cmd.Flags().StringVar(&f.statusID, "status", "", "Status id")
	cmd.Flags().StringVar(&f.priorityID, "priority", "", "Priority id")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag name, created when missing (repeatable)")
}

// dates parses the four date flags. Unset flags stay nil.
func (f *taskFlags) dates() (map[string]*time.Time, error) {
	out := map[string]*time.Time{}
	for flag, raw := range map[string]string{
		"start":           f.start,
		"end":             f.end,
		"estimated-start": f.estimatedStart,
		"estimated-end":   f.estimatedEnd,
	} {
		t, err := parseDate(raw)
		if err != nil {
			return nil, mutate.ValidationError{Messages: []string{fmt.Sprintf("--%s: %v", flag, err)}}
		}
		out[flag] = t
	}
	return out, nil
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var f taskFlags
	var categoryID, parentID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Task, error) {
				dates, err := f.dates()
				if err != nil {
					return nil, err
				}
				tagIDs, err := mutate.EnsureTags(db, userID, f.tags)
				if err != nil {
					return nil, err
				}
				return mutate.CreateTask(db, userID, mutate.TaskInput{
					CategoryID:          categoryID,
					ParentID:            optionalRef(parentID),
					Title:               f.title,
					Description:         f.description,
					ArchiveOnCompletion: f.archiveOnCompletion,
					StartDate:           dates["start"],
					EndDate:             dates["end"],
					EstimatedStart:      dates["estimated-start"],
					EstimatedEnd:        dates["estimated-end"],
					StatusID:            optionalRef(f.statusID),
					PriorityID:          optionalRef(f.priorityID),
					TagIDs:              tagIDs,
				})
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&categoryID, "category", "", "Category id")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task id")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every task you can see, flat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]tree.Row, error) {
				return nonNil(tree.RowsFor(db, mutate.ListTasks(db, userID))), nil
			})
		},
	}
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) (tree.Row, error) {
				t, err := mutate.GetTask(db, userID, args[0])
				if err != nil {
					return tree.Row{}, err
				}
				return tree.RowsFor(db, []model.Task{*t})[0], nil
			})
		},
	}
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update the passed fields of a task (an empty date clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Task, error) {
				dates, err := f.dates()
				if err != nil {
					return nil, err
				}
				p := mutate.TaskPatch{
					Title:               setIf(cmd, "title", f.title),
					Description:         setIf(cmd, "description", f.description),
					IsArchived:          setIf(cmd, "archived", f.archived),
					ArchiveOnCompletion: setIf(cmd, "archive-on-completion", f.archiveOnCompletion),
					StartDate:           setIf(cmd, "start", dates["start"]),
					EndDate:             setIf(cmd, "end", dates["end"]),
					EstimatedStart:      setIf(cmd, "estimated-start", dates["estimated-start"]),
					EstimatedEnd:        setIf(cmd, "estimated-end", dates["estimated-end"]),
					StatusID:            setIf(cmd, "status", optionalRef(f.statusID)),
					PriorityID:          setIf(cmd, "priority", optionalRef(f.priorityID)),
				}
				if cmd.Flags().Changed("tag") {
					tagIDs, err := mutate.EnsureTags(db, userID, f.tags)
					if err != nil {
						return nil, err
					}
					p.TagIDs = mutate.Some(tagIDs)
				}
				return mutate.UpdateTask(db, userID, args[0], p)
			})
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.archived, "archived", false, "Archive (or with =false, unarchive)")
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var categoryID, parentID string
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task and its subtree to another category or parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (mutate.MoveResult, error) {
				return mutate.MoveTask(db, userID, args[0], categoryID, optionalRef(parentID))
			})
		},
	}
	cmd.Flags().StringVar(&categoryID, "category", "", "Target category id")
	cmd.Flags().StringVar(&parentID, "parent", "", "Target parent task id (empty for a root)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>...",
		Short: "Delete tasks with their subtasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				removed, err := mutate.DeleteTasks(db, userID, args)
				return nonNil(removed), err
			})
		},
	}
}

type taskTreeOut struct {
	Page     int                  `json:"page"`
	Pages    int                  `json:"pages"`
	PageSize int                  `json:"pageSize"`
	Roots    int                  `json:"roots"`
	Matched  int                  `json:"matched"`
	Filters  tree.Filters         `json:"filters"`
	Sorts    string               `json:"sorts,omitempty"`
	Tree     []treeNode[tree.Row] `json:"tree"`
}

func newTasksTreeCmd(app *App) *cobra.Command {
	var workspaces, categories, statuses, priorities, tags, sorts []string
	var visibility, due, start, search string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the filtered, searched and sorted task forest one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) (taskTreeOut, error) {
				st := tree.NewState()
				st.SetCategories(categories)
				st.SetStatuses(statuses)
				st.SetPriorities(priorities)
				st.SetTags(tags)
				// Last, so the workspace selection prunes the settings picked above.
				st.SetWorkspaces(workspaces, tree.CatalogFrom(db))
				if cmd.Flags().Changed("visibility") {
					v, ok := tree.ParseVisibility(visibility)
					if !ok {
						return taskTreeOut{}, mutate.ValidationError{Messages: []string{"--visibility must be one of all, active, archived."}}
					}
					st.SetVisibility(v)
				}
				for _, b := range []struct {
					flag, raw string
					set       func(*time.Time)
				}{{"due", due, st.SetDue}, {"start", start, st.SetStart}} {
					t, err := parseDate(b.raw)
					if err != nil {
						return taskTreeOut{}, mutate.ValidationError{Messages: []string{fmt.Sprintf("--%s: %v", b.flag, err)}}
					}
					b.set(endOfDay(t))
				}
				st.SetSearch(search)
				parsed, err := tree.ParseTaskSorts(sorts)
				if err != nil {
					return taskTreeOut{}, mutate.ValidationError{Messages: []string{err.Error()}}
				}
				st.Sorts = parsed

				v := st.Derive(tree.RowsFor(db, mutate.ListTasks(db, userID)))
				if pageSize <= 0 {
					pageSize = tree.DefaultPageSize
				}
				pages := tree.PageCount(len(v.Roots), pageSize)
				page = max(min(page, pages), 1)
				return taskTreeOut{
					Page:     page,
					Pages:    pages,
					PageSize: pageSize,
					Roots:    len(v.Roots),
					Matched:  v.Len(),
					Filters:  st.Filters,
					Sorts:    st.Sorts.String(),
					Tree:     nest(v, tree.Paginate(v.Roots, page, pageSize)),
				}, nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&workspaces, "workspace", nil, "Workspace id (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Category id (repeatable)")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Status id (repeatable)")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "Priority id (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag id (repeatable)")
	cmd.Flags().StringVar(&visibility, "visibility", string(tree.VisibilityActive), "all|active|archived")
	cmd.Flags().StringVar(&due, "due", "", "Only tasks due on or before this date")
	cmd.Flags().StringVar(&start, "start", "", "Only tasks starting on or before this date")
	cmd.Flags().StringVar(&search, "search", "", "Comma separated title patterns")
	cmd.Flags().StringSliceVar(&sorts, "sort", nil, "name:asc|desc, repeatable; the last one is most significant")
	cmd.Flags().IntVar(&page, "page", 1, "Page (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", tree.DefaultPageSize, "Root tasks per page")
	return cmd
}
