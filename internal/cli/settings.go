package cli

import (
	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/spf13/cobra"
)

// settingFlags are shared by status and priority commands.
type settingFlags struct {
	workspaceID  string
	name         string
	code         string
	group        int
	order        int
	isCompletion bool
}

func (f *settingFlags) bind(cmd *cobra.Command, create, completion bool) {
	if create {
		cmd.Flags().StringVar(&f.workspaceID, "workspace", "", "Workspace id")
		_ = cmd.MarkFlagRequired("workspace")
	}
	cmd.Flags().StringVar(&f.name, "name", "", "Name")
	cmd.Flags().StringVar(&f.code, "code", "", "Short code")
	cmd.Flags().IntVar(&f.group, "group", 0, "Group")
	cmd.Flags().IntVar(&f.order, "order", 0, "Order (unique within the workspace)")
	if completion {
		cmd.Flags().BoolVar(&f.isCompletion, "completion", false, "Marks tasks as complete")
	}
}

func newStatusesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statuses",
		Short: "Workspace status settings",
	}

	var cf settingFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Status, error) {
				return mutate.CreateStatus(db, userID, mutate.StatusInput{
					WorkspaceID:  cf.workspaceID,
					Name:         cf.name,
					Code:         cf.code,
					Group:        cf.group,
					Order:        cf.order,
					IsCompletion: cf.isCompletion,
				})
			})
		},
	}
	cf.bind(create, true, true)

	var workspaceIDs []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]model.Status, error) {
				return nonNil(mutate.ListStatuses(db, userID, workspaceIDs...)), nil
			})
		},
	}
	list.Flags().StringSliceVar(&workspaceIDs, "workspace", nil, "Workspace id (repeatable)")

	var uf settingFlags
	update := &cobra.Command{
		Use:   "update <status-id>",
		Short: "Update a status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Status, error) {
				return mutate.UpdateStatus(db, userID, args[0], mutate.StatusPatch{
					Name:         setIf(cmd, "name", uf.name),
					Code:         setIf(cmd, "code", uf.code),
					Group:        setIf(cmd, "group", uf.group),
					Order:        setIf(cmd, "order", uf.order),
					IsCompletion: setIf(cmd, "completion", uf.isCompletion),
				})
			})
		},
	}
	uf.bind(update, false, true)

	del := &cobra.Command{
		Use:   "delete <status-id>...",
		Short: "Delete statuses (tasks keep no status)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				return args, mutate.DeleteStatuses(db, userID, args)
			})
		},
	}

	cmd.AddCommand(create, list, update, del)
	return cmd
}

func newPrioritiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priorities",
		Short: "Workspace priority settings",
	}

	var cf settingFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Priority, error) {
				return mutate.CreatePriority(db, userID, mutate.PriorityInput{
					WorkspaceID: cf.workspaceID,
					Name:        cf.name,
					Code:        cf.code,
					Group:       cf.group,
					Order:       cf.order,
				})
			})
		},
	}
	cf.bind(create, true, false)

	var workspaceIDs []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List priorities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]model.Priority, error) {
				return nonNil(mutate.ListPriorities(db, userID, workspaceIDs...)), nil
			})
		},
	}
	list.Flags().StringSliceVar(&workspaceIDs, "workspace", nil, "Workspace id (repeatable)")

	var uf settingFlags
	update := &cobra.Command{
		Use:   "update <priority-id>",
		Short: "Update a priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Priority, error) {
				return mutate.UpdatePriority(db, userID, args[0], mutate.PriorityPatch{
					Name:  setIf(cmd, "name", uf.name),
					Code:  setIf(cmd, "code", uf.code),
					Group: setIf(cmd, "group", uf.group),
					Order: setIf(cmd, "order", uf.order),
				})
			})
		},
	}
	uf.bind(update, false, false)

	del := &cobra.Command{
		Use:   "delete <priority-id>...",
		Short: "Delete priorities (tasks keep no priority)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				return args, mutate.DeletePriorities(db, userID, args)
			})
		},
	}

	cmd.AddCommand(create, list, update, del)
	return cmd
}
