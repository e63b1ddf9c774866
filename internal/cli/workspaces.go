package cli

import (
	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspacesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws"},
		Short:   "Workspace commands",
	}
	cmd.AddCommand(newWorkspacesCreateCmd(app))
	cmd.AddCommand(newWorkspacesListCmd(app))
	cmd.AddCommand(newWorkspacesShowCmd(app))
	cmd.AddCommand(newWorkspacesUpdateCmd(app))
	cmd.AddCommand(newWorkspacesDeleteCmd(app))
	return cmd
}

func newWorkspacesCreateCmd(app *App) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace with the default category, statuses and priorities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Workspace, error) {
				return mutate.CreateWorkspace(db, userID, mutate.WorkspaceInput{Name: args[0], Description: description})
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Workspace description")
	return cmd
}

func newWorkspacesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]model.Workspace, error) {
				return nonNil(mutate.ListWorkspaces(db, userID)), nil
			})
		},
	}
}

type workspaceDetail struct {
	Workspace  *model.Workspace `json:"workspace"`
	Categories []model.Category `json:"categories"`
	Statuses   []model.Status   `json:"statuses"`
	Priorities []model.Priority `json:"priorities"`
}

func newWorkspacesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <workspace-id>",
		Short: "Show a workspace with its settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) (workspaceDetail, error) {
				ws, err := mutate.GetWorkspace(db, userID, args[0])
				if err != nil {
					return workspaceDetail{}, err
				}
				return workspaceDetail{
					Workspace:  ws,
					Categories: nonNil(mutate.ListCategories(db, userID, ws.ID)),
					Statuses:   nonNil(mutate.ListStatuses(db, userID, ws.ID)),
					Priorities: nonNil(mutate.ListPriorities(db, userID, ws.ID)),
				}, nil
			})
		},
	}
}

func newWorkspacesUpdateCmd(app *App) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <workspace-id>",
		Short: "Rename or describe a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Workspace, error) {
				return mutate.UpdateWorkspace(db, userID, args[0], mutate.WorkspacePatch{
					Name:        setIf(cmd, "name", name),
					Description: setIf(cmd, "description", description),
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newWorkspacesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workspace-id>...",
		Short: "Delete workspaces with everything filed under them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				return args, mutate.DeleteWorkspaces(db, userID, args)
			})
		},
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
