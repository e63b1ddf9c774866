package cli

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/tree"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "Category commands (categories nest inside a workspace)",
	}
	cmd.AddCommand(newCategoriesCreateCmd(app))
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesUpdateCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	cmd.AddCommand(newCategoriesTreeCmd(app))
	return cmd
}

func newCategoriesCreateCmd(app *App) *cobra.Command {
	var in mutate.CategoryInput
	var parentID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ParentID = optionalRef(parentID)
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Category, error) {
				return mutate.CreateCategory(db, userID, in)
			})
		},
	}
	cmd.Flags().StringVar(&in.WorkspaceID, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&in.Name, "name", "", "Category name")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent category id")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().IntVar(&in.Order, "order", 0, "Sort order among siblings")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	var workspaceIDs []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories, optionally limited to workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]model.Category, error) {
				return nonNil(mutate.ListCategories(db, userID, workspaceIDs...)), nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&workspaceIDs, "workspace", nil, "Workspace id (repeatable)")
	return cmd
}

func newCategoriesUpdateCmd(app *App) *cobra.Command {
	var name, description, parentID string
	var order int
	cmd := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Update a category (pass --parent \"\" to make it a root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Category, error) {
				return mutate.UpdateCategory(db, userID, args[0], mutate.CategoryPatch{
					Name:        setIf(cmd, "name", name),
					Description: setIf(cmd, "description", description),
					Order:       setIf(cmd, "order", order),
					ParentID:    setIf(cmd, "parent", optionalRef(parentID)),
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&parentID, "parent", "", "New parent category id")
	cmd.Flags().IntVar(&order, "order", 0, "New sort order")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category-id>...",
		Short: "Delete categories, their subcategories and their tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				return args, mutate.DeleteCategories(db, userID, args)
			})
		},
	}
}

func newCategoriesTreeCmd(app *App) *cobra.Command {
	var workspaceID, search string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a workspace's category tree, optionally narrowed by a name search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(workspaceID) == "" {
				return writeErr(cmd, errors.New("missing --workspace"))
			}
			return query(cmd, app, func(db *store.DB, userID string) ([]treeNode[model.Category], error) {
				if _, err := mutate.GetWorkspace(db, userID, workspaceID); err != nil {
					return nil, err
				}
				v := tree.CategoryTree(mutate.ListCategories(db, userID, workspaceID), tree.ParseSearch(search))
				return nest(v, v.Roots), nil
			})
		},
	}
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&search, "search", "", "Comma separated name patterns")
	return cmd
}

type treeNode[T any] struct {
	Node     T             `json:"node"`
	Children []treeNode[T] `json:"children,omitempty"`
}

// nest expands roots fully within v.
func nest[T tree.Node](v tree.View[T], roots []T) []treeNode[T] {
	out := make([]treeNode[T], 0, len(roots))
	for _, r := range roots {
		out = append(out, treeNode[T]{Node: r, Children: nest(v, v.Children(r.NodeID()))})
	}
	return out
}
