package cli

import (
	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/spf13/cobra"
)

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag commands (tags belong to a user, not a workspace)",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Tag, error) {
				return mutate.CreateTag(db, userID, mutate.TagInput{Name: args[0]})
			})
		},
	}

	var q string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tags, optionally matching --search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return query(cmd, app, func(db *store.DB, userID string) ([]model.Tag, error) {
				if q != "" {
					return nonNil(mutate.SearchTags(db, userID, q)), nil
				}
				return nonNil(mutate.ListTags(db, userID)), nil
			})
		},
	}
	list.Flags().StringVar(&q, "search", "", "Name substring")

	update := &cobra.Command{
		Use:   "update <tag-id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) (*model.Tag, error) {
				return mutate.UpdateTag(db, userID, args[0], args[1])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <tag-id>...",
		Short: "Delete tags and strip them from tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutation(cmd, app, func(db *store.DB, userID string) ([]string, error) {
				return args, mutate.DeleteTags(db, userID, args)
			})
		},
	}

	cmd.AddCommand(create, list, update, del)
	return cmd
}
