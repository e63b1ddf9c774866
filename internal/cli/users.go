package cli

import (
	"organizer/internal/model"
	"organizer/internal/mutate"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Local users (the first one created becomes current)",
	}
	cmd.AddCommand(newUsersCreateCmd(app))
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersUseCmd(app))
	return cmd
}

func newUsersCreateCmd(app *App) *cobra.Command {
	var use bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := mutate.CreateUser(db, mutate.UserInput{Name: args[0]})
			if err == nil && use {
				_, err = mutate.UseUser(db, u.ID)
			}
			if err == nil {
				err = s.Save(db)
			}
			return writeResult(cmd, app, u, err)
		},
	}
	cmd.Flags().BoolVar(&use, "use", false, "Also make this the current user")
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			users := db.Users
			if users == nil {
				users = []model.User{}
			}
			return writeOut(cmd, app, map[string]any{
				"data":          users,
				"currentUserId": db.CurrentUserID,
			})
		},
	}
}

func newUsersUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id|name>",
		Short: "Set the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			u, err := mutate.UseUser(db, args[0])
			if err == nil {
				err = s.Save(db)
			}
			return writeResult(cmd, app, u, err)
		},
	}
}
