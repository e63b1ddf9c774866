package cli

import (
	"organizer/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var pageSize int
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI (tasks, timers, counters)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeResult[any](cmd, app, nil, err)
			}
			if !cmd.Flags().Changed("page-size") {
				pageSize = app.cfg.Web.PageSize
			}
			return tui.Run(db, tui.Options{
				Dir:      app.Dir,
				UserID:   userID,
				PageSize: pageSize,
				Sound:    app.cfg.Timer.Sound,
			})
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Root tasks per page")
	return cmd
}
