package cli

import (
	"fmt"
	"os"
	"strings"

	"organizer/internal/config"
	"organizer/internal/format"
	"organizer/internal/logging"
	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	User       string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "organizer",
		Short:         "Local task organizer: CLI, web UI and TUI",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # First run
  organizer users create ada
  organizer workspaces create Home

  # Scriptable commands
  organizer tasks create --category cat-xxxx --title "Buy milk"
  organizer tasks tree --search milk --sort title:asc

  # Direct task lookup (shortcut for: organizer tasks show <task-id>)
  organizer task-xxxx

  # Interactive
  organizer tui
  organizer web
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = app.log.Sync()
	}

	// Flags default to empty so config (file, then env) can fill what the user did not pass.
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Path to the data dir (default: config dataDir, $ORGANIZER_DIR or ~/.organizer/data)")
	cmd.PersistentFlags().StringVar(&app.User, "user", "", "User id or name to act as (default: config currentUser, $ORGANIZER_USER or the current user)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newWorkspacesCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newStatusesCmd(app))
	cmd.AddCommand(newPrioritiesCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTimerCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// init resolves settings with flag > env > config file precedence and builds the logger.
func (app *App) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.cfg = cfg
	if strings.TrimSpace(app.Dir) == "" {
		dir, err := cfg.DataDirOrDefault()
		if err != nil {
			return err
		}
		app.Dir = dir
	}
	if strings.TrimSpace(app.User) == "" {
		app.User = cfg.CurrentUser
	}
	if strings.TrimSpace(app.Format) == "" {
		app.Format = cfg.Format
	}
	if strings.TrimSpace(app.LogLevel) == "" {
		app.LogLevel = cfg.LogLevel
	}
	log, err := logging.New(app.LogLevel, false)
	if err != nil {
		return err
	}
	app.log = log
	return nil
}

func (app *App) store() store.Store { return store.Store{Dir: app.Dir} }

func loadDB(app *App) (*store.DB, store.Store, error) {
	s := app.store()
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

var errNoUser = mutate.ValidationError{Messages: []string{
	"no current user; run `organizer users create <name>` or `organizer users use <name>` (or pass --user)",
}}

func currentUserID(app *App, db *store.DB) (string, error) {
	if ref := strings.TrimSpace(app.User); ref != "" {
		u, err := mutate.ResolveUser(db, ref)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}
	if db.CurrentUserID != "" {
		return db.CurrentUserID, nil
	}
	return "", errNoUser
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
