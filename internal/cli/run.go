package cli

import (
	"fmt"
	"strings"
	"time"

	"organizer/internal/mutate"
	"organizer/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// query runs fn as the current user against a freshly loaded DB.
func query[T any](cmd *cobra.Command, app *App, fn func(db *store.DB, userID string) (T, error)) error {
	return run(cmd, app, false, fn)
}

// mutation is query plus a save when fn succeeds.
func mutation[T any](cmd *cobra.Command, app *App, fn func(db *store.DB, userID string) (T, error)) error {
	return run(cmd, app, true, fn)
}

func run[T any](cmd *cobra.Command, app *App, save bool, fn func(db *store.DB, userID string) (T, error)) error {
	db, s, err := loadDB(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	userID, err := currentUserID(app, db)
	if err != nil {
		return writeResult[T](cmd, app, *new(T), err)
	}
	v, err := fn(db, userID)
	if err == nil && save {
		if err := s.Save(db); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeResult(cmd, app, v, err)
}

// writeResult prints {"data": v}, or the tagged error response for a failed operation.
func writeResult[T any](cmd *cobra.Command, app *App, v T, err error) error {
	if err != nil {
		app.log.Warn("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
		_ = writeOut(cmd, app, mutate.Respond[any](nil, err))
		return err
	}
	return writeOut(cmd, app, map[string]any{"data": v})
}

// setIf returns a Set option when the flag was passed on the command line.
func setIf[T any](cmd *cobra.Command, flag string, v T) mutate.Opt[T] {
	if cmd.Flags().Changed(flag) {
		return mutate.Some(v)
	}
	return mutate.Opt[T]{}
}

// optionalRef is nil for a blank id.
func optionalRef(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD (UTC midnight) or RFC3339. A blank value is nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
}

// endOfDay keeps a date-only filter bound inclusive of the whole day.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	e := t.Add(24*time.Hour - time.Nanosecond)
	return &e
}
