package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"organizer/internal/mutate"
	"organizer/internal/timer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type timerOut struct {
	ID        string       `json:"id"`
	Title     string       `json:"title,omitempty"`
	Duration  string       `json:"duration"`
	Status    timer.Status `json:"status"`
	Remaining string       `json:"remaining"`
	ElapsedMs int64        `json:"elapsedMs"`
}

func newTimerCmd(app *App) *cobra.Command {
	var title string
	var every time.Duration
	var showMs bool
	cmd := &cobra.Command{
		Use:   "timer <duration>",
		Short: "Run a countdown in the terminal (hh:mm:ss, mm:ss, 25m or minutes)",
		Example: `  organizer timer 25 --title focus
  organizer timer 00:05:00 --every 10s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := timer.ParseDuration(args[0])
			if err != nil {
				return writeResult[any](cmd, app, nil, mutate.ValidationError{Messages: []string{"Expiry should be greater than 0."}})
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ts := timer.NewTimers(time.Now)
			ts.SetSound(app.cfg.Timer.Sound)
			ts.ShowMs = showMs
			t, err := ts.Add(title, d)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Debug("timer started", zap.String("id", t.ID), zap.Duration("duration", d))
			runCountdown(ctx, cmd, ts, t, every)

			now := ts.Now()
			return writeOut(cmd, app, map[string]any{"data": timerOut{
				ID:        t.ID,
				Title:     t.Title,
				Duration:  timer.FormatDuration(t.Initial, false),
				Status:    t.Status(),
				Remaining: timer.FormatDuration(t.Remaining(now), showMs),
				ElapsedMs: t.Elapsed(now).Milliseconds(),
			}})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Timer title")
	cmd.Flags().DurationVar(&every, "every", time.Second, "How often to print the remaining time to stderr")
	cmd.Flags().BoolVar(&showMs, "ms", false, "Show milliseconds")
	return cmd
}

// runCountdown samples ts every tick and prints progress until t expires or ctx ends.
func runCountdown(ctx context.Context, cmd *cobra.Command, ts *timer.Timers, t *timer.Timer, every time.Duration) {
	tick := time.NewTicker(timer.TickInterval)
	defer tick.Stop()
	var lastPrint time.Time
	for {
		select {
		case <-ctx.Done():
			ts.Pause(t.ID)
			return
		case now := <-tick.C:
			if len(ts.Tick()) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s expired\n", label(t))
				return
			}
			if every > 0 && now.Sub(lastPrint) >= every {
				lastPrint = now
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", timer.FormatDuration(t.Remaining(ts.Now()), ts.ShowMsFor(t)), label(t))
			}
		}
	}
}

func label(t *timer.Timer) string {
	if t.Title == "" {
		return "Timer"
	}
	return t.Title
}
