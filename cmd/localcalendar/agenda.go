package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/internal"
	"github.com/guilherme-santos/localcalendar/internal/store"
)

func newAgendaCmd(a *app) *cobra.Command {
	var (
		date     internal.Date
		days     int
		watch    bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print the events of the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days should be at least 1")
			}
			return a.run(cmd, func(ctx context.Context) error {
				day := func() internal.Date {
					if !date.IsZero() {
						return date.InLocation(a.loc)
					}
					return internal.NewDateFromTime(a.now().In(a.loc))
				}
				if err := a.ensureVisible(ctx, day().Time); err != nil {
					return err
				}

				if !watch {
					if err := a.store.Err(); err != nil {
						return err
					}
					printAgenda(a.out, a.store.Events(), day(), days)
					return nil
				}

				if schedule == "" {
					schedule = a.cfg.AgendaRefresh
				}
				return a.watchAgenda(ctx, schedule, day, func(st store.State) {
					if st.IsLoading {
						return
					}
					if st.Err != nil {
						fmt.Fprintf(a.out, "Events may be outdated: %v\n", st.Err)
					}
					printAgenda(a.out, st.Events, day(), days)
				})
			})
		},
	}
	cmd.Flags().Var(&date, "date", "first day of the agenda, defaults to today")
	cmd.Flags().IntVarP(&days, "days", "n", 1, "number of days")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and print the agenda after every refresh")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule of the refreshes, defaults to the config")
	return cmd
}

// watchAgenda refreshes the store on schedule and hands every new state to
// render until ctx is done.
func (a *app) watchAgenda(ctx context.Context, schedule string, day func() internal.Date, render store.Listener) error {
	c := cron.New(cron.WithLocation(a.loc))
	_, err := c.AddFunc(schedule, func() {
		if err := a.refreshAgenda(ctx, day().Time); err != nil {
			a.logger.Error().Err(err).Msg("Unable to refresh agenda")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	unsubscribe := a.store.Subscribe(render)
	defer unsubscribe()

	a.logger.Info().Str("schedule", schedule).Msg("Watching agenda")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// refreshAgenda reloads the store, first moving a windowed store's interval
// to day since the date goes on while watching.
func (a *app) refreshAgenda(ctx context.Context, day time.Time) error {
	if a.cfg.Windowed {
		a.store.SetInterval(day)
	}
	_, err := a.store.Refresh(ctx)
	return err
}

func printAgenda(w io.Writer, events []internal.Event, first internal.Date, days int) {
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		iv := internal.Interval{Start: day.Time, End: day.AddDate(0, 0, 1).Add(-time.Second)}

		todays := filterEvents(events, iv, nil)
		sortByStart(todays)

		fmt.Fprintf(w, "%s\n", day.Format("Monday, 02 January 2006"))
		if len(todays) == 0 {
			fmt.Fprintln(w, "  Nothing planned")
			continue
		}
		for _, e := range todays {
			fmt.Fprintf(w, "  %s - %s  %s (%s)\n", e.StartsAt.Format("15:04"), e.EndsAt.Format("15:04"), e.Title, e.Category)
		}
	}
}
