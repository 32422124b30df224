package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/internal"
)

func newListCmd(a *app) *cobra.Command {
	var (
		from, to   internal.Date
		categories Strings
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := categories.categories()
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context) error {
				events, err := a.eventsIn(ctx, dayRange(from, to, a.loc))
				if err != nil {
					return err
				}
				events = filterEvents(events, internal.Interval{}, cats)
				sortByStart(events)
				printEvents(a.out, events)
				return nil
			})
		},
	}
	cmd.Flags().Var(&from, "from", "only events from the date (e.g. 2024-08-01)")
	cmd.Flags().Var(&to, "to", "only events until the date, inclusive")
	cmd.Flags().VarP(&categories, "category", "c", "only events of the category, can be repeated")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				e, err := a.lookup(ctx, args[0])
				if err != nil {
					return err
				}
				printEvent(a.out, e)
				return nil
			})
		},
	}
}

// lookup checks the cache first, a windowed store may not hold the event.
func (a *app) lookup(ctx context.Context, id string) (internal.Event, error) {
	if e, ok := a.store.GetEvent(id); ok {
		return e, nil
	}
	e, err := a.storage.ByID(ctx, id)
	if err != nil {
		return internal.Event{}, err
	}
	if e == nil {
		return internal.Event{}, fmt.Errorf("event %q not found", id)
	}
	return *e, nil
}
