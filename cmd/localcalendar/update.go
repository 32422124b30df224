package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/internal"
)

func newUpdateCmd(a *app) *cobra.Command {
	var title, description, start, end, category string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change an event, only the given flags are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				e, err := a.lookup(ctx, args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("title") {
					e.Title = title
				}
				if flags.Changed("description") {
					e.Description = description
				}
				if flags.Changed("start") {
					if e.StartsAt, err = internal.ParseLocal(start, a.loc); err != nil {
						return fmt.Errorf("invalid --start: %w", err)
					}
				}
				if flags.Changed("end") {
					if e.EndsAt, err = internal.ParseLocal(end, a.loc); err != nil {
						return fmt.Errorf("invalid --end: %w", err)
					}
				}
				if flags.Changed("category") {
					if e.Category, err = internal.ParseCategory(category); err != nil {
						return err
					}
				}

				now := a.now()
				e.Status = internal.StatusAt(e.StartsAt, e.EndsAt, now)
				if err := e.Validate(now); err != nil {
					return err
				}
				if err := a.store.UpdateEvent(ctx, e); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Event %s updated\n", e.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title of the event")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the event")
	cmd.Flags().StringVar(&start, "start", "", "start, e.g. 2024-08-20T09:00")
	cmd.Flags().StringVar(&end, "end", "", "end, e.g. 2024-08-20T09:30")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Work, Personal, Meeting or Reminder")
	return cmd
}
