package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/internal"
)

func newAddCmd(a *app) *cobra.Command {
	var title, description, start, end, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				e := internal.Event{
					Title:       title,
					Description: description,
				}

				var err error
				e.StartsAt, err = internal.ParseLocal(start, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
				e.EndsAt, err = internal.ParseLocal(end, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
				if category != "" {
					if e.Category, err = internal.ParseCategory(category); err != nil {
						return err
					}
				}

				now := a.now()
				e.Status = internal.StatusAt(e.StartsAt, e.EndsAt, now)
				if err := e.Validate(now); err != nil {
					return err
				}

				ids, err := a.store.AddEvents(ctx, e)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Event %s created\n", ids[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "title of the event (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the event")
	cmd.Flags().StringVar(&start, "start", "", "start, e.g. 2024-08-20T09:00 (required)")
	cmd.Flags().StringVar(&end, "end", "", "end, e.g. 2024-08-20T09:30 (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Work, Personal, Meeting or Reminder")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
