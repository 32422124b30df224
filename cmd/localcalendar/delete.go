package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				for _, id := range args {
					if err := a.store.DeleteEvent(ctx, id); err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Event %s deleted\n", id)
				}
				return nil
			})
		},
	}
}
