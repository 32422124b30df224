package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilherme-santos/localcalendar/internal"
	"github.com/guilherme-santos/localcalendar/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		format   string
		from, to internal.Date
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import events from an ics or json file, - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					r = f
				}

				// Recurring events are expanded inside the window only.
				window := dayRange(from, to, a.loc)
				if window.IsZero() {
					window = internal.MonthWindow(a.now().In(a.loc))
				}

				imp := importer.New(a.logger, a.mux, a.store, a.loc)
				imp.Now = a.now
				res, err := imp.Import(ctx, formatOf(format, args[0]), r, window)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%d created, %d updated, %d skipped\n", res.Created, res.Updated, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "ics or json, guessed from the file extension when empty")
	cmd.Flags().Var(&from, "from", "expand recurring events from the date")
	cmd.Flags().Var(&to, "to", "expand recurring events until the date")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format, output string
		from, to       internal.Date
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as ics or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context) error {
				events, err := a.eventsIn(ctx, dayRange(from, to, a.loc))
				if err != nil {
					return err
				}

				w := a.out
				if output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				imp := importer.New(a.logger, a.mux, a.store, a.loc)
				return imp.Encode(formatOf(format, output), w, events)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "ics or json, guessed from the output extension when empty")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - writes to stdout")
	cmd.Flags().Var(&from, "from", "only events from the date")
	cmd.Flags().Var(&to, "to", "only events until the date, inclusive")
	return cmd
}

func formatOf(format, path string) string {
	if format != "" {
		return format
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return "ics"
}
