package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/maruel/actionmap/internal/models"
	"github.com/maruel/actionmap/internal/router"
	"github.com/maruel/actionmap/internal/server/handlers"
	"github.com/maruel/actionmap/internal/server/routes"
	"github.com/spf13/cobra"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every record of the table",
		Long:  "Scan the table the way the server does and report the first malformed record, if any.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.service()
			n, err := s.Count(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d valid action mappings in %s (%s)\n", n, opts.db, s.Table())
			return err
		},
	}
}

func newSchemaCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := json.MarshalIndent(models.StoreSchema(opts.table), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return err
		},
	}
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes compiled into the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := router.Discover[*handlers.Env](cmd.Context(), routes.Source, ".", routes.Modules())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i := range found {
				fmt.Fprintf(w, "%s\t%s\t%s\n", found[i].Method, found[i].Pattern, found[i].File)
			}
			return w.Flush()
		},
	}
}
