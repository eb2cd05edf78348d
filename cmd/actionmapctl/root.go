package main

import (
	"os"

	"github.com/maruel/actionmap/internal/jsondb"
	"github.com/maruel/actionmap/internal/storage"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	db    string
	table string
}

func (o *rootOptions) service() *storage.ActionMappingService {
	return storage.NewActionMappingService(jsondb.Open(o.db), o.table)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "actionmapctl",
		Short:        "Administer the action mapping store",
		Long:         "Seed, clear and validate the JSON document served by actionmap, and inspect its schema and routes.",
		SilenceUsage: true,
		// Errors are printed by main.
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.db, "db", envOr("DB_ACTION_MAPPINGS", "data/actions.json"), "JSON document holding the action mappings (env DB_ACTION_MAPPINGS)")
	cmd.PersistentFlags().StringVar(&opts.table, "table", envOr("DB_TABLE", storage.DefaultTable), "table holding the action mappings (env DB_TABLE)")

	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newClearCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newRoutesCommand())
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
