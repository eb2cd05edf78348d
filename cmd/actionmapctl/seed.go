package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maruel/actionmap/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Replace the table with the mappings of a JSON or YAML file",
		Long: `Replace the table with the mappings listed in a file.

The file holds a list of {codeword, actionId} objects, as JSON or, when its
extension is .yaml or .yml, as YAML. Every entry is validated before anything
is written. Other tables of the document are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, err := readMappings(args[0])
			if err != nil {
				return err
			}
			s := opts.service()
			if err := s.Replace(mappings); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d action mappings into %s (%s)\n", len(mappings), opts.db, s.Table())
			return err
		},
	}
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Replace the table with an empty list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := opts.service()
			if err := s.Replace(nil); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s (%s)\n", opts.db, s.Table())
			return err
		},
	}
}

// readMappings parses and validates a seed file.
func readMappings(path string) ([]models.ActionMapping, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is a command line argument
	if err != nil {
		return nil, err
	}
	var raw []any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		d := json.NewDecoder(bytes.NewReader(content))
		d.UseNumber()
		if err := d.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	out := make([]models.ActionMapping, 0, len(raw))
	for i, r := range raw {
		m, err := models.ParseRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%s: entry #%d: %w", path, i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
