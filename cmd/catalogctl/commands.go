package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/antaww/uta/internal/adapters/csvcatalog"
	"github.com/antaww/uta/internal/adapters/sqlite"
	"github.com/antaww/uta/internal/core/catalog"
	"github.com/antaww/uta/internal/core/domain"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a catalog CSV, validate it and write it to SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("csv")
			dbPath, _ := cmd.Flags().GetString("db")

			tracks, err := csvcatalog.NewLoader(csvPath).LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			store, err := catalog.NewStore(domain.CatalogSchema, tracks)
			if err != nil {
				return fmt.Errorf("validate catalog: %w", err)
			}

			db, err := sqlite.NewAdapter(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SaveCatalog(cmd.Context(), store.All()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", store.Len(), dbPath)
			return nil
		},
	}

	cmd.Flags().String("csv", "data/data.csv", "Catalog CSV file")
	cmd.Flags().String("db", "catalog.db", "SQLite database file")
	return cmd
}

type inspectOutput struct {
	Rows    int      `json:"rows"`
	Schema  []string `json:"schema"`
	Matches []string `json:"matches,omitempty"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the size and schema of a stored catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			query, _ := cmd.Flags().GetString("query")
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			db, err := sqlite.NewAdapter(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			tracks, err := db.LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			store, err := catalog.NewStore(domain.CatalogSchema, tracks)
			if err != nil {
				return fmt.Errorf("validate catalog: %w", err)
			}

			out := inspectOutput{Rows: store.Len()}
			for _, f := range store.Schema() {
				out.Schema = append(out.Schema, string(f))
			}
			if query != "" {
				for _, t := range store.Search(query, limit) {
					out.Matches = append(out.Matches, fmt.Sprintf("%s (%d) - %s", t.Name, t.Year, t.ArtistLine()))
				}
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(w).Encode(out)
			}
			fmt.Fprintf(w, "rows:   %d\n", out.Rows)
			fmt.Fprintf(w, "schema: %s\n", strings.Join(out.Schema, ", "))
			for _, m := range out.Matches {
				fmt.Fprintf(w, "  %s\n", m)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "catalog.db", "SQLite database file")
	cmd.Flags().String("query", "", "Search the catalog by song or artist name")
	cmd.Flags().Int("limit", catalog.DefaultSearchLimit, "Maximum number of search results")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
