package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the static track catalog",
		Long: `catalogctl imports the catalog CSV into SQLite and inspects stored catalogs.

Every row is validated the same way the API validates it at startup.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
