// Copyright (c) 2025 Cypherline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strings"

	"cypherline/cli/internal/config"
	"cypherline/cli/internal/keychain"
	"cypherline/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd shows the current database connection string with credentials
// masked, plus the graph the REPL will open.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the current database connection and graph",
	Long: `The dbinfo command displays the currently configured database connection
string (DSN) with the password masked, and the graph name the REPL targets.
This helps verify which database you're connected to without exposing
credentials.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		connDSN := ""
		if env := os.Getenv("DATABASE_URL"); strings.TrimSpace(env) != "" {
			connDSN = strings.TrimSpace(env)
			pterm.Println("Using DSN from DATABASE_URL environment variable")
			pterm.Println()
		}

		if connDSN == "" {
			km, err := keychain.GetManager()
			if err != nil {
				pterm.Println("❌ Secure storage is not available on this system")
				pterm.Println("   Keychain is only supported on macOS and Windows")
				return err
			}
			connDSN, err = km.LoadDBDSN()
			if err != nil || strings.TrimSpace(connDSN) == "" {
				pterm.Println("⚠️  No database connection configured")
				pterm.Println("   Please run: cypherline connect")
				return nil
			}
			pterm.Println("Using DSN from OS keychain")
			pterm.Println()
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithPadding(1).
			Println(logging.Mask(connDSN) + "\nGraph: " + cfg.Graph)
		pterm.Println()
		pterm.Println("To update this connection, run: cypherline connect")
		pterm.Println()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
