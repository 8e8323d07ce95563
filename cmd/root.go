// Copyright (c) 2025 Cypherline
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Cypherline REPL.
// The root command opens an interactive Cypher session against an Apache AGE
// graph database; subcommands configure and inspect the stored connection.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cypherline/cli/internal/bridge"
	"cypherline/cli/internal/config"
	"cypherline/cli/internal/dsn"
	"cypherline/cli/internal/history"
	"cypherline/cli/internal/keychain"
	"cypherline/cli/internal/llm"
	"cypherline/cli/internal/logging"
	"cypherline/cli/internal/session"

	"atomicgo.dev/cursor"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
)

var (
	showVersion      bool
	verboseRoot      bool
	executeOnly      bool
	useTUI           bool
	systemPromptPath string
)

// rootCmd opens the REPL, optionally executing Cypher files first, against
// the configured AGE database.
var rootCmd = &cobra.Command{
	Use:   "cypherline [files...]",
	Short: "Interactive Cypher REPL for Apache AGE / PostgreSQL",
	Long: `Cypherline is an interactive Cypher client for PostgreSQL databases running
the Apache AGE graph extension. Type Cypher directly, or enable LLM mode
(\llm on) to describe what you want in natural language and let the model
generate and run the queries through its send_cypher tool.

File arguments are executed in order before the REPL starts; with -e the CLI
exits after the files instead of entering the REPL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("cypherline %s\n", Version)
			return nil
		}
		return runRoot(cmd.Context(), args)
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.Flags().BoolVarP(&verboseRoot, "verbose", "v", false, "Enable verbose error output")
	rootCmd.Flags().BoolVarP(&executeOnly, "execute", "e", false, "Execute the given files and exit (do not start the REPL)")
	rootCmd.Flags().BoolVarP(&useTUI, "tui", "t", false, "Use the interactive multi-line input prompt")
	rootCmd.Flags().StringVarP(&systemPromptPath, "system-prompt", "s", "", "Path to a file replacing the default LLM system prompt")
}

func runRoot(ctx context.Context, files []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	normalizedDSN, err := resolveDSN(cfg)
	if err != nil {
		return err
	}

	printBanner(cfg.Graph, normalizedDSN)

	pool, err := openPool(ctx, normalizedDSN)
	if err != nil {
		pterm.Println("❌ Failed to connect to database")
		pterm.Println(logging.PresentError("", err))
		return err
	}
	defer pool.Close()

	exec := bridge.New(pool, cfg.Graph)
	if errs := exec.InitGraph(ctx); verboseRoot {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "init: %v\n", e)
		}
	}

	// Sessions start in LLM mode when a model is available; a failed model
	// setup degrades to Cypher-only mode rather than aborting.
	model := buildModel(cfg)

	ctrl := session.New(exec, session.Options{
		Sink:       logging.LineSink{W: os.Stdout},
		Verbose:    verboseRoot,
		LLMEnabled: model != nil,
	})
	if model != nil {
		ctrl.SetAgent(llm.NewAgent(model, loadSystemPrompt(), cfg.LLM.Temperature, ctrl.ToolExec))
	}

	if len(files) > 0 {
		if err := runFiles(ctx, ctrl, files); err != nil {
			return err
		}
	}
	if executeOnly {
		fmt.Println("\nExecution complete.")
		return nil
	}
	return runRepl(ctx, ctrl)
}

// resolveDSN finds the connection string: explicit DSN from the environment,
// then the OS keychain, then one assembled from the libpq-style parts.
func resolveDSN(cfg config.Config) (string, error) {
	raw := strings.TrimSpace(cfg.DB.DSN)
	if raw == "" {
		if km, err := keychain.GetManager(); err == nil {
			if v, err := km.LoadDBDSN(); err == nil && strings.TrimSpace(v) != "" {
				raw = strings.TrimSpace(v)
			}
		}
	}
	if raw != "" {
		normalized, err := dsn.Parse(raw)
		if err != nil {
			fmt.Println("❌ Invalid database connection string.")
			if parseErr, ok := err.(*dsn.ParseError); ok {
				fmt.Println("   " + parseErr.Error())
			}
			fmt.Println("   Please run 'cypherline connect' to reconfigure your database.")
			return "", err
		}
		return normalized, nil
	}
	return dsn.FromParts(cfg.DB.Host, cfg.DB.Port, cfg.DB.Database, cfg.DB.User, cfg.DB.Password)
}

// openPool connects with a session initializer so every pooled connection has
// the AGE extension loaded and ag_catalog on its search path.
func openPool(ctx context.Context, normalizedDSN string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(normalizedDSN)
	if err != nil {
		return nil, err
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, "LOAD 'age';"); err != nil {
			return err
		}
		_, err := conn.Exec(ctx, `SET search_path = ag_catalog, "$user", public;`)
		return err
	}

	stopSpinner := startInlineSpinner(os.Stdout, "connecting", []string{"-", "\\", "|", "/"}, 100*time.Millisecond)
	defer stopSpinner()

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctxPing, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// buildModel creates the LLM client, pulling the OpenAI key from the OS
// keychain when the environment does not supply one. A nil return means the
// session runs in Cypher-only mode.
func buildModel(cfg config.Config) llms.Model {
	if cfg.LLM.OpenAIAPIKey == "" {
		if km, err := keychain.GetManager(); err == nil {
			if v, err := km.LoadOpenAIKey(); err == nil {
				cfg.LLM.OpenAIAPIKey = strings.TrimSpace(v)
			}
		}
	}
	model, err := llm.New(cfg.LLM)
	if err != nil {
		fmt.Println(logging.PresentError("LLM initialization error", err))
		fmt.Println("Running in Cypher-only mode (LLM disabled)")
		return nil
	}
	return model
}

// loadSystemPrompt returns the -s file's contents, or the built-in prompt
// when the flag is absent or the file cannot be read.
func loadSystemPrompt() string {
	if systemPromptPath == "" {
		return llm.DefaultSystemPrompt
	}
	data, err := os.ReadFile(systemPromptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading system prompt file: %v\n", err)
		return llm.DefaultSystemPrompt
	}
	return string(data)
}

func printBanner(graph, normalizedDSN string) {
	pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Cypherline")).
		WithPadding(1).
		Println(fmt.Sprintf("Graph:      %s\nConnection: %s", graph, logging.Mask(normalizedDSN)))
	pterm.Println(`Type Cypher statements, \h for help, \q to quit.`)
	pterm.Println()
}

// runText executes one batch of Cypher and exits non-zero on failure.
func runText(ctx context.Context, ctrl *session.Controller, text string) error {
	out, err := ctrl.ExecuteCypher(ctx, text)
	if out != "" {
		fmt.Println(out)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("cypher error", err))
	}
	return err
}

// runFiles executes each file in order, stopping at the first failure.
func runFiles(ctx context.Context, ctrl *session.Controller, files []string) error {
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if len(files) > 1 {
			fmt.Printf("=== %s ===\n", path)
		}
		if err := runText(ctx, ctrl, string(data)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// runRepl reads input lines until \q or EOF. With -t the pterm multi-line
// prompt is used; otherwise plain buffered stdin keeps the REPL usable in
// pipes and dumb terminals.
func runRepl(ctx context.Context, ctrl *session.Controller) error {
	hist, err := history.Open()
	if err != nil && verboseRoot {
		fmt.Fprintf(os.Stderr, "history disabled: %v\n", err)
	}
	defer hist.Close()

	if useTUI {
		return replTUI(ctx, ctrl, hist)
	}
	return replPlain(ctx, ctrl, hist)
}

const replPrompt = "cypher> "

func replPlain(ctx context.Context, ctrl *session.Controller, hist *history.File) error {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(replPrompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil // EOF ends the session
		}
		_ = hist.Append(line)
		if ctrl.HandleLine(ctx, line) {
			return nil
		}
	}
}

func replTUI(ctx context.Context, ctrl *session.Controller, hist *history.File) error {
	cursor.Hide()
	defer cursor.Show()
	for {
		input := pterm.DefaultInteractiveTextInput.WithMultiLine()
		line, err := input.Show(replPrompt)
		if err != nil {
			return nil
		}
		_ = hist.Append(line)
		if ctrl.HandleLine(ctx, line) {
			return nil
		}
	}
}
