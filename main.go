// Package main is the entry point for the cypherline CLI application.
// It provides an interactive Cypher REPL for Apache AGE on PostgreSQL.
package main

import (
	"cypherline/cli/cmd"
)

// main is the entry point for the cypherline CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
