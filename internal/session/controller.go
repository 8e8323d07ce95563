// Package session owns the REPL's mode state and sequences every input line
// through the split → infer → execute → decode pipeline, or through the LLM
// agent when LLM mode is on.
//
// The controller is single-threaded by contract: one input line is processed
// to completion (including however many tool calls the LLM loop makes) before
// the next is accepted. Callers must serialize access; there is no internal
// locking because there is no concurrent access to guard against.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cypherline/cli/internal/bridge"
	"cypherline/cli/internal/cypher"
	"cypherline/cli/internal/logging"
)

// State is the session's mode state: two independent toggles plus the graph
// the session is bound to. Only explicit toggle commands mutate it.
type State struct {
	LLMEnabled bool
	LogEnabled bool
	Graph      string
}

// Agent is the LLM collaborator: it takes one natural-language turn and may
// call back into the execution pipeline any number of times before producing
// its final reply.
type Agent interface {
	Converse(ctx context.Context, turn string) (string, error)
}

// Controller drives one REPL session.
type Controller struct {
	exec    *bridge.Executor
	agent   Agent
	sink    logging.Sink
	out     io.Writer
	state   State
	verbose bool
}

// Options configures a Controller. Zero values mean: no agent, discard log
// events, write to stdout.
type Options struct {
	Agent      Agent
	Sink       logging.Sink
	Out        io.Writer
	Verbose    bool
	LLMEnabled bool
}

// New creates a Controller over an executor.
func New(exec *bridge.Executor, opts Options) *Controller {
	c := &Controller{
		exec:    exec,
		agent:   opts.Agent,
		sink:    opts.Sink,
		out:     opts.Out,
		verbose: opts.Verbose,
		state: State{
			LLMEnabled: opts.LLMEnabled,
			Graph:      exec.Graph(),
		},
	}
	if c.sink == nil {
		c.sink = logging.NopSink{}
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	return c
}

// SetAgent installs the LLM collaborator. The agent's tool callback closes
// over the controller, so it cannot exist before the controller does.
func (c *Controller) SetAgent(a Agent) { c.agent = a }

// State returns a copy of the current mode state.
func (c *Controller) State() State { return c.state }

// HandleLine processes one line of user input: a backslash command, a
// natural-language turn (LLM mode), or Cypher text (direct mode). It returns
// true when the session should end.
func (c *Controller) HandleLine(ctx context.Context, line string) (quit bool) {
	stripped := strings.TrimSpace(line)
	if stripped == "" {
		return false
	}
	switch {
	case stripped == `\q`:
		return true
	case stripped == `\h`:
		c.printHelp()
		return false
	case strings.HasPrefix(stripped, `\llm`):
		c.handleToggle(stripped, `\llm`, &c.state.LLMEnabled, "LLM")
		return false
	case strings.HasPrefix(stripped, `\log`):
		c.handleToggle(stripped, `\log`, &c.state.LogEnabled, "Logging")
		return false
	}

	if c.state.LLMEnabled {
		c.runTurn(ctx, line)
		return false
	}
	c.runDirect(ctx, line)
	return false
}

// runTurn hands the raw, unsplit input to the LLM agent as a conversation
// turn and displays its final reply.
func (c *Controller) runTurn(ctx context.Context, line string) {
	if c.agent == nil {
		fmt.Fprintln(c.out, `LLM is not available. Use \llm off to execute Cypher directly, or check your configuration.`)
		return
	}
	reply, err := c.agent.Converse(ctx, line)
	if err != nil {
		c.reportError("llm error", err)
		return
	}
	if reply != "" {
		fmt.Fprintln(c.out, reply)
		if c.state.LogEnabled {
			c.sink.Write(logging.TagModelReply, reply)
		}
	}
}

// runDirect executes the input as Cypher and displays the formatted results.
func (c *Controller) runDirect(ctx context.Context, line string) {
	if c.state.LogEnabled {
		c.sink.Write(logging.TagGeneratedQuery, line)
	}
	out, err := c.ExecuteCypher(ctx, line)
	if out != "" {
		fmt.Fprintln(c.out, out)
		if c.state.LogEnabled {
			c.sink.Write(logging.TagResult, out)
		}
	}
	if err != nil {
		if c.state.LogEnabled {
			c.sink.Write(logging.TagResult, logging.PresentError("cypher error", err))
		}
		c.reportError("cypher error", err)
	}
}

// ExecuteCypher runs possibly multi-statement Cypher text through the full
// pipeline and returns the formatted result text. A failing statement aborts
// the remaining ones; the results of already-executed statements are kept and
// the error names the failing statement's position and original text.
func (c *Controller) ExecuteCypher(ctx context.Context, text string) (string, error) {
	stmts, err := cypher.Split(cypher.Sanitize(text))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, st := range stmts {
		if len(stmts) > 1 {
			fmt.Fprintf(&b, "--- Statement %d ---\n", st.Pos)
		}
		rs, err := c.exec.Execute(ctx, st)
		if err != nil {
			return strings.TrimRight(b.String(), "\n"),
				fmt.Errorf("statement %d (%s): %w", st.Pos, st.Text, err)
		}
		b.WriteString(FormatResult(rs))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ToolExec is the send_cypher tool implementation handed to the LLM agent.
// Every invocation mirrors the generated query and its result to the log sink
// when logging is enabled.
func (c *Controller) ToolExec(ctx context.Context, query string) (string, error) {
	if c.state.LogEnabled {
		c.sink.Write(logging.TagGeneratedQuery, query)
	}
	out, err := c.ExecuteCypher(ctx, query)
	if err != nil {
		if c.state.LogEnabled {
			c.sink.Write(logging.TagResult, logging.PresentError("cypher error", err))
		}
		return "", err
	}
	if c.state.LogEnabled {
		c.sink.Write(logging.TagResult, out)
	}
	return out, nil
}

// handleToggle parses `\llm on`, `\log off`, and friends.
func (c *Controller) handleToggle(stripped, command string, target *bool, label string) {
	parts := strings.Fields(stripped)
	if len(parts) != 2 {
		fmt.Fprintf(c.out, "Usage: %s [on|off|true|false]\n", command)
		return
	}
	val, ok := parseToggle(parts[1])
	if !ok {
		fmt.Fprintf(c.out, "Usage: %s [on|off|true|false]\n", command)
		return
	}
	*target = val
	state := "disabled"
	if val {
		state = "enabled"
	}
	fmt.Fprintf(c.out, "%s %s.\n", label, state)
}

func parseToggle(value string) (val, ok bool) {
	switch strings.ToLower(value) {
	case "on", "true":
		return true, true
	case "off", "false":
		return false, true
	}
	return false, false
}

func (c *Controller) printHelp() {
	fmt.Fprintln(c.out, "Available commands:")
	fmt.Fprintln(c.out, `  \q              Quit the REPL`)
	fmt.Fprintln(c.out, `  \log [on|off]   Toggle logging of LLM and DB interactions`)
	fmt.Fprintln(c.out, `  \llm [on|off]   Toggle LLM usage (off executes Cypher directly)`)
	fmt.Fprintln(c.out, `  \h              Show this help message`)
}

// reportError shows a masked one-line summary, plus the full failure context
// in verbose mode.
func (c *Controller) reportError(context string, err error) {
	msg := logging.PresentError(context, err)
	if !c.verbose {
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
	}
	fmt.Fprintln(c.out, msg)
	if c.verbose {
		fmt.Fprintf(c.out, "detail: %v\n", err)
	}
}
