// -----------------------------------------------------------------------
// Interactive console - renders shared state and translates user commands
// into session flow calls
// -----------------------------------------------------------------------

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/services/export"
	"github.com/ternarybob/scribe/internal/services/session"
	"github.com/ternarybob/scribe/internal/services/state"
)

const prompt = "scribe> "

// Console is the terminal view layer. It holds no session state of its own
// beyond transient input text: everything it renders comes from the shared
// state container, re-rendered when a state-change event arrives.
type Console struct {
	session     *session.Service
	state       *state.State
	credentials interfaces.CredentialStore
	exporter    *export.Service
	events      interfaces.EventService
	logger      arbor.ILogger

	scanner *bufio.Scanner
	out     io.Writer

	// render bookkeeping
	lastRendered map[string]string
	streamOpen   bool
}

// New creates the console bound to the given input and output streams
func New(
	sessionService *session.Service,
	appState *state.State,
	credentials interfaces.CredentialStore,
	exporter *export.Service,
	eventService interfaces.EventService,
	logger arbor.ILogger,
	in io.Reader,
	out io.Writer,
) *Console {
	return &Console{
		session:      sessionService,
		state:        appState,
		credentials:  credentials,
		exporter:     exporter,
		events:       eventService,
		logger:       logger,
		scanner:      bufio.NewScanner(in),
		out:          out,
		lastRendered: make(map[string]string),
	}
}

// Run subscribes the renderer and processes commands until quit or EOF
func (c *Console) Run(ctx context.Context) error {
	if err := c.events.Subscribe(interfaces.EventStateChanged, c.onStateChanged); err != nil {
		return fmt.Errorf("failed to subscribe console renderer: %w", err)
	}

	// Health indicator is shown once a credential exists, as on page load
	if _, err := c.credentials.Get(ctx); err == nil {
		c.printHealth(ctx)
	}
	c.printHelp()

	fmt.Fprint(c.out, prompt)
	for c.scanner.Scan() {
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			fmt.Fprint(c.out, prompt)
			continue
		}

		fields := strings.Fields(line)
		command := strings.ToLower(fields[0])
		rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

		switch command {
		case "quit", "exit":
			return nil
		case "help":
			c.printHelp()
		case "key":
			c.handleKey(ctx, rest)
		case "upload":
			c.handleUpload(ctx, rest)
		case "query":
			c.handleQuery(ctx, rest)
		case "chat":
			c.handleChat(ctx, rest)
		case "delete":
			c.session.Delete(ctx, c.confirmDelete)
		case "status":
			c.printStatus(ctx)
		case "health":
			c.printHealth(ctx)
		case "export":
			c.handleExport(rest)
		default:
			fmt.Fprintf(c.out, "Unknown command %q, type 'help' for usage\n", command)
		}

		fmt.Fprint(c.out, prompt)
	}

	return c.scanner.Err()
}

func (c *Console) readLine(promptText string) string {
	fmt.Fprint(c.out, promptText)
	if !c.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

func (c *Console) handleKey(ctx context.Context, value string) {
	if value == "" {
		value = c.readLine("Enter API key: ")
	}
	if value == "" {
		fmt.Fprintln(c.out, "No key entered.")
		return
	}

	if err := c.credentials.Set(ctx, value); err != nil {
		fmt.Fprintf(c.out, "Failed to save API key: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "API key saved.")
	c.printHealth(ctx)
}

func (c *Console) handleUpload(ctx context.Context, path string) {
	if path == "" {
		fmt.Fprintln(c.out, "Usage: upload <path-to-pdf>")
		return
	}
	c.session.Upload(ctx, path)
}

func (c *Console) handleQuery(ctx context.Context, text string) {
	if text == "" {
		// Repopulate from the last submitted query, as the original input
		// field does on remount
		if last := c.state.LastQuery(); last != "" {
			fmt.Fprintf(c.out, "Re-running last query: %s\n", last)
			text = last
		} else {
			fmt.Fprintln(c.out, "Usage: query <question>")
			return
		}
	}
	c.session.Query(ctx, text)
}

func (c *Console) handleChat(ctx context.Context, text string) {
	if text == "" {
		fmt.Fprintln(c.out, "Usage: chat <message>")
		return
	}
	c.session.Chat(ctx, text)
}

func (c *Console) handleExport(path string) {
	if path == "" {
		fmt.Fprintln(c.out, "Usage: export <path.yaml|path.pdf>")
		return
	}

	snapshot := &export.Snapshot{
		ExportedAt: time.Now(),
		Document:   c.state.UploadedFileName(),
		LastQuery:  c.state.LastQuery(),
		Results:    c.state.QueryResults(),
		Transcript: c.state.ChatMessages(),
	}

	if err := c.exporter.Export(path, snapshot); err != nil {
		fmt.Fprintf(c.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Session exported to %s\n", path)
}

func (c *Console) confirmDelete(documentName string) bool {
	answer := c.readLine(fmt.Sprintf(
		"Are you sure you want to delete the uploaded document '%s' and all associated data (queries, chat history)? This action cannot be undone. [y/N]: ",
		documentName))
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (c *Console) printHealth(ctx context.Context) {
	if c.session.CheckHealth(ctx) {
		fmt.Fprintln(c.out, "API Connected")
	} else {
		fmt.Fprintln(c.out, "API Disconnected")
	}
}

func (c *Console) printStatus(ctx context.Context) {
	if name := c.state.UploadedFileName(); name != "" {
		fmt.Fprintf(c.out, "Active document: %s\n", name)
	} else {
		fmt.Fprintln(c.out, "Active document: none")
	}
	if last := c.state.LastQuery(); last != "" {
		fmt.Fprintf(c.out, "Last query: %s (%d results)\n", last, len(c.state.QueryResults()))
	}
	fmt.Fprintf(c.out, "Chat transcript: %d messages\n", len(c.state.ChatMessages()))
	c.printHealth(ctx)
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  key [value]       save the API key used for all requests
  upload <path>     upload a PDF document
  query <question>  run a semantic query against the uploaded document
  chat <message>    chat with the assistant about the document
  delete            delete the uploaded document and all associated data
  status            show session state
  health            check service availability
  export <path>     export the session to a .yaml or .pdf file
  quit              exit
`)
}
