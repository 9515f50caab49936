package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

// onStateChanged is the explicit render step: one call per published state
// mutation, in mutation order. Chat deltas are written raw so streamed
// responses appear as incremental typing; the other sections re-render a
// compact status line, deduplicated so repeated publishes of unchanged state
// stay quiet.
func (c *Console) onStateChanged(ctx context.Context, event interfaces.Event) error {
	change, ok := event.Payload.(interfaces.StateChange)
	if !ok {
		return nil
	}

	switch change.Section {
	case "chat":
		c.renderChat(change)
	case "upload":
		c.renderLine("upload", c.uploadStatus())
	case "query":
		c.renderLine("query", c.queryStatus())
	case "delete":
		c.renderLine("delete", c.deleteStatus())
	}

	return nil
}

// renderLine prints text when it differs from the section's last output
func (c *Console) renderLine(section, text string) {
	if text == "" || text == c.lastRendered[section] {
		c.lastRendered[section] = text
		return
	}
	c.lastRendered[section] = text
	fmt.Fprintln(c.out, text)
}

func (c *Console) renderChat(change interfaces.StateChange) {
	switch {
	case change.Delta != "":
		// Streamed chunk, appended to the open assistant line
		fmt.Fprint(c.out, change.Delta)

	case change.Replace:
		// The placeholder was overwritten with an error message
		messages := c.state.ChatMessages()
		if len(messages) > 0 {
			fmt.Fprintln(c.out, messages[len(messages)-1].Content)
		}
		c.streamOpen = false

	default:
		if c.state.ChatLoading() {
			if !c.streamOpen {
				c.streamOpen = true
				fmt.Fprint(c.out, "assistant> ")
			}
			return
		}
		if c.streamOpen {
			// Stream drained, close the assistant line
			c.streamOpen = false
			fmt.Fprintln(c.out)
			return
		}
		// Transcript changed outside a streaming turn: show a completed
		// assistant message (the credential-required turn) if one was added
		messages := c.state.ChatMessages()
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			if last.Role == models.ChatRoleAssistant && last.Content != "" {
				fmt.Fprintf(c.out, "assistant> %s\n", last.Content)
			}
		}
	}
}

func (c *Console) uploadStatus() string {
	if c.state.Uploading() {
		return "Uploading..."
	}
	if err := c.state.UploadError(); err != "" {
		return "Upload error: " + err
	}
	if msg := c.state.UploadSuccessMessage(); msg != "" {
		return msg
	}
	return ""
}

func (c *Console) queryStatus() string {
	if c.state.QueryLoading() {
		return "Searching..."
	}
	if err := c.state.QueryError(); err != "" {
		return "Query error: " + err
	}

	results := c.state.QueryResults()
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	for _, result := range results {
		fmt.Fprintf(&b, "From: %s (Page %d)  Score: %.1f%%\n",
			result.Metadata.FileName, result.Metadata.PageNumber, result.Score*100)
		b.WriteString(result.Text)
		b.WriteString("\n")
		if result.Metadata.HasTables {
			b.WriteString("Contains tables\n")
		}
		if result.Metadata.HasImages {
			b.WriteString("Contains images\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Console) deleteStatus() string {
	if c.state.Deleting() {
		return "Deleting..."
	}
	if err := c.state.DeleteError(); err != "" {
		return "Deletion error: " + err
	}
	return ""
}
