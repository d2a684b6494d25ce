package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/k3a/html2text"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

// Output formats for dry-run rendering.
const (
	FormatHTML = "html" // markup kept, <br> turned into line breaks
	FormatText = "text" // markup converted to plain text
)

// Publisher prints posts instead of publishing them. It returns placeholder
// ids ("dry-run-1", "dry-run-2", ...) so reply chains keep their order.
type Publisher struct {
	w      io.Writer
	format string
	seq    int
}

// NewPublisher creates a dry-run publisher writing to w in the given format.
func NewPublisher(w io.Writer, format string) (*Publisher, error) {
	switch format {
	case "", FormatHTML:
		format = FormatHTML
	case FormatText:
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatHTML, FormatText)
	}
	return &Publisher{w: w, format: format}, nil
}

// Publish writes the rendered post followed by a blank line.
func (p *Publisher) Publish(_ context.Context, post domain.Post) (string, error) {
	var b strings.Builder
	if post.InReplyTo != "" {
		fmt.Fprintf(&b, "↳ in reply to %s\n", post.InReplyTo)
	}
	b.WriteString(p.render(post.Body))
	if post.PhotoURL != "" {
		fmt.Fprintf(&b, "\n📷 %s", post.PhotoURL)
	}
	b.WriteString("\n\n\n")

	if _, err := io.WriteString(p.w, b.String()); err != nil {
		return "", fmt.Errorf("write dry-run output: %w", err)
	}

	p.seq++
	return "dry-run-" + strconv.Itoa(p.seq), nil
}

// DryRun reports that nothing leaves the process.
func (p *Publisher) DryRun() bool { return true }

func (p *Publisher) render(body string) string {
	if p.format == FormatText {
		return html2text.HTML2Text(body)
	}
	return strings.ReplaceAll(body, "<br>", "\n")
}
