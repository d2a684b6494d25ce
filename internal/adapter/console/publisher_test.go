package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacuruses/naturalista-bot/internal/domain"
)

func TestPublisher_HTML(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPublisher(&buf, "")
	require.NoError(t, err)

	id, err := p.Publish(context.Background(), domain.Post{Body: "<p>uno<br>dos</p>"})
	require.NoError(t, err)

	assert.Equal(t, "dry-run-1", id)
	assert.Equal(t, "<p>uno\ndos</p>\n\n\n", buf.String())
}

func TestPublisher_SequentialIDsAndReplies(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPublisher(&buf, FormatHTML)
	require.NoError(t, err)

	first, err := p.Publish(context.Background(), domain.Post{Body: "a"})
	require.NoError(t, err)
	second, err := p.Publish(context.Background(), domain.Post{Body: "b", InReplyTo: first, PhotoURL: "https://x/p.jpg"})
	require.NoError(t, err)

	assert.Equal(t, "dry-run-1", first)
	assert.Equal(t, "dry-run-2", second)
	assert.Contains(t, buf.String(), "↳ in reply to dry-run-1\nb\n📷 https://x/p.jpg")
}

func TestPublisher_Text(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPublisher(&buf, FormatText)
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), domain.Post{Body: `<p><b>Cardenal azul</b><br><a href="https://x">ana</a></p>`})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<p>")
	assert.True(t, strings.Contains(out, "Cardenal azul"))
	assert.True(t, strings.Contains(out, "ana"))
}

func TestNewPublisher_UnknownFormat(t *testing.T) {
	_, err := NewPublisher(&bytes.Buffer{}, "markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markdown")
}
