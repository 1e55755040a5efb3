package persona

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitizer = bluemonday.UGCPolicy()
)

// Prefix returns the label shown before a message of sender.
func Prefix(sender Sender) string {
	switch sender {
	case SenderUser:
		return "🧠 You: "
	case SenderAI:
		return "🤖 "
	default:
		return ""
	}
}

// MessageHTML renders msg as sanitised HTML. The markdown source is prefixed
// with the sender label before conversion.
func MessageHTML(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Prefix(msg.Sender)+msg.Text), &buf); err != nil {
		return "", fmt.Errorf("persona: render markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// RenderHTML renders the transcript, wrapping every message in a div whose
// class names the sender.
func RenderHTML(messages []Message) (string, error) {
	var out bytes.Buffer
	for _, msg := range messages {
		body, err := MessageHTML(msg)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&out, "<div class=\"message message-%s\">%s</div>\n", html.EscapeString(string(msg.Sender)), body)
	}
	return out.String(), nil
}
