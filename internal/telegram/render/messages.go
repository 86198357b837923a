package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/futig/prompt-enhancer/internal/entity"
)

// MaxMessageLength is the Telegram limit for a single text message
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! Send me a short description of an image and I will turn it into a detailed, structured prompt.

Example: "girl in a pink hoodie at the mall, flash photo"

/history - your latest enhanced prompts
/help - show this message`

	MsgHistoryEmpty = "📭 No enhanced prompts yet. Send me a description to create one."

	MsgTooLongCaption = "📎 The enhanced prompt is too long for a message, here it is as a file."

	ErrGeneric          = "❌ Something went wrong. Please try again."
	ErrEmptyPrompt      = "✏️ Send a non-empty text description."
	ErrNotConfigured    = "⚙️ The service is not configured yet. Please try again later."
	ErrModelUnavailable = "⏳ The model is unavailable right now. Please try again in a minute."
	ErrUnreadableAnswer = "🤔 The model answered in an unexpected format. Please try again."
	ErrUnknownCommand   = "❓ Unknown command. Use /help"
)

// PrettyJSON indents a JSON document, falling back to the raw bytes
func PrettyJSON(doc json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return string(doc)
	}
	return buf.String()
}

// EnhancedPrompt renders an enhanced prompt as an HTML code block. ok is
// false when the result doesn't fit into one message.
func EnhancedPrompt(doc json.RawMessage) (text string, ok bool) {
	pretty := PrettyJSON(doc)
	text = `<pre><code class="language-json">` + html.EscapeString(pretty) + `</code></pre>`
	return text, MessageLength(pretty) <= MaxMessageLength
}

// MessageLength is the length of visible text as Telegram counts it, in
// UTF-16 code units
func MessageLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// History renders stored prompts, newest first
func History(prompts []*entity.Prompt) string {
	if len(prompts) == 0 {
		return MsgHistoryEmpty
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🕘 Latest %d enhanced prompts:\n", len(prompts))
	for i, p := range prompts {
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n   id: %s\n",
			i+1,
			truncate(p.RawPrompt, 200),
			p.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
			p.ID,
		)
	}
	return b.String()
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}
