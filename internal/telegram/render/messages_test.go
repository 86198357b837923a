package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestEnhancedPromptFits(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantFits bool
	}{
		{name: "short", value: "a cat", wantFits: true},
		{name: "markup does not count", value: strings.Repeat("<", 3000), wantFits: true},
		{name: "ascii over limit", value: strings.Repeat("x", MaxMessageLength), wantFits: false},
		{name: "astral characters count twice", value: strings.Repeat("😀", 3000), wantFits: false},
		{name: "astral characters under limit", value: strings.Repeat("😀", 2000), wantFits: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := json.RawMessage(fmt.Sprintf(`{"subject":%q}`, tt.value))

			text, fits := EnhancedPrompt(doc)

			assert.Equal(t, tt.wantFits, fits)
			assert.True(t, strings.HasPrefix(text, `<pre><code class="language-json">`))
		})
	}
}

func TestMessageLength(t *testing.T) {
	assert.Equal(t, 5, MessageLength("hello"))
	assert.Equal(t, 1, MessageLength("é"))
	assert.Equal(t, 2, MessageLength("😀"))
}

func TestHistory(t *testing.T) {
	assert.Equal(t, MsgHistoryEmpty, History(nil))

	out := History([]*entity.Prompt{{
		ID:        "0b6b1c2e",
		RawPrompt: "a   cat\non a sofa",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})

	assert.Contains(t, out, "1. a cat on a sofa")
	assert.Contains(t, out, "2024-05-01 12:00 UTC")
	assert.Contains(t, out, "id: 0b6b1c2e")
}
