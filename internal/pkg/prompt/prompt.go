// Package prompt builds the ordered instruction list sent to the completion
// provider: system persona, mode persona, optional page context, then the
// tail of the conversation history.
package prompt

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	"bloom/internal/model/chat"
	"bloom/internal/model/settings"
)

// HistoryWindow caps how many trailing history messages are sent. Older
// history is silently dropped; there is no summarization or token budgeting.
const HistoryWindow = 10

// Assemble produces the role-tagged message list for one completion call.
// Entries with empty content (an unset mode prompt, a missing page URL) are
// omitted, never sent blank.
func Assemble(s *settings.Settings, mode chat.Mode, history []chat.Message, pageURL string) []*schema.Message {
	msgs := make([]*schema.Message, 0, HistoryWindow+3)

	if s.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(s.SystemPrompt))
	}
	if mp := s.ModePrompt(mode); mp != "" {
		msgs = append(msgs, schema.SystemMessage(mp))
	}
	if pageURL != "" {
		msgs = append(msgs, schema.SystemMessage(fmt.Sprintf("Kullanıcı şu sayfada: %s.", pageURL)))
	}

	recent := history
	if len(recent) > HistoryWindow {
		recent = recent[len(recent)-HistoryWindow:]
	}
	for _, m := range recent {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case chat.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(m.Content))
		}
	}

	return msgs
}
