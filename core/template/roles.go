package template

import (
	"regexp"
	"strings"

	"github.com/leofalp/genailite/providers/ai"
)

var roleOpenTag = regexp.MustCompile(`<(SYSTEM|USER|ASSISTANT)>`)

var tagRoles = map[string]ai.MessageRole{
	"SYSTEM":    ai.RoleSystem,
	"USER":      ai.RoleUser,
	"ASSISTANT": ai.RoleAssistant,
}

// ParseRoleTags splits rendered text into messages, one per well-formed
// <SYSTEM>, <USER> or <ASSISTANT> block, in document order. Tag names are
// case-sensitive and each message's content is trimmed. Text outside the
// blocks is dropped. An opening tag with no matching closing tag stays
// literal. When no block is found the whole trimmed text becomes a single
// user message.
func ParseRoleTags(rendered string) []ai.Message {
	var messages []ai.Message

	pos := 0
	for pos < len(rendered) {
		loc := roleOpenTag.FindStringSubmatchIndex(rendered[pos:])
		if loc == nil {
			break
		}
		name := rendered[pos+loc[2] : pos+loc[3]]
		bodyStart := pos + loc[1]
		closing := "</" + name + ">"
		rel := strings.Index(rendered[bodyStart:], closing)
		if rel < 0 {
			pos = bodyStart
			continue
		}

		messages = append(messages, ai.Message{
			Role:    tagRoles[name],
			Content: strings.TrimSpace(rendered[bodyStart : bodyStart+rel]),
		})
		pos = bodyStart + rel + len(closing)
	}

	if len(messages) == 0 {
		return []ai.Message{{Role: ai.RoleUser, Content: strings.TrimSpace(rendered)}}
	}
	return messages
}
