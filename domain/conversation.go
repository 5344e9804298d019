package domain

import "strings"

// conversationSeparator joins the two participant IDs. User IDs are UUIDs
// and can never contain it, so the derived key is collision-free.
const conversationSeparator = "_"

// ConversationIDFor derives the deterministic key for the unordered pair of
// participants: ConversationIDFor(a, b) == ConversationIDFor(b, a).
func ConversationIDFor(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + conversationSeparator + b
}

// ConversationParticipants splits a conversation id back into its two
// participant IDs. The second return value is false for malformed input.
func ConversationParticipants(conversationID string) (string, string, bool) {
	first, second, ok := strings.Cut(conversationID, conversationSeparator)
	if !ok || first == "" || second == "" {
		return "", "", false
	}
	return first, second, true
}
