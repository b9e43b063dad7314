package storage

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"iris/internal/models"
)

// previewWindow is the number of bytes of context kept on each side of a
// match in ContextPreview.
const previewWindow = 50

// SearchConversations returns every conversation whose title, tags, or
// message contents contain query, case-insensitively. An empty or
// whitespace query means "show everything": the full history is returned.
// Order is preserved from the store; there is no relevance ranking at this
// corpus size.
func (s *Store) SearchConversations(query string) []models.Conversation {
	history := s.History()
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return history
	}

	matched := make([]models.Conversation, 0, len(history))
	for _, conv := range history {
		if conversationMatches(conv, term) {
			matched = append(matched, conv)
		}
	}
	return matched
}

// SearchPrompts returns every pinned prompt whose text or category contains
// query, case-insensitively, with the same empty-query rule as
// SearchConversations.
func (s *Store) SearchPrompts(query string) []models.PinnedPrompt {
	prompts := s.PinnedPrompts()
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return prompts
	}

	matched := make([]models.PinnedPrompt, 0, len(prompts))
	for _, prompt := range prompts {
		if promptMatches(prompt, term) {
			matched = append(matched, prompt)
		}
	}
	return matched
}

// term is already trimmed and lowercased.
func conversationMatches(conv models.Conversation, term string) bool {
	if strings.Contains(strings.ToLower(conv.Title), term) {
		return true
	}
	for _, tag := range conv.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	for _, msg := range conv.Messages {
		if strings.Contains(strings.ToLower(msg.Content), term) {
			return true
		}
	}
	return false
}

func promptMatches(prompt models.PinnedPrompt, term string) bool {
	if strings.Contains(strings.ToLower(prompt.Text), term) {
		return true
	}
	return prompt.Category != nil && strings.Contains(strings.ToLower(*prompt.Category), term)
}

// Highlight wraps every case-insensitive occurrence of query in text using
// mark. The matching rule is the same plain-substring rule the search
// predicates use, so highlighted spans always agree with matched records.
func Highlight(text, query string, mark func(string) string) string {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return text
	}

	var b strings.Builder
	for {
		start, end := foldIndex(text, term)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		b.WriteString(mark(text[start:end]))
		text = text[end:]
	}
}

// foldIndex locates the first case-insensitive occurrence of term in text
// and returns the byte range of the match within text. term must already be
// lowercased. Lowering can change a rune's byte length ("İ" lowers to a
// shorter encoding), so indices into a lowered copy do not transfer back;
// the match is folded in place instead, rune by rune, with every offset
// referring to text itself. Returns -1, -1 when there is no match.
func foldIndex(text, term string) (int, int) {
	for i := range text {
		matched := 0
		j := i
		for j < len(text) && matched < len(term) {
			r, size := utf8.DecodeRuneInString(text[j:])
			var folded [utf8.UTFMax]byte
			n := utf8.EncodeRune(folded[:], unicode.ToLower(r))
			if matched+n > len(term) || string(folded[:n]) != term[matched:matched+n] {
				break
			}
			matched += n
			j += size
		}
		if matched == len(term) {
			return i, j
		}
	}
	return -1, -1
}

// ContextPreview extracts a snippet around the first occurrence of query in
// the conversation's messages: the window spans 50 bytes before the match
// and 50 past its end, clipped to rune boundaries, with ellipses marking
// clipped edges. When no message matches (only the title or a tag did), it
// falls back to the first 100 runes of the first message, or "" when the
// conversation is empty.
func ContextPreview(conv models.Conversation, query string) string {
	term := strings.ToLower(strings.TrimSpace(query))
	if term != "" {
		for _, msg := range conv.Messages {
			start, end := foldIndex(msg.Content, term)
			if start < 0 {
				continue
			}
			return clipWindow(msg.Content, start, end-start)
		}
	}

	if len(conv.Messages) == 0 {
		return ""
	}
	first := conv.Messages[0].Content
	if utf8.RuneCountInString(first) > 100 {
		first = string([]rune(first)[:100]) + "..."
	}
	return first
}

func clipWindow(content string, idx, matchLen int) string {
	start := idx - previewWindow
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + previewWindow
	if end > len(content) {
		end = len(content)
	}
	// Keep the window on rune boundaries.
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	for end < len(content) && !utf8.RuneStart(content[end]) {
		end++
	}

	preview := content[start:end]
	if start > 0 {
		preview = "..." + preview
	}
	if end < len(content) {
		preview = preview + "..."
	}
	return preview
}
