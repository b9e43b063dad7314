package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"iris/internal/models"

	"github.com/rs/zerolog"
)

func seedSearchStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "iris.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	now := time.Now()
	st.SaveHistory([]models.Conversation{
		{
			ID:        "conv-tiktok",
			Title:     "Viral TikTok Ideas",
			Timestamp: now,
			Messages: []models.Message{
				{ID: "m1", Role: models.RoleUser, Content: "What hooks work best right now?", Timestamp: now},
			},
		},
		{
			ID:        "conv-tagged",
			Title:     "Untitled brainstorm",
			Timestamp: now,
			Tags:      []string{"YouTube", "thumbnails"},
			Messages: []models.Message{
				{ID: "m2", Role: models.RoleUser, Content: "Rework my channel art", Timestamp: now},
			},
		},
		{
			ID:        "conv-body",
			Title:     "Scripts",
			Timestamp: now,
			Messages: []models.Message{
				{ID: "m3", Role: models.RoleAssistant, Content: "Try opening with a PODCAST clip", Timestamp: now},
			},
		},
	})

	category := "Captions"
	st.SavePinnedPrompts([]models.PinnedPrompt{
		{ID: "p1", Text: "Write an Instagram caption about coffee", Timestamp: now},
		{ID: "p2", Text: "Summarize this transcript", Timestamp: now, Category: &category},
	})
	return st
}

func conversationIDs(convs []models.Conversation) []string {
	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	return ids
}

func TestSearchConversations_EmptyQueryReturnsEverything(t *testing.T) {
	st := seedSearchStore(t)

	for _, query := range []string{"", "   ", "\t\n"} {
		got := st.SearchConversations(query)
		if len(got) != len(st.History()) {
			t.Errorf("SearchConversations(%q) returned %d conversations, want %d",
				query, len(got), len(st.History()))
		}
	}
}

func TestSearchConversations_Matching(t *testing.T) {
	st := seedSearchStore(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match lowercase", "tiktok", []string{"conv-tiktok"}},
		{"title match uppercase", "TIKTOK", []string{"conv-tiktok"}},
		{"tag match", "youtube", []string{"conv-tagged"}},
		{"message content match", "podcast", []string{"conv-body"}},
		{"message content match in user turn", "channel art", []string{"conv-tagged"}},
		{"no match", "quarterly report", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := conversationIDs(st.SearchConversations(tc.query))
			if len(got) != len(tc.want) {
				t.Fatalf("SearchConversations(%q) = %v, want %v", tc.query, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("SearchConversations(%q) = %v, want %v", tc.query, got, tc.want)
				}
			}
		})
	}
}

func TestSearchConversations_PreservesStoreOrder(t *testing.T) {
	st := seedSearchStore(t)

	// The first two stored conversations both mention "work"; the result
	// keeps stored order rather than ranking.
	got := conversationIDs(st.SearchConversations("work"))
	want := []string{"conv-tiktok", "conv-tagged"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SearchConversations(\"work\") = %v, want %v", got, want)
	}
}

func TestSearchPrompts(t *testing.T) {
	st := seedSearchStore(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty query returns everything", "", 2},
		{"text match", "instagram", 1},
		{"category match", "captions", 1},
		{"no match", "newsletter", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := st.SearchPrompts(tc.query)
			if len(got) != tc.want {
				t.Errorf("SearchPrompts(%q) returned %d prompts, want %d", tc.query, len(got), tc.want)
			}
		})
	}
}

func TestHighlight(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{
			name:  "single occurrence",
			text:  "Viral TikTok Ideas",
			query: "tiktok",
			want:  "Viral [TikTok] Ideas",
		},
		{
			name:  "multiple occurrences keep original casing",
			text:  "Hook, hook, HOOK",
			query: "hook",
			want:  "[Hook], [hook], [HOOK]",
		},
		{
			name:  "no occurrence",
			text:  "nothing here",
			query: "tiktok",
			want:  "nothing here",
		},
		{
			name:  "empty query leaves text untouched",
			text:  "anything",
			query: "   ",
			want:  "anything",
		},
		{
			name:  "regex metacharacters are plain text",
			text:  "cost is $4.99 (sale)",
			query: "$4.99 (sale)",
			want:  "cost is [$4.99 (sale)]",
		},
		{
			// "İ" lowers to a shorter byte sequence, so byte offsets in
			// a lowered copy of the text drift off the real match.
			name:  "length-changing case folds before the match",
			text:  strings.Repeat("İ", 6) + " tiktok",
			query: "tiktok",
			want:  strings.Repeat("İ", 6) + " [tiktok]",
		},
		{
			name:  "length-changing case folds inside the match",
			text:  "Viral TİKTOK Ideas",
			query: "tiktok",
			want:  "Viral [TİKTOK] Ideas",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Highlight(tc.text, tc.query, mark)
			if got != tc.want {
				t.Errorf("Highlight(%q, %q) = %q, want %q", tc.text, tc.query, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Highlight(%q, %q) produced invalid UTF-8: %q", tc.text, tc.query, got)
			}
		})
	}
}

func TestContextPreview(t *testing.T) {
	long := strings.Repeat("a", 80) + "needle" + strings.Repeat("b", 80)

	conv := models.Conversation{
		ID:    "c",
		Title: "Long form",
		Messages: []models.Message{
			{ID: "m1", Role: models.RoleUser, Content: long},
		},
	}

	got := ContextPreview(conv, "NEEDLE")
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("clipped preview should carry ellipses on both sides, got %q", got)
	}
	if !strings.Contains(got, "needle") {
		t.Errorf("preview should contain the match, got %q", got)
	}
	want := "..." + strings.Repeat("a", 50) + "needle" + strings.Repeat("b", 50) + "..."
	if got != want {
		t.Errorf("ContextPreview = %q, want %q", got, want)
	}
}

func TestContextPreview_LengthChangingCaseFolds(t *testing.T) {
	// 80 "İ" runes are 160 bytes but lower to 80; an offset computed in
	// the lowered copy would put the window 80 bytes short of the match.
	conv := models.Conversation{
		Messages: []models.Message{
			{Content: strings.Repeat("İ", 80) + "needle"},
		},
	}
	got := ContextPreview(conv, "needle")
	if !strings.Contains(got, "needle") {
		t.Fatalf("preview should contain the match, got %q", got)
	}
	want := "..." + strings.Repeat("İ", 25) + "needle"
	if got != want {
		t.Errorf("ContextPreview = %q, want %q", got, want)
	}
}

func TestContextPreview_MatchAtStart(t *testing.T) {
	conv := models.Conversation{
		Messages: []models.Message{
			{Content: "needle then " + strings.Repeat("x", 120)},
		},
	}
	got := ContextPreview(conv, "needle")
	if strings.HasPrefix(got, "...") {
		t.Errorf("unclipped start should have no leading ellipsis, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("clipped end should have a trailing ellipsis, got %q", got)
	}
}

func TestContextPreview_TitleOnlyMatchFallsBack(t *testing.T) {
	conv := models.Conversation{
		Title: "Viral TikTok Ideas",
		Messages: []models.Message{
			{Content: strings.Repeat("z", 150)},
		},
	}
	got := ContextPreview(conv, "tiktok")
	want := strings.Repeat("z", 100) + "..."
	if got != want {
		t.Errorf("fallback preview = %q, want first 100 runes plus ellipsis", got)
	}
}

func TestContextPreview_EmptyConversation(t *testing.T) {
	if got := ContextPreview(models.Conversation{}, "anything"); got != "" {
		t.Errorf("preview of empty conversation = %q, want \"\"", got)
	}
}
