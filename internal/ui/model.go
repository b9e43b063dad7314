package ui

import (
	"context"
	"fmt"
	"strings"

	"iris/internal/chat"
	"iris/internal/models"
	"iris/internal/storage"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Greeting shown in an empty conversation. It is a presentation concern and
// is never persisted; only real turns reach the store.
const greeting = "Hi! I'm Iris, your AI-powered content creation co-pilot. I'm here to help you generate ideas, analyze videos, improve your content, and write scripts or captions. What would you like to work on today?"

type FocusState int

const (
	FocusSidebar FocusState = iota
	FocusChat
	FocusSearch
	FocusCategory
)

// conversationItem adapts a conversation to the sidebar list.
type conversationItem struct {
	conv models.Conversation
}

func (i conversationItem) FilterValue() string { return i.conv.Title }

func (i conversationItem) Title() string {
	if i.conv.Pinned {
		return PinStyle.Render("* ") + i.conv.Title
	}
	return i.conv.Title
}

func (i conversationItem) Description() string { return i.conv.Preview() }

var _ list.Item = conversationItem{}

// turnMsg carries the outcome of a chat turn back into Update.
type turnMsg struct {
	result chat.Result
	err    error
}

// Model represents the main application state. It never caches store state
// across mutations: every mutation is followed by a refresh from the store,
// so the UI always renders from a fresh snapshot.
type Model struct {
	viewport      viewport.Model
	textarea      textarea.Model
	searchInput   textinput.Model
	categoryInput textinput.Model
	convList      list.Model

	store   *storage.Store
	manager *chat.Manager
	log     zerolog.Logger

	conversations []models.Conversation
	current       models.Conversation
	hasCurrent    bool

	searchConvs   []models.Conversation
	searchPrompts []models.PinnedPrompt

	// Turns completed while no current conversation resolves are shown
	// but never persisted.
	ephemeral []models.Message

	renderer *glamour.TermRenderer

	// Prompt text held while the category input is open.
	pendingPin string

	pendingPrompt string
	status        string
	loading       bool
	ready         bool
	focus         FocusState
	width         int
	height        int
	sidebarWidth  int
}

// NewModel creates the UI over an already-constructed store and manager.
func NewModel(store *storage.Store, manager *chat.Manager, log zerolog.Logger) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask Iris anything..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	si := textinput.New()
	si.Placeholder = "Search chats and prompts..."
	si.Prompt = "/ "

	ci := textinput.New()
	ci.Placeholder = "Category (optional, Enter to save)..."
	ci.Prompt = "# "

	vp := viewport.New(50, 20)

	convList := list.New(nil, list.NewDefaultDelegate(), 30, 20)
	convList.Title = "Conversations"
	convList.SetShowStatusBar(false)
	convList.SetFilteringEnabled(false)
	convList.SetShowHelp(false)

	m := &Model{
		textarea:      ta,
		searchInput:   si,
		categoryInput: ci,
		viewport:      vp,
		convList:      convList,
		store:         store,
		manager:       manager,
		log:           log,
		focus:         FocusChat,
		sidebarWidth:  30,
	}

	m.refresh()
	if len(m.conversations) == 0 {
		conv := models.NewConversation()
		store.AddConversation(conv)
		store.SetCurrentChatID(conv.ID)
		m.refresh()
	}
	if !m.hasCurrent && len(m.conversations) > 0 {
		// The stored pointer may dangle; fall back to the most recent
		// conversation.
		store.SetCurrentChatID(m.conversations[0].ID)
		m.refresh()
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.EnterAltScreen)
}

// refresh reloads every collection from the store and rebuilds the sidebar.
func (m *Model) refresh() {
	m.conversations = m.store.History()
	m.current, m.hasCurrent = m.store.CurrentConversation()
	if m.hasCurrent {
		m.ephemeral = nil
	}

	ordered := sidebarOrder(m.conversations)
	items := make([]list.Item, len(ordered))
	for i, conv := range ordered {
		items[i] = conversationItem{conv: conv}
	}
	m.convList.SetItems(items)
	for i, conv := range ordered {
		if m.hasCurrent && conv.ID == m.current.ID {
			m.convList.Select(i)
			break
		}
	}
}

// sidebarOrder arranges conversations for display: pinned conversations
// first, stored order preserved within each group. Stored order itself is
// untouched; this is a presentation concern.
func sidebarOrder(convs []models.Conversation) []models.Conversation {
	ordered := make([]models.Conversation, 0, len(convs))
	for _, conv := range convs {
		if conv.Pinned {
			ordered = append(ordered, conv)
		}
	}
	for _, conv := range convs {
		if !conv.Pinned {
			ordered = append(ordered, conv)
		}
	}
	return ordered
}

// Update handles UI events and state changes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		clCmd tea.Cmd
		siCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatWidth := msg.Width - m.sidebarWidth - 2
		chatHeight := msg.Height - 7

		if !m.ready {
			m.viewport = viewport.New(chatWidth, chatHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = chatHeight
		}
		m.textarea.SetWidth(chatWidth - 2)
		m.searchInput.Width = chatWidth - 4
		m.categoryInput.Width = chatWidth - 4
		m.convList.SetSize(m.sidebarWidth-2, chatHeight+3)

		if renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(chatWidth-4),
		); err == nil {
			m.renderer = renderer
		}
		m.updateViewport()

	case tea.KeyMsg:
		m.status = ""
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			if m.focus == FocusSearch {
				m.exitSearch()
				m.updateViewport()
				break
			}
			if m.focus == FocusCategory {
				m.cancelPin()
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyTab:
			if m.focus == FocusSearch || m.focus == FocusCategory {
				break
			}
			if m.focus == FocusSidebar {
				m.focus = FocusChat
				m.textarea.Focus()
			} else {
				m.focus = FocusSidebar
				m.textarea.Blur()
			}

		case tea.KeyCtrlF:
			m.focus = FocusSearch
			m.textarea.Blur()
			m.searchInput.Focus()
			m.runSearch()
			m.updateViewport()

		case tea.KeyCtrlN:
			conv := models.NewConversation()
			m.store.AddConversation(conv)
			m.store.SetCurrentChatID(conv.ID)
			m.refresh()
			m.focus = FocusChat
			m.textarea.Focus()
			m.updateViewport()

		case tea.KeyCtrlD:
			if id, ok := m.selectedConversationID(); ok {
				m.store.DeleteConversation(id)
				m.refresh()
				m.updateViewport()
			}

		case tea.KeyCtrlT:
			if id, ok := m.selectedConversationID(); ok {
				m.store.ToggleConversationPin(id)
				m.refresh()
			}

		case tea.KeyCtrlP:
			text := strings.TrimSpace(m.textarea.Value())
			if text != "" && m.focus == FocusChat {
				// The prompt is saved once the category input closes.
				m.pendingPin = text
				m.focus = FocusCategory
				m.textarea.Blur()
				m.categoryInput.Focus()
			}

		case tea.KeyCtrlO:
			if m.focus == FocusSearch && len(m.searchPrompts) > 0 {
				m.textarea.SetValue(m.searchPrompts[0].Text)
				m.exitSearch()
				m.updateViewport()
			}

		case tea.KeyEnter:
			switch m.focus {
			case FocusSidebar:
				if item, ok := m.convList.SelectedItem().(conversationItem); ok {
					m.store.SetCurrentChatID(item.conv.ID)
					m.refresh()
					m.focus = FocusChat
					m.textarea.Focus()
					m.updateViewport()
				}

			case FocusSearch:
				if len(m.searchConvs) > 0 {
					m.store.SetCurrentChatID(m.searchConvs[0].ID)
					m.refresh()
					m.exitSearch()
					m.updateViewport()
				}

			case FocusCategory:
				m.store.AddPinnedPrompt(m.pendingPin, optionalCategory(m.categoryInput.Value()))
				m.status = "Prompt pinned"
				m.cancelPin()
				return m, nil

			case FocusChat:
				prompt := strings.TrimSpace(m.textarea.Value())
				if m.loading || prompt == "" {
					break
				}
				m.loading = true
				m.pendingPrompt = prompt
				m.textarea.Reset()
				m.updateViewport()
				return m, m.sendTurn(prompt)
			}
		}

	case turnMsg:
		m.loading = false
		m.pendingPrompt = ""
		if msg.err != nil {
			// Rejected sends (busy, empty prompt) surface as a status
			// line; the guards above make them rare.
			m.log.Warn().Err(msg.err).Msg("send rejected")
			m.status = msg.err.Error()
		}
		m.refresh()
		if msg.err == nil && !m.hasCurrent {
			m.ephemeral = append(m.ephemeral, msg.result.UserMessage, msg.result.AssistantMessage)
		}
		m.updateViewport()
	}

	switch m.focus {
	case FocusChat:
		m.textarea, tiCmd = m.textarea.Update(msg)
	case FocusSidebar:
		m.convList, clCmd = m.convList.Update(msg)
	case FocusSearch:
		before := m.searchInput.Value()
		m.searchInput, siCmd = m.searchInput.Update(msg)
		if m.searchInput.Value() != before {
			m.runSearch()
			m.updateViewport()
		}
	case FocusCategory:
		m.categoryInput, siCmd = m.categoryInput.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, clCmd, siCmd)
}

// selectedConversationID resolves which conversation a destructive key
// targets: the sidebar selection when the sidebar has focus, otherwise the
// current conversation.
func (m *Model) selectedConversationID() (string, bool) {
	if m.focus == FocusSidebar {
		if item, ok := m.convList.SelectedItem().(conversationItem); ok {
			return item.conv.ID, true
		}
		return "", false
	}
	if m.hasCurrent {
		return m.current.ID, true
	}
	return "", false
}

// cancelPin closes the category input and hands focus back to the chat.
func (m *Model) cancelPin() {
	m.pendingPin = ""
	m.categoryInput.Reset()
	m.categoryInput.Blur()
	m.focus = FocusChat
	m.textarea.Focus()
}

// optionalCategory turns the category input's text into the store's
// optional form: nil when nothing was entered.
func optionalCategory(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (m *Model) exitSearch() {
	m.focus = FocusChat
	m.searchInput.Reset()
	m.searchInput.Blur()
	m.searchConvs = nil
	m.searchPrompts = nil
	m.textarea.Focus()
}

func (m *Model) runSearch() {
	query := m.searchInput.Value()
	m.searchConvs = m.store.SearchConversations(query)
	m.searchPrompts = m.store.SearchPrompts(query)
}

// sendTurn runs one chat turn off the UI goroutine.
func (m Model) sendTurn(prompt string) tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		result, err := manager.Send(context.Background(), prompt)
		return turnMsg{result: result, err: err}
	}
}

func (m *Model) updateViewport() {
	if m.focus == FocusSearch {
		m.viewport.SetContent(m.renderSearchResults())
		m.viewport.GotoTop()
		return
	}

	var content strings.Builder

	if len(m.ephemeral) > 0 && !m.hasCurrent {
		for _, msg := range m.ephemeral {
			content.WriteString(m.renderMessage(msg))
		}
	} else if !m.hasCurrent || (len(m.current.Messages) == 0 && m.pendingPrompt == "") {
		content.WriteString(MessageStyle.Render(
			AssistantStyle.Render("Iris") + "\n" + greeting + "\n\n",
		))
		content.WriteString(HelpStyle.Render("Controls:\n"))
		content.WriteString(HelpStyle.Render("• Tab - Switch between sidebar and chat\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+N - New chat  • Ctrl+D - Delete chat  • Ctrl+T - Pin chat\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+F - Search  • Ctrl+P - Pin current prompt\n"))
		content.WriteString(HelpStyle.Render("• Enter - Send message  • Ctrl+C - Quit\n\n"))
	} else {
		for _, msg := range m.current.Messages {
			content.WriteString(m.renderMessage(msg))
		}
	}

	if m.pendingPrompt != "" {
		content.WriteString(m.renderMessage(models.Message{
			Role:    models.RoleUser,
			Content: m.pendingPrompt,
		}))
	}
	if m.loading {
		content.WriteString(MessageStyle.Render(
			LoadingStyle.Render("Iris is typing...") + "\n",
		))
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg models.Message) string {
	header := UserStyle.Render(msg.Role.DisplayName())
	if msg.Role == models.RoleAssistant {
		header = AssistantStyle.Render(msg.Role.DisplayName())
	}
	if !msg.Timestamp.IsZero() {
		header += " " + TimeStyle.Render("["+msg.Timestamp.Format("15:04:05")+"]")
	}

	body := msg.Content
	// Assistant replies may carry lightweight markdown.
	if msg.Role == models.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Content); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	return MessageStyle.Render(header + "\n" + body + "\n\n")
}

func (m *Model) renderSearchResults() string {
	query := m.searchInput.Value()
	mark := func(s string) string { return HighlightStyle.Render(s) }

	var content strings.Builder
	content.WriteString(SearchHeaderStyle.Render(
		fmt.Sprintf("Conversations (%d)", len(m.searchConvs))) + "\n\n")
	for _, conv := range m.searchConvs {
		title := storage.Highlight(conv.Title, query, mark)
		if conv.Pinned {
			title = PinStyle.Render("* ") + title
		}
		content.WriteString("  " + title + "\n")
		if preview := storage.ContextPreview(conv, query); preview != "" {
			content.WriteString("  " + HelpStyle.Render(storage.Highlight(preview, query, mark)) + "\n")
		}
		if len(conv.Tags) > 0 {
			content.WriteString("  " + TagStyle.Render("#"+strings.Join(conv.Tags, " #")) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(SearchHeaderStyle.Render(
		fmt.Sprintf("Pinned prompts (%d)", len(m.searchPrompts))) + "\n\n")
	for _, prompt := range m.searchPrompts {
		content.WriteString("  " + storage.Highlight(prompt.Text, query, mark) + "\n")
		if prompt.Category != nil {
			content.WriteString("  " + TagStyle.Render(*prompt.Category) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(HelpStyle.Render("Enter - Open top conversation  • Ctrl+O - Use top prompt  • Esc - Back\n"))
	return content.String()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	sidebarContent := m.convList.View()
	var sidebar string
	if m.focus == FocusSidebar {
		sidebar = SidebarFocusedStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	} else {
		sidebar = SidebarStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	}

	chatWidth := m.width - m.sidebarWidth - 2
	header := TitleStyle.Width(chatWidth).Render("Iris - Content Creation Co-Pilot")

	var input string
	switch m.focus {
	case FocusSearch:
		input = m.searchInput.View()
	case FocusCategory:
		input = m.categoryInput.View()
	default:
		input = m.textarea.View()
	}

	statusLine := ""
	if m.status != "" {
		statusLine = "\n" + HelpStyle.Render(m.status)
	}

	chatArea := ChatStyle.Width(chatWidth).Render(
		fmt.Sprintf("%s\n%s\n%s%s", header, m.viewport.View(), input, statusLine),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatArea)
}
