// Package tui provides the Bubble Tea chat interface to the assistant.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ferntree/sprout/internal/ai"
	"github.com/ferntree/sprout/internal/chat"
	"github.com/ferntree/sprout/internal/history"
)

// Languages offered in the translation menu.
var Languages = []string{"Hindi", "Bengali", "Tamil", "Telugu", "Marathi", "Spanish"}

// ── Styles ────────────

var (
	// Top title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Speaker labels
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	modelLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Language badge after a translated reply
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// Attached analysis card
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	cardLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	// Translation menu
	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Messages ────────────

type replyMsg struct {
	text string
	err  error
}

type translationMsg struct {
	index    int
	language string
	err      error
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the chat view.
type Model struct {
	thread    *chat.Thread
	assistant ai.Assistant

	vp    viewport.Model
	input textinput.Model
	spin  spinner.Model

	width  int
	height int
	ready  bool

	// waiting is true while a chat reply is pending. Sending is disabled
	// until the reply (or its fallback) lands.
	waiting bool

	// translating is true while a translation command is pending. The
	// thread's own in-flight token guards re-triggering; this flag only
	// drives the spinner, which must not race the worker goroutine.
	translating bool

	// menuFor is the message index the translation menu is open for, -1
	// when closed. menuPick is the highlighted row.
	menuFor  int
	menuPick int

	// shown maps a message index to the language currently displayed for
	// it; absence means the original text.
	shown map[int]string

	errText string
}

// New creates a chat model over an existing thread.
func New(thread *chat.Thread, assistant ai.Assistant) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your plants…"
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		thread:    thread,
		assistant: assistant,
		input:     ti,
		spin:      sp,
		menuFor:   -1,
		shown:     make(map[int]string),
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(msg.Width, 1)
			m.ready = true
		}
		m.input.Width = m.width - 6
		m.layout()
		m.refresh()
		m.vp.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.waiting || m.translating {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			// The fallback takes the reply's place in the conversation;
			// nothing about the failed turn is recorded anywhere else.
			m.thread.Append(chat.Message{Role: chat.RoleModel, Text: ai.FallbackReply})
		} else {
			m.thread.Append(chat.Message{Role: chat.RoleModel, Text: msg.text})
		}
		m.refresh()
		m.vp.GotoBottom()
		return m, nil

	case translationMsg:
		m.translating = false
		if msg.err != nil {
			// Surfaced once; the cache key stays absent so the same
			// language can be requested again.
			m.errText = "Translation failed — pick the language again to retry."
		} else {
			m.shown[msg.index] = msg.language
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.menuFor >= 0 {
			return m.updateMenu(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.send()
		case "ctrl+t":
			m.openMenu()
			return m, nil
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  sprout chat")

	var bottom []string
	if m.menuFor >= 0 {
		bottom = append(bottom, m.renderMenu())
	}

	var inputRow string
	if m.waiting {
		inputRow = " " + m.spin.View() + dimStyle.Render(" thinking…")
	} else if m.translating {
		inputRow = " " + m.spin.View() + dimStyle.Render(" translating…")
	} else {
		inputRow = " > " + m.input.View()
	}
	bottom = append(bottom, inputRow)

	hint := "  enter send  ctrl+t translate reply  pgup/pgdn scroll  esc quit"
	if m.errText != "" {
		hint = "  " + errStyle.Render(m.errText)
	}
	bottom = append(bottom, statusBarStyle.Width(m.width).Render(hint))

	parts := append([]string{title, m.vp.View()}, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// ── Sending and translating ───────────────────────────────────────────────

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	// The context snapshot is taken before the new turn is appended.
	turns := turnsFrom(m.thread.Messages())
	m.thread.Append(chat.Message{Role: chat.RoleUser, Text: text})
	m.input.Reset()
	m.waiting = true
	m.errText = ""
	m.refresh()
	m.vp.GotoBottom()

	assistant := m.assistant
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		reply, err := assistant.Chat(context.Background(), turns, text, "", "")
		return replyMsg{text: reply, err: err}
	})
}

func (m *Model) openMenu() {
	// One translation at a time per view: the trigger is dead while a
	// request is in flight.
	if m.translating || m.thread.Busy() {
		return
	}
	i := m.latestModelIndex()
	if i < 0 {
		return
	}
	m.menuFor = i
	m.menuPick = 0
	m.errText = ""
	m.layout()
}

func (m *Model) closeMenu() {
	m.menuFor = -1
	m.layout()
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(Languages) + 1 // plus "Show original"
	switch msg.String() {
	case "esc", "ctrl+t":
		m.closeMenu()
		return m, nil
	case "up", "k":
		if m.menuPick > 0 {
			m.menuPick--
		}
		return m, nil
	case "down", "j":
		if m.menuPick < rows-1 {
			m.menuPick++
		}
		return m, nil
	case "enter":
		index := m.menuFor
		m.closeMenu()
		if m.menuPick == rows-1 {
			delete(m.shown, index)
			m.refresh()
			return m, nil
		}
		lang := Languages[m.menuPick]
		if message, ok := m.thread.Message(index); ok {
			if _, cached := message.Translation(lang); cached {
				// Cache hit: shown instantly, no request goes out.
				m.shown[index] = lang
				m.refresh()
				return m, nil
			}
		}
		m.translating = true
		thread, assistant := m.thread, m.assistant
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			_, err := thread.Translate(context.Background(), index, lang, assistant)
			return translationMsg{index: index, language: lang, err: err}
		})
	}
	return m, nil
}

// latestModelIndex returns the index of the newest assistant reply, or -1.
func (m Model) latestModelIndex() int {
	msgs := m.thread.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == chat.RoleModel {
			return i
		}
	}
	return -1
}

// ── Rendering ─────────────────────────────────────────────────────────────

// layout sizes the viewport around the fixed rows: title, input, status
// bar, and the menu when open.
func (m *Model) layout() {
	h := m.height - 3
	if m.menuFor >= 0 {
		h -= len(Languages) + 4 // menu rows + title + border
	}
	if h < 1 {
		h = 1
	}
	m.vp.Width = m.width
	m.vp.Height = h
}

// refresh rebuilds the conversation view from the thread.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	wrap := lipgloss.NewStyle().Width(m.width - 4)

	var sb strings.Builder
	for i, msg := range m.thread.Messages() {
		label := userLabelStyle.Render("  You")
		if msg.Role == chat.RoleModel {
			label = modelLabelStyle.Render("  Sprout")
		}
		text := msg.Text
		badge := ""
		if lang, ok := m.shown[i]; ok {
			if translated, cached := msg.Translation(lang); cached {
				text = translated
				badge = badgeStyle.Render("  [" + lang + "]")
			}
		}
		sb.WriteString(label + badge + "\n")
		if msg.Card != nil {
			sb.WriteString(renderCard(*msg.Card, m.width-8) + "\n")
		}
		if text != "" {
			sb.WriteString(wrap.Render("  "+text) + "\n")
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		sb.WriteString(dimStyle.Render("\n  Ask anything about your plants.") + "\n")
	}
	m.vp.SetContent(sb.String())
}

func (m Model) renderMenu() string {
	var sb strings.Builder
	sb.WriteString(menuTitleStyle.Render("Translate reply") + "\n")

	message, _ := m.thread.Message(m.menuFor)
	rows := append(append([]string{}, Languages...), "Show original")
	for i, row := range rows {
		label := " " + row + " "
		if i < len(Languages) {
			if _, cached := message.Translation(row); cached {
				label += dimStyle.Render("(cached)")
			}
		}
		if i == m.menuPick {
			sb.WriteString(selectedRowStyle.Render(label))
		} else {
			sb.WriteString(label)
		}
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
	return menuStyle.Render(sb.String())
}

// renderCard draws the ledger item a review chat is discussing.
func renderCard(it history.Item, width int) string {
	row := func(sb *strings.Builder, label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(cardLabelStyle.Render(fmt.Sprintf("%-12s", label)) + value + "\n")
	}
	list := func(sb *strings.Builder, label string, values []string) {
		if len(values) == 0 {
			return
		}
		sb.WriteString(cardLabelStyle.Render(label) + "\n")
		for _, v := range values {
			sb.WriteString(bulletStyle.Render(" •") + " " + v + "\n")
		}
	}

	var sb strings.Builder
	row(&sb, "Plant", it.PlantName)
	row(&sb, "Date", it.Timestamp.Format("2006-01-02 15:04"))
	switch p := it.Payload.(type) {
	case history.Analysis:
		row(&sb, "Disease", p.Disease)
		row(&sb, "Severity", p.Severity)
		list(&sb, "Symptoms", p.Symptoms)
		list(&sb, "Organic cure", p.OrganicCure)
		list(&sb, "Chemical cure", p.ChemicalCure)
		list(&sb, "Prevention", p.Prevention)
	case history.Guide:
		sb.WriteString(p.Text + "\n")
	case history.SoilReport:
		row(&sb, "pH", p.PH)
		row(&sb, "Nitrogen", p.Nitrogen)
		row(&sb, "Phosphorus", p.Phosphorus)
		row(&sb, "Potassium", p.Potassium)
		list(&sb, "Suitable crops", p.SuitableCrops)
		list(&sb, "Improvements", p.Improvements)
	case history.SeedReport:
		row(&sb, "Seed", p.SeedName)
		row(&sb, "Plant", p.ParentPlant)
		row(&sb, "Description", p.Description)
		row(&sb, "Best soil", p.BestSoil)
		list(&sb, "Growth tips", p.GrowthTips)
	}
	return cardStyle.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

// turnsFrom converts the thread into the assistant's context shape.
func turnsFrom(msgs []chat.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(msgs))
	for _, msg := range msgs {
		turns = append(turns, ai.Turn{Role: msg.Role, Text: msg.Text})
	}
	return turns
}

// Run starts the chat TUI over the given thread.
func Run(thread *chat.Thread, assistant ai.Assistant) error {
	p := tea.NewProgram(New(thread, assistant), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
