package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"CasaLinkAPI/internal/inbox"
	"CasaLinkAPI/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	unreadStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	faintStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("CasaLink Messages"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if degraded := m.controller.Degraded(); len(degraded) > 0 {
		names := make([]string, 0, len(degraded))
		for _, domain := range degraded {
			names = append(names, string(domain))
		}
		b.WriteString(errorStyle.Render("some conversations are unavailable: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	switch {
	case m.controller.Phase() == inbox.PhaseLoading:
		b.WriteString(faintStyle.Render("loading conversations..."))
		b.WriteString("\n")
	case m.controller.LoadFailed():
		b.WriteString(errorStyle.Render("could not load your inbox"))
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("press r to retry"))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderPanes())
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderTabs() string {
	counts := m.controller.Counts()
	tabs := []struct {
		filter model.Filter
		label  string
		count  int
	}{
		{model.FilterAll, "1 All", counts.All},
		{model.FilterProperty, "2 Properties", counts.Property},
		{model.FilterCommunity, "3 Community", counts.Community},
	}

	parts := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := fmt.Sprintf("%s (%d)", tab.label, tab.count)
		if tab.filter == m.controller.Filter() {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderPanes() string {
	list := m.renderList()
	if m.session.ThreadID() == "" {
		return paneStyle.Render(list)
	}
	detail := m.renderDetail()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(list),
		paneStyle.Render(detail))
}

func (m *Model) renderList() string {
	visible := m.controller.Visible()
	if len(visible) == 0 {
		if m.controller.Search() != "" {
			return faintStyle.Render("no conversations match your search")
		}
		return faintStyle.Render("no conversations yet")
	}

	var b strings.Builder
	for i, conversation := range visible {
		line := m.renderConversationLine(conversation)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderConversationLine(conversation model.Conversation) string {
	name := conversation.OtherUser.DisplayName
	subject := ""
	if conversation.Property != nil {
		subject = " · " + conversation.Property.Title
	}
	preview := ""
	if conversation.LastMessage != nil {
		preview = truncate(conversation.LastMessage.Content, 40)
	}

	line := fmt.Sprintf("%s%s  %s", name, subject, faintStyle.Render(preview))
	if conversation.UnreadCount > 0 {
		line = unreadStyle.Render(fmt.Sprintf("[%d] ", conversation.UnreadCount)) + line
	}
	return line
}

func (m *Model) renderDetail() string {
	var b strings.Builder

	if m.session.Loading() {
		return faintStyle.Render("loading messages...")
	}
	if err := m.session.Err(); err != nil {
		return errorStyle.Render("could not load this conversation")
	}

	messages := m.session.Messages()
	if len(messages) == 0 {
		b.WriteString(faintStyle.Render("no messages"))
	}
	for i, message := range messages {
		b.WriteString(faintStyle.Render(message.SentAt.Format("Jan 2 15:04")))
		b.WriteString("  ")
		b.WriteString(message.Content)
		if i < len(messages)-1 {
			b.WriteString("\n")
		}
	}

	if m.mode == modeCompose {
		b.WriteString("\n\n")
		b.WriteString("compose: " + m.composeBuf + "█")
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.deletion.State() == inbox.DeletionConfirming {
		return errorStyle.Render("delete this conversation? it cannot be undone (y/n)")
	}
	if m.mode == modeSearch {
		return "search: " + m.searchBuf + "█"
	}
	if m.statusLine != "" {
		return m.statusLine
	}
	return faintStyle.Render("1/2/3 tabs · / search · enter open · m message · d delete · q quit")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
