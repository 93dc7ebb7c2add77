package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"CasaLinkAPI/internal/apiclient"
	"CasaLinkAPI/internal/inbox"
	"CasaLinkAPI/internal/model"
)

const requestTimeout = 10 * time.Second

type inputMode int

const (
	modeList inputMode = iota
	modeSearch
	modeCompose
)

type inboxLoadedMsg struct {
	result inbox.LoadResult
}

type historyLoadedMsg struct {
	result inbox.HistoryResult
}

type sendDoneMsg struct {
	result inbox.SendResult
}

type deleteDoneMsg struct {
	target inbox.DeleteRequest
	err    error
}

// Model hosts the three client state machines on bubbletea's event loop.
// All mutation happens in Update; the tea.Cmd closures only do I/O and
// report back through the typed messages above.
type Model struct {
	client     *apiclient.Client
	controller *inbox.Controller
	session    *inbox.DetailSession
	deletion   *inbox.DeletionWorkflow

	mode       inputMode
	searchBuf  string
	composeBuf string
	cursor     int
	width      int
	height     int
	statusLine string
}

func NewModel(client *apiclient.Client, nav inbox.Navigator) *Model {
	return &Model{
		client:     client,
		controller: inbox.NewController(nav),
		session:    inbox.NewDetailSession(),
		deletion:   inbox.NewDeletionWorkflow(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.fetchCmd(m.controller.Init())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(typed)
	case inboxLoadedMsg:
		return m, m.handleInboxLoaded(typed)
	case historyLoadedMsg:
		m.session.ApplyHistory(typed.result)
		return m, m.refreshIfNeeded()
	case sendDoneMsg:
		if m.session.ApplySend(typed.result) && typed.result.Err == nil {
			m.composeBuf = ""
			m.mode = modeList
		}
		return m, m.refreshIfNeeded()
	case deleteDoneMsg:
		return m, m.handleDeleteDone(typed)
	}
	return m, nil
}

func (m *Model) handleInboxLoaded(msg inboxLoadedMsg) tea.Cmd {
	if !m.controller.ApplyLoad(msg.result) {
		return nil
	}
	m.clampCursor()

	// A deep-linked selection resolves its type only once the list is in;
	// open the thread as soon as that happens.
	selection := m.controller.Selection()
	if selection != nil && selection.Type != "" && m.session.ThreadID() != selection.ThreadID {
		return m.openCmd(m.session.Open(selection.Type, selection.ThreadID))
	}
	return nil
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) tea.Cmd {
	m.deletion.ApplyResult(msg.err)
	if m.deletion.State() == inbox.DeletionFailed {
		m.statusLine = "delete failed: " + msg.err.Error()
		m.deletion.Reset()
		return nil
	}
	m.deletion.Reset()
	m.statusLine = "conversation deleted"
	if m.session.ThreadID() == msg.target.ThreadID && m.session.Type() == msg.target.Type {
		m.session.Close()
	}
	return m.fetchCmd(m.controller.RemoveConversation(msg.target.ThreadID, msg.target.Type))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.deletion.State() == inbox.DeletionConfirming {
		return m.handleConfirmKey(msg)
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCompose:
		return m.handleComposeKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "1":
		return m.switchFilter(model.FilterAll)
	case "2":
		return m.switchFilter(model.FilterProperty)
	case "3":
		return m.switchFilter(model.FilterCommunity)
	case "/":
		m.mode = modeSearch
		return nil
	case "r":
		if m.controller.LoadFailed() {
			return m.fetchCmd(m.controller.Retry())
		}
		return nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "j":
		if m.cursor < len(m.controller.Visible())-1 {
			m.cursor++
		}
		return nil
	case "enter":
		return m.openSelected()
	case "m":
		if m.session.ThreadID() != "" {
			m.mode = modeCompose
		}
		return nil
	case "d":
		if conversation, ok := m.conversationUnderCursor(); ok {
			m.deletion.Request(conversation.Type, conversation.ID)
		}
		return nil
	case "esc":
		if m.session.ThreadID() != "" {
			m.session.Close()
			m.controller.ClearSelection()
		}
		return nil
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		request, ok := m.deletion.Confirm()
		if !ok {
			return nil
		}
		return m.deleteCmd(request)
	case "n", "N", "esc":
		m.deletion.Cancel()
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeList
	case "backspace":
		if len(m.searchBuf) > 0 {
			m.searchBuf = m.searchBuf[:len(m.searchBuf)-1]
		}
		m.controller.SetSearch(m.searchBuf)
		m.clampCursor()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.searchBuf += keyText(msg)
			m.controller.SetSearch(m.searchBuf)
			m.clampCursor()
		}
	}
	return nil
}

func keyText(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return " "
	}
	return string(msg.Runes)
}

func (m *Model) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return nil
	case "enter":
		content, err := m.session.ValidateSend(m.composeBuf)
		if err != nil {
			m.statusLine = "cannot send an empty message"
			return nil
		}
		return m.sendCmd(m.session.Epoch(), m.session.Type(), m.session.ThreadID(), content)
	case "backspace":
		if len(m.composeBuf) > 0 {
			m.composeBuf = m.composeBuf[:len(m.composeBuf)-1]
		}
		return nil
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.composeBuf += keyText(msg)
		}
		return nil
	}
}

func (m *Model) switchFilter(filter model.Filter) tea.Cmd {
	request, ok := m.controller.SetFilter(filter)
	if !ok {
		return nil
	}
	m.session.Close()
	m.cursor = 0
	return m.fetchCmd(request)
}

func (m *Model) openSelected() tea.Cmd {
	conversation, ok := m.conversationUnderCursor()
	if !ok {
		return nil
	}
	m.controller.Select(conversation)
	return m.openCmd(m.session.Open(conversation.Type, conversation.ID))
}

func (m *Model) conversationUnderCursor() (model.Conversation, bool) {
	visible := m.controller.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return model.Conversation{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.controller.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// refreshIfNeeded reconciles the list after an open or send changed
// server-side state behind its back.
func (m *Model) refreshIfNeeded() tea.Cmd {
	if !m.session.TakeRefreshNeeded() {
		return nil
	}
	return m.fetchCmd(m.controller.Retry())
}

func (m *Model) fetchCmd(request inbox.FetchRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snapshot, err := client.Aggregate(ctx, request.Filter)
		return inboxLoadedMsg{result: inbox.LoadResult{Token: request.Token, Snapshot: snapshot, Err: err}}
	}
}

func (m *Model) openCmd(request inbox.OpenRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		history, err := client.Open(ctx, request.Type, request.ThreadID)
		return historyLoadedMsg{result: inbox.HistoryResult{Epoch: request.Epoch, History: history, Err: err}}
	}
}

func (m *Model) sendCmd(epoch uint64, conversationType model.ConversationType, threadID string, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		message, err := client.Send(ctx, conversationType, threadID, content)
		return sendDoneMsg{result: inbox.SendResult{Epoch: epoch, Message: message, Err: err}}
	}
}

func (m *Model) deleteCmd(request inbox.DeleteRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Delete(ctx, request.Type, request.ThreadID)
		return deleteDoneMsg{target: request, err: err}
	}
}
