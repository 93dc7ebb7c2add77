package inbox

import (
	"context"
	"strings"

	"CasaLinkAPI/internal/model"
)

// Aggregator is the slice of the inbox API the controller's host fetches
// through. The viewer is implied by the client's session.
type Aggregator interface {
	Aggregate(ctx context.Context, filter model.Filter) (*model.InboxSnapshot, error)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
)

// Selection identifies the open conversation. Type may be empty right after
// a deep link seeds the selection from a bare thread id; it resolves when
// the list arrives.
type Selection struct {
	ThreadID string
	Type     model.ConversationType
}

// FetchRequest is the controller's only effect: it asks the host to run an
// aggregate call and feed the result back through ApplyLoad with the same
// token. Stale tokens resolve racing tab switches to last-filter-wins.
type FetchRequest struct {
	Token  uint64
	Filter model.Filter
}

// LoadResult is a completed (or failed) fetch, tagged with its token.
type LoadResult struct {
	Token    uint64
	Snapshot *model.InboxSnapshot
	Err      error
}

// Controller owns the inbox list state: active filter, search term,
// selection, and the cached snapshot. Only a non-stale ApplyLoad and
// RemoveConversation write the snapshot. All methods run on the host's
// event loop; the controller itself never does I/O.
type Controller struct {
	nav Navigator

	phase     Phase
	filter    model.Filter
	search    string
	selection *Selection

	snapshot   model.InboxSnapshot
	loadFailed bool

	token uint64
}

func NewController(nav Navigator) *Controller {
	return &Controller{
		nav:    nav,
		phase:  PhaseIdle,
		filter: model.FilterAll,
	}
}

// Init seeds state from navigation and issues the first fetch. A thread
// parameter selects optimistically, before the list resolves, so deep links
// open the conversation pane immediately.
func (c *Controller) Init() FetchRequest {
	tab, thread := c.nav.Read()
	c.filter = model.ParseFilter(tab)
	if thread != "" {
		c.selection = &Selection{ThreadID: thread}
	}
	return c.fetch()
}

func (c *Controller) fetch() FetchRequest {
	c.token++
	c.phase = PhaseLoading
	return FetchRequest{Token: c.token, Filter: c.filter}
}

// SetFilter switches tabs. Selection is filter-scoped: switching tabs while
// a thread is open returns to the list view. Returns false when the filter
// is unchanged and no fetch is needed.
func (c *Controller) SetFilter(filter model.Filter) (FetchRequest, bool) {
	if filter == c.filter {
		return FetchRequest{}, false
	}
	c.filter = filter
	c.selection = nil
	c.pushNav()
	return c.fetch(), true
}

// Retry re-issues the aggregation for the current filter after a failure.
func (c *Controller) Retry() FetchRequest {
	return c.fetch()
}

// ApplyLoad applies a completed fetch. Results carrying a stale token are
// dropped without touching state. Returns whether the result was applied.
func (c *Controller) ApplyLoad(result LoadResult) bool {
	if result.Token != c.token {
		return false
	}

	c.phase = PhaseLoaded
	if result.Err != nil || result.Snapshot == nil {
		// Retryable, not terminal: empty list plus the error marker, and the
		// inbox stays interactable.
		c.snapshot = model.InboxSnapshot{}
		c.loadFailed = true
		return true
	}

	c.snapshot = *result.Snapshot
	c.loadFailed = false
	c.resolveSelection()
	return true
}

// resolveSelection fills in the conversation type for deep-linked selections
// once the list is available.
func (c *Controller) resolveSelection() {
	if c.selection == nil || c.selection.Type != "" {
		return
	}
	for _, conversation := range c.snapshot.Conversations {
		if conversation.ID == c.selection.ThreadID {
			c.selection.Type = conversation.Type
			return
		}
	}
}

func (c *Controller) SetSearch(term string) {
	c.search = term
}

// Visible applies the local search over the loaded list: case-insensitive
// substring match on the other user's display name or the property title.
// Search never refetches and never affects counts.
func (c *Controller) Visible() []model.Conversation {
	term := strings.ToLower(strings.TrimSpace(c.search))
	if term == "" {
		return c.snapshot.Conversations
	}

	matched := make([]model.Conversation, 0, len(c.snapshot.Conversations))
	for _, conversation := range c.snapshot.Conversations {
		name := strings.ToLower(conversation.OtherUser.DisplayName)
		title := ""
		if conversation.Property != nil {
			title = strings.ToLower(conversation.Property.Title)
		}
		if strings.Contains(name, term) || (title != "" && strings.Contains(title, term)) {
			matched = append(matched, conversation)
		}
	}
	return matched
}

func (c *Controller) Select(conversation model.Conversation) {
	c.selection = &Selection{
		ThreadID: conversation.ID,
		Type:     conversation.Type,
	}
	c.pushNav()
}

func (c *Controller) ClearSelection() {
	c.selection = nil
	c.pushNav()
}

// RemoveConversation is the optimistic writer: the deleted conversation
// leaves the cached list and the counts before any refetch, and a background
// refresh is issued to reconcile. Clears the selection when the removed
// thread was the open one.
func (c *Controller) RemoveConversation(threadID string, conversationType model.ConversationType) FetchRequest {
	kept := make([]model.Conversation, 0, len(c.snapshot.Conversations))
	for _, conversation := range c.snapshot.Conversations {
		if conversation.ID == threadID && conversation.Type == conversationType {
			switch conversationType {
			case model.ConversationTypeProperty:
				c.snapshot.Counts.Property--
			case model.ConversationTypeCommunity:
				c.snapshot.Counts.Community--
			}
			c.snapshot.Counts.All--
			continue
		}
		kept = append(kept, conversation)
	}
	c.snapshot.Conversations = kept

	// Raw IDs are only unique within a domain, so the selection is cleared on
	// the (id, type) pair. An unresolved deep-link selection has no type yet
	// and falls back to the id alone.
	if c.selection != nil && c.selection.ThreadID == threadID &&
		(c.selection.Type == "" || c.selection.Type == conversationType) {
		c.selection = nil
	}
	c.pushNav()

	return c.fetch()
}

func (c *Controller) pushNav() {
	thread := ""
	if c.selection != nil {
		thread = c.selection.ThreadID
	}
	c.nav.Push(string(c.filter), thread)
}

func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) Filter() model.Filter {
	return c.filter
}

func (c *Controller) Search() string {
	return c.search
}

func (c *Controller) Selection() *Selection {
	return c.selection
}

func (c *Controller) Counts() model.InboxCounts {
	return c.snapshot.Counts
}

// Degraded lists domains missing from the current snapshot because their
// store was unreachable.
func (c *Controller) Degraded() []model.ConversationType {
	return c.snapshot.Degraded
}

// LoadFailed reports the retryable error marker from the last applied fetch.
func (c *Controller) LoadFailed() bool {
	return c.loadFailed
}
