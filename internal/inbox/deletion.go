package inbox

import (
	"context"

	"CasaLinkAPI/internal/model"
)

// Deleter routes a delete to the right domain store by conversation type.
type Deleter interface {
	Delete(ctx context.Context, conversationType model.ConversationType, threadID string) error
}

type DeletionState int

const (
	DeletionIdle DeletionState = iota
	DeletionConfirming
	DeletionDeleting
	DeletionDone
	DeletionFailed
)

// DeleteRequest is the workflow's effect: the host dispatches it to the
// Deleter and reports back through ApplyResult.
type DeleteRequest struct {
	Type     model.ConversationType
	ThreadID string
}

// DeletionWorkflow walks a single delete through confirmation. Deletion is
// irreversible for the requester, so nothing is dispatched until Confirm;
// Cancel at the confirmation step returns to idle untouched.
type DeletionWorkflow struct {
	state   DeletionState
	target  DeleteRequest
	lastErr error
}

func NewDeletionWorkflow() *DeletionWorkflow {
	return &DeletionWorkflow{state: DeletionIdle}
}

// Request arms the confirmation prompt for one conversation. Ignored while a
// previous delete is still in flight.
func (w *DeletionWorkflow) Request(conversationType model.ConversationType, threadID string) bool {
	if w.state == DeletionDeleting {
		return false
	}
	w.state = DeletionConfirming
	w.target = DeleteRequest{Type: conversationType, ThreadID: threadID}
	w.lastErr = nil
	return true
}

// Cancel dismisses the confirmation prompt.
func (w *DeletionWorkflow) Cancel() {
	if w.state != DeletionConfirming {
		return
	}
	w.state = DeletionIdle
	w.target = DeleteRequest{}
}

// Confirm moves to deleting and hands the host the request to dispatch.
// Returns false when there is no armed confirmation.
func (w *DeletionWorkflow) Confirm() (DeleteRequest, bool) {
	if w.state != DeletionConfirming {
		return DeleteRequest{}, false
	}
	w.state = DeletionDeleting
	return w.target, true
}

// ApplyResult records the outcome of the dispatched delete. On success the
// host removes the conversation from the list optimistically; on failure the
// list is left alone and the workflow holds the error for display.
func (w *DeletionWorkflow) ApplyResult(err error) {
	if w.state != DeletionDeleting {
		return
	}
	if err != nil {
		w.state = DeletionFailed
		w.lastErr = err
		return
	}
	w.state = DeletionDone
	w.lastErr = nil
}

// Reset returns to idle after the host has consumed a Done or Failed state.
func (w *DeletionWorkflow) Reset() {
	w.state = DeletionIdle
	w.target = DeleteRequest{}
	w.lastErr = nil
}

func (w *DeletionWorkflow) State() DeletionState {
	return w.state
}

func (w *DeletionWorkflow) Target() DeleteRequest {
	return w.target
}

func (w *DeletionWorkflow) Err() error {
	return w.lastErr
}
