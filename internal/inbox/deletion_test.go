package inbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"CasaLinkAPI/internal/model"
)

type recordingDeleter struct {
	calls []DeleteRequest
	err   error
}

func (d *recordingDeleter) Delete(_ context.Context, t model.ConversationType, threadID string) error {
	d.calls = append(d.calls, DeleteRequest{Type: t, ThreadID: threadID})
	return d.err
}

func TestDeletionWorkflow_ConfirmDispatchesByType(t *testing.T) {
	deleter := &recordingDeleter{}
	w := NewDeletionWorkflow()

	assert.True(t, w.Request(model.ConversationTypeCommunity, "t2"))
	assert.Equal(t, DeletionConfirming, w.State())

	request, ok := w.Confirm()
	assert.True(t, ok)
	assert.Equal(t, DeletionDeleting, w.State())

	err := deleter.Delete(context.Background(), request.Type, request.ThreadID)
	w.ApplyResult(err)

	assert.Equal(t, DeletionDone, w.State())
	assert.Equal(t, []DeleteRequest{{Type: model.ConversationTypeCommunity, ThreadID: "t2"}}, deleter.calls)

	w.Reset()
	assert.Equal(t, DeletionIdle, w.State())
}

func TestDeletionWorkflow_CancelLeavesEverythingAlone(t *testing.T) {
	w := NewDeletionWorkflow()
	w.Request(model.ConversationTypeProperty, "t1")
	w.Cancel()

	assert.Equal(t, DeletionIdle, w.State())

	// Nothing to confirm after cancel.
	_, ok := w.Confirm()
	assert.False(t, ok)
}

func TestDeletionWorkflow_NothingDispatchedWithoutConfirm(t *testing.T) {
	w := NewDeletionWorkflow()

	_, ok := w.Confirm()
	assert.False(t, ok)
	assert.Equal(t, DeletionIdle, w.State())
}

func TestDeletionWorkflow_FailureHoldsError(t *testing.T) {
	w := NewDeletionWorkflow()
	w.Request(model.ConversationTypeProperty, "t1")
	w.Confirm()
	w.ApplyResult(assert.AnError)

	assert.Equal(t, DeletionFailed, w.State())
	assert.Error(t, w.Err())

	w.Reset()
	assert.Equal(t, DeletionIdle, w.State())
	assert.NoError(t, w.Err())
}

func TestDeletionWorkflow_RequestIgnoredWhileDeleting(t *testing.T) {
	w := NewDeletionWorkflow()
	w.Request(model.ConversationTypeProperty, "t1")
	w.Confirm()

	assert.False(t, w.Request(model.ConversationTypeCommunity, "t2"))
	assert.Equal(t, "t1", w.Target().ThreadID)
}
