package controller

import (
	"encoding/json"
	"net/http"

	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/middleware"
	"CasaLinkAPI/internal/model"
	"CasaLinkAPI/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ThreadController struct {
	threadService *service.ThreadService
}

func NewThreadController(threadService *service.ThreadService) *ThreadController {
	return &ThreadController{
		threadService: threadService,
	}
}

func viewerFromContext(r *http.Request) (uuid.UUID, bool) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.UserDTO)
	if !ok || userContext == nil {
		return uuid.Nil, false
	}
	return userContext.ID, true
}

// threadParams pulls the (type, id) pair out of the route. The raw thread id
// is opaque and only unique within its domain, so both parts are required.
func threadParams(r *http.Request) (model.ConversationType, string, bool) {
	threadID := chi.URLParam(r, "threadID")
	if threadID == "" {
		return "", "", false
	}

	switch t := model.ConversationType(chi.URLParam(r, "type")); t {
	case model.ConversationTypeProperty, model.ConversationTypeCommunity:
		return t, threadID, true
	default:
		return "", "", false
	}
}

// OpenThread godoc
// @Summary      Open Thread
// @Description  Returns the thread's full message history ordered by sent time and marks messages from the other participant as read.
// @Tags         inbox
// @Produce      json
// @Param        type path string true "Conversation type" Enums(property, community)
// @Param        threadID path string true "Thread ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ThreadHistory}
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      503  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/inbox/threads/{type}/{threadID} [get]
func (c *ThreadController) OpenThread(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := viewerFromContext(r)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	t, threadID, ok := threadParams(r)
	if !ok {
		helper.WriteError(w, helper.NewNotFoundError(""))
		return
	}

	history, err := c.threadService.Open(r.Context(), viewerID, t, threadID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, history)
}

// SendMessage godoc
// @Summary      Send Message
// @Description  Appends a message to the thread. Empty or whitespace-only content is rejected.
// @Tags         inbox
// @Accept       json
// @Produce      json
// @Param        type path string true "Conversation type" Enums(property, community)
// @Param        threadID path string true "Thread ID"
// @Param        request body model.SendMessageRequest true "Send Message Request"
// @Success      200  {object}  helper.ResponseSuccess{data=model.MessageResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      429  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/inbox/threads/{type}/{threadID}/messages [post]
func (c *ThreadController) SendMessage(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := viewerFromContext(r)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	t, threadID, ok := threadParams(r)
	if !ok {
		helper.WriteError(w, helper.NewNotFoundError(""))
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteError(w, helper.NewBadRequestError("Invalid request body"))
		return
	}

	message, err := c.threadService.Send(r.Context(), viewerID, t, threadID, req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, message)
}

// DeleteThread godoc
// @Summary      Delete Conversation
// @Description  Removes the conversation for the requesting participant. Routed to the matching domain store.
// @Tags         inbox
// @Produce      json
// @Param        type path string true "Conversation type" Enums(property, community)
// @Param        threadID path string true "Thread ID"
// @Success      200  {object}  helper.ResponseSuccess
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/inbox/threads/{type}/{threadID} [delete]
func (c *ThreadController) DeleteThread(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := viewerFromContext(r)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	t, threadID, ok := threadParams(r)
	if !ok {
		helper.WriteError(w, helper.NewNotFoundError(""))
		return
	}

	if err := c.threadService.Delete(r.Context(), viewerID, t, threadID); err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, nil)
}
