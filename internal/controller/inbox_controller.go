package controller

import (
	"net/http"

	"CasaLinkAPI/internal/helper"
	"CasaLinkAPI/internal/middleware"
	"CasaLinkAPI/internal/model"
	"CasaLinkAPI/internal/service"
)

type InboxController struct {
	aggregatorService *service.AggregatorService
}

func NewInboxController(aggregatorService *service.AggregatorService) *InboxController {
	return &InboxController{
		aggregatorService: aggregatorService,
	}
}

// GetInbox godoc
// @Summary      Get Unified Inbox
// @Description  Returns the viewer's merged conversation list across property and community threads, plus per-tab totals. Counts always reflect unfiltered totals. A failing domain degrades the snapshot instead of failing the request.
// @Tags         inbox
// @Produce      json
// @Param        tab query string false "Filter tab" Enums(all, property, community)
// @Success      200  {object}  helper.ResponseSuccess{data=model.InboxSnapshot}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      503  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/inbox [get]
func (c *InboxController) GetInbox(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.UserDTO)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	req := model.GetInboxRequest{Tab: r.URL.Query().Get("tab")}

	snapshot, err := c.aggregatorService.Aggregate(r.Context(), userContext.ID, req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, snapshot)
}
