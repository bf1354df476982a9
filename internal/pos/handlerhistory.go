package pos

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/phohaitrieu/pos/pkg/event"
)

// History Handlers

type historyView struct {
	Takeaway []TakeawayOrder `json:"takeaway"`
	DineIn   []DineInBucket  `json:"dineIn"`
}

func (h *Handler) historyView() historyView {
	return historyView{Takeaway: h.history.Takeaway(), DineIn: h.history.DineIn()}
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.GetHistory")
	defer finish()

	aqm.RespondSuccess(w, h.historyView())
}

// FetchHistory reloads the screen from the backend and broadcasts a fetch
// signal so other devices reload too.
func (h *Handler) FetchHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FetchHistory")
	defer finish()

	log := h.log(r)

	if err := h.history.Fetch(r.Context()); err != nil {
		log.Error("cannot fetch order history", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể tải lịch sử đơn hàng")
		return
	}

	h.broadcastFetch(r)
	aqm.RespondSuccess(w, h.historyView())
}

func (h *Handler) broadcastFetch(r *http.Request) {
	if h.publisher == nil {
		return
	}

	msg, err := json.Marshal(event.OrderHistoryFetchEvent{
		EventType:  event.EventOrderHistoryFetch,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := h.publisher.Publish(r.Context(), event.OrderHistoryTopic, msg); err != nil {
		h.log(r).Error("cannot broadcast history fetch", "error", err)
	}
}

func (h *Handler) CompleteTakeaway(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteTakeaway")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")
	if err := h.history.CompleteTakeaway(r.Context(), id); err != nil {
		log.Error("cannot complete takeaway order", "id", id, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể hoàn tất đơn hàng")
		return
	}

	aqm.RespondSuccess(w, h.historyView())
}

// CompleteDineIn marks a single dine-in order done without closing its
// group.
func (h *Handler) CompleteDineIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteDineIn")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")
	if err := h.history.CompleteDineIn(r.Context(), id); err != nil {
		log.Error("cannot complete dine-in order", "id", id, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể hoàn tất đơn hàng")
		return
	}

	aqm.RespondSuccess(w, h.historyView())
}

// SettleGroup pays out a dine-in bucket; payment is the group close.
func (h *Handler) SettleGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SettleGroup")
	defer finish()

	log := h.log(r)

	tableID, err := strconv.Atoi(chi.URLParam(r, "tableID"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table id")
		return
	}
	groupID, err := strconv.Atoi(chi.URLParam(r, "groupID"))
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid group id")
		return
	}

	if err := h.history.SettleGroup(r.Context(), tableID, groupID); err != nil {
		log.Error("cannot settle group", "table_id", tableID, "group_id", groupID, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể thanh toán nhóm")
		return
	}

	aqm.RespondSuccess(w, h.historyView())
}

// Kitchen Handlers

func (h *Handler) GetKitchenBoard(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.GetKitchenBoard")
	defer finish()

	aqm.RespondSuccess(w, h.kitchen.Tickets())
}

func (h *Handler) CompleteTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompleteTicket")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")
	if err := h.kitchen.Complete(r.Context(), id); err != nil {
		log.Error("cannot complete kitchen ticket", "id", id, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể hoàn tất món")
		return
	}

	aqm.RespondSuccess(w, h.kitchen.Tickets())
}
