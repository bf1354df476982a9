package pos

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"

	"github.com/phohaitrieu/pos/internal/backend"
)

// Table Handlers

type groupView struct {
	GroupID int                 `json:"groupId"`
	Name    string              `json:"name"`
	Orders  []backend.OrderLine `json:"orders"`
	Total   int                 `json:"total"`
}

type tableOrderView struct {
	TableID int         `json:"tableId"`
	Groups  []groupView `json:"groups"`
}

func tableOrderToView(order backend.TableOrder) tableOrderView {
	view := tableOrderView{TableID: order.TableID, Groups: make([]groupView, 0, len(order.Groups))}
	for _, group := range order.Groups {
		view.Groups = append(view.Groups, groupView{
			GroupID: group.GroupID,
			Name:    GroupDisplayName(group),
			Orders:  group.Orders,
			Total:   GroupTotal(group),
		})
	}
	return view
}

func (h *Handler) parseTableParams(w http.ResponseWriter, r *http.Request, log aqm.Logger) (tableID, groupID int, ok bool) {
	tableID, err := strconv.Atoi(chi.URLParam(r, "tableID"))
	if err != nil {
		log.Debug("invalid table id", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid table id")
		return 0, 0, false
	}

	groupParam := chi.URLParam(r, "groupID")
	if groupParam == "" {
		return tableID, 0, true
	}
	groupID, err = strconv.Atoi(groupParam)
	if err != nil {
		log.Debug("invalid group id", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid group id")
		return 0, 0, false
	}
	return tableID, groupID, true
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	aqm.RespondSuccess(w, h.tables.Tables())
}

func (h *Handler) GetTableOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTableOrder")
	defer finish()

	log := h.log(r)

	tableID, _, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}

	aqm.RespondSuccess(w, tableOrderToView(h.tables.TableOrder(tableID)))
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateGroup")
	defer finish()

	log := h.log(r)

	tableID, _, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}

	var req struct {
		GroupName string `json:"groupName"`
	}
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	group, err := h.tables.CreateGroup(r.Context(), tableID, req.GroupName)
	if err != nil {
		if errors.Is(err, ErrGroupNameTaken) {
			aqm.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		log.Error("cannot create group", "table_id", tableID, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể tạo nhóm")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, group)
}

func (h *Handler) CloseGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseGroup")
	defer finish()

	log := h.log(r)

	tableID, groupID, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}

	if err := h.tables.CloseGroup(r.Context(), tableID, groupID); err != nil {
		log.Error("cannot close group", "table_id", tableID, "group_id", groupID, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể đóng nhóm")
		return
	}

	aqm.RespondSuccess(w, tableOrderToView(h.tables.TableOrder(tableID)))
}

// AddDishToGroup sends the current menu selection to a table group and
// resets the selection on success.
func (h *Handler) AddDishToGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddDishToGroup")
	defer finish()

	log := h.log(r)

	tableID, groupID, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}

	if err := h.tables.AddDish(r.Context(), tableID, groupID, h.menu.Selection()); err != nil {
		if errors.Is(err, ErrNoDishSelected) {
			aqm.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot add dish to group", "table_id", tableID, "group_id", groupID, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể thêm món")
		return
	}

	h.menu.Reset()
	aqm.RespondSuccess(w, tableOrderToView(h.tables.TableOrder(tableID)))
}

func (h *Handler) RemoveDishFromGroup(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveDishFromGroup")
	defer finish()

	log := h.log(r)

	tableID, groupID, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}
	dishID := chi.URLParam(r, "dishID")

	if err := h.tables.RemoveDish(r.Context(), tableID, groupID, dishID); err != nil {
		log.Error("cannot remove dish", "table_id", tableID, "group_id", groupID, "dish_id", dishID, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể xóa món")
		return
	}

	aqm.RespondSuccess(w, tableOrderToView(h.tables.TableOrder(tableID)))
}

// Quantity Edit Handlers

func (h *Handler) BeginQuantityEdit(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginQuantityEdit")
	defer finish()

	log := h.log(r)

	tableID, groupID, ok := h.parseTableParams(w, r, log)
	if !ok {
		return
	}
	dishID := chi.URLParam(r, "dishID")

	edit, err := h.tables.BeginEdit(tableID, groupID, dishID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEditInProgress):
			aqm.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrLineNotFound):
			aqm.RespondError(w, http.StatusNotFound, "Order line not found")
		default:
			log.Error("cannot begin quantity edit", "error", err)
			aqm.RespondError(w, http.StatusInternalServerError, "Cannot begin edit")
		}
		return
	}

	aqm.RespondSuccess(w, edit)
}

func (h *Handler) GetQuantityEdit(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.GetQuantityEdit")
	defer finish()

	edit := h.tables.Edit()
	if edit == nil {
		aqm.RespondError(w, http.StatusNotFound, "No edit in progress")
		return
	}
	aqm.RespondSuccess(w, edit)
}

func (h *Handler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.IncrementQuantity")
	defer finish()

	h.tables.Increment()
	edit := h.tables.Edit()
	if edit == nil {
		aqm.RespondError(w, http.StatusNotFound, "No edit in progress")
		return
	}
	aqm.RespondSuccess(w, edit)
}

func (h *Handler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.DecrementQuantity")
	defer finish()

	h.tables.Decrement()
	edit := h.tables.Edit()
	if edit == nil {
		aqm.RespondError(w, http.StatusNotFound, "No edit in progress")
		return
	}
	aqm.RespondSuccess(w, edit)
}

func (h *Handler) ConfirmQuantityEdit(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmQuantityEdit")
	defer finish()

	log := h.log(r)

	edit := h.tables.Edit()
	if edit == nil {
		aqm.RespondError(w, http.StatusNotFound, "No edit in progress")
		return
	}

	if err := h.tables.ConfirmEdit(r.Context()); err != nil {
		log.Error("cannot confirm quantity edit", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể cập nhật số lượng")
		return
	}

	aqm.RespondSuccess(w, tableOrderToView(h.tables.TableOrder(edit.TableID)))
}

func (h *Handler) CancelQuantityEdit(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.CancelQuantityEdit")
	defer finish()

	h.tables.CancelEdit()
	aqm.RespondSuccess(w, map[string]bool{"cancelled": true})
}
