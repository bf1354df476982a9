package pos

import (
	"errors"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

// Hotpot Handlers

type hotpotRequest struct {
	Price string `json:"price"`
	Note  string `json:"note"`
}

func (h *Handler) ListHotpots(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.ListHotpots")
	defer finish()

	aqm.RespondSuccess(w, h.hotpot.Entries())
}

func (h *Handler) CreateHotpot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateHotpot")
	defer finish()

	log := h.log(r)

	var req hotpotRequest
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	hotpot, err := h.hotpot.Create(r.Context(), req.Price, req.Note)
	if err != nil {
		if errors.Is(err, ErrInvalidHotpotPrice) {
			aqm.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot create hotpot entry", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể tạo lẩu")
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, hotpot)
}

func (h *Handler) UpdateHotpot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateHotpot")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")

	var req hotpotRequest
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	if err := h.hotpot.Update(r.Context(), id, req.Price, req.Note); err != nil {
		if errors.Is(err, ErrInvalidHotpotPrice) {
			aqm.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot update hotpot entry", "id", id, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể cập nhật lẩu")
		return
	}

	aqm.RespondSuccess(w, h.hotpot.Entries())
}

func (h *Handler) DeleteHotpot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteHotpot")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")
	if err := h.hotpot.Delete(r.Context(), id); err != nil {
		log.Error("cannot delete hotpot entry", "id", id, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể xóa lẩu")
		return
	}

	aqm.RespondSuccess(w, h.hotpot.Entries())
}
