package pos

import (
	"errors"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

// Cart Handlers

type cartView struct {
	Items []CartItem `json:"items"`
	Total int        `json:"total"`
}

func (h *Handler) cartView() cartView {
	return cartView{Items: h.cart.Items(), Total: h.cart.Total()}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	aqm.RespondSuccess(w, h.cartView())
}

// AddToCart turns the current menu selection into a cart line and resets
// the selection, mirroring the add-then-clear flow of the ordering screen.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddToCart")
	defer finish()

	log := h.log(r)

	if err := h.cart.Add(h.menu.Selection()); err != nil {
		log.Debug("cannot add selection to cart", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.menu.Reset()
	aqm.RespondSuccess(w, h.cartView())
}

func (h *Handler) IncreaseCartLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.IncreaseCartLine")
	defer finish()

	h.cart.Increase(chi.URLParam(r, "id"))
	aqm.RespondSuccess(w, h.cartView())
}

func (h *Handler) DecreaseCartLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DecreaseCartLine")
	defer finish()

	h.cart.Decrease(chi.URLParam(r, "id"))
	aqm.RespondSuccess(w, h.cartView())
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveCartLine")
	defer finish()

	h.cart.Remove(chi.URLParam(r, "id"))
	aqm.RespondSuccess(w, h.cartView())
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()

	log := h.log(r)

	if err := h.cart.Submit(r.Context()); err != nil {
		if errors.Is(err, ErrEmptyCart) {
			aqm.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("cannot check out cart", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể gửi đơn hàng")
		return
	}

	aqm.RespondSuccess(w, h.cartView())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	log := h.log(r)

	if err := h.cart.Clear(r.Context()); err != nil {
		log.Error("cannot clear cart", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Không thể xóa giỏ hàng")
		return
	}
	aqm.RespondSuccess(w, h.cartView())
}
