package pos

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

// Handler exposes the screen state as JSON view-models. Each screen core
// owns its own state; the handler only translates HTTP into core calls.
type Handler struct {
	logger    aqm.Logger
	config    *aqm.Config
	tlm       *telemetry.HTTP
	menu      *MenuSelection
	cart      *Cart
	tables    *TableScreen
	history   *HistoryState
	kitchen   *KitchenBoard
	hotpot    *HotpotLog
	publisher events.Publisher
}

type HandlerDeps struct {
	Menu      *MenuSelection
	Cart      *Cart
	Tables    *TableScreen
	History   *HistoryState
	Kitchen   *KitchenBoard
	Hotpot    *HotpotLog
	Publisher events.Publisher
}

func NewHandler(hd HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}

	return &Handler{
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
		menu:      hd.Menu,
		cart:      hd.Cart,
		tables:    hd.Tables,
		history:   hd.History,
		kitchen:   hd.Kitchen,
		hotpot:    hd.Hotpot,
		publisher: hd.Publisher,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.GetMenu)
		r.Get("/dishes/{id}", h.GetDish)
		r.Post("/reload", h.ReloadMenu)
		r.Route("/selection", func(r chi.Router) {
			r.Get("/", h.GetSelection)
			r.Post("/dish", h.SelectDish)
			r.Post("/topping", h.ToggleTopping)
			r.Put("/note", h.SetNote)
			r.Delete("/", h.ResetSelection)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/", h.AddToCart)
		r.Post("/checkout", h.Checkout)
		r.Delete("/", h.ClearCart)
		r.Patch("/{id}/increase", h.IncreaseCartLine)
		r.Patch("/{id}/decrease", h.DecreaseCartLine)
		r.Delete("/{id}", h.RemoveCartLine)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)

		r.Route("/edit", func(r chi.Router) {
			r.Get("/", h.GetQuantityEdit)
			r.Patch("/increment", h.IncrementQuantity)
			r.Patch("/decrement", h.DecrementQuantity)
			r.Post("/confirm", h.ConfirmQuantityEdit)
			r.Delete("/", h.CancelQuantityEdit)
		})

		r.Get("/{tableID}", h.GetTableOrder)
		r.Post("/{tableID}/groups", h.CreateGroup)
		r.Delete("/{tableID}/groups/{groupID}", h.CloseGroup)
		r.Post("/{tableID}/groups/{groupID}/dishes", h.AddDishToGroup)
		r.Delete("/{tableID}/groups/{groupID}/dishes/{dishID}", h.RemoveDishFromGroup)
		r.Post("/{tableID}/groups/{groupID}/dishes/{dishID}/edit", h.BeginQuantityEdit)
	})

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.GetHistory)
		r.Post("/fetch", h.FetchHistory)
		r.Delete("/takeaway/{id}", h.CompleteTakeaway)
		r.Delete("/dine-in/{id}", h.CompleteDineIn)
		r.Post("/tables/{tableID}/groups/{groupID}/settle", h.SettleGroup)
	})

	r.Route("/kitchen", func(r chi.Router) {
		r.Get("/", h.GetKitchenBoard)
		r.Delete("/{id}", h.CompleteTicket)
	})

	r.Route("/hotpot", func(r chi.Router) {
		r.Get("/", h.ListHotpots)
		r.Post("/", h.CreateHotpot)
		r.Put("/{id}", h.UpdateHotpot)
		r.Delete("/{id}", h.DeleteHotpot)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// decodeBody reads and decodes a JSON request body into dest, responding
// with a 400 on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}, log aqm.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}

// Menu Handlers

type menuView struct {
	Dishes    interface{} `json:"dishes"`
	Toppings  interface{} `json:"toppings"`
	LoadError string      `json:"loadError,omitempty"`
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	view := menuView{
		Dishes:    h.menu.Dishes(),
		Toppings:  h.menu.Toppings(),
		LoadError: h.menu.LoadError(),
	}
	aqm.RespondSuccess(w, view)
}

func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDish")
	defer finish()

	log := h.log(r)

	id := chi.URLParam(r, "id")
	dish, err := h.menu.Dish(r.Context(), id)
	if err != nil {
		log.Debug("cannot resolve dish", "id", id, "error", err)
		aqm.RespondError(w, http.StatusNotFound, "Dish not found")
		return
	}
	aqm.RespondSuccess(w, dish)
}

func (h *Handler) ReloadMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReloadMenu")
	defer finish()

	log := h.log(r)
	if err := h.menu.Load(r.Context()); err != nil {
		log.Error("cannot reload menu", "error", err)
		aqm.RespondError(w, http.StatusBadGateway, h.menu.LoadError())
		return
	}
	aqm.RespondSuccess(w, menuView{Dishes: h.menu.Dishes(), Toppings: h.menu.Toppings()})
}

type selectionView struct {
	DishID   string   `json:"dishId,omitempty"`
	Name     string   `json:"name,omitempty"`
	Price    int      `json:"price,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
	Note     string   `json:"note,omitempty"`
}

func (h *Handler) selectionView() selectionView {
	sel := h.menu.Selection()
	view := selectionView{Toppings: sel.Toppings, Note: sel.Note}
	if sel.Dish != nil {
		view.DishID = sel.Dish.ID
		view.Name = sel.Dish.Name
		view.Price = sel.Dish.Price
	}
	return view
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.GetSelection")
	defer finish()

	aqm.RespondSuccess(w, h.selectionView())
}

func (h *Handler) SelectDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SelectDish")
	defer finish()

	log := h.log(r)

	var req struct {
		DishID string `json:"dishId"`
	}
	if !h.decodeBody(w, r, &req, log) {
		return
	}
	if req.DishID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "dishId is required")
		return
	}

	h.menu.SelectDish(req.DishID)
	aqm.RespondSuccess(w, h.selectionView())
}

func (h *Handler) ToggleTopping(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleTopping")
	defer finish()

	log := h.log(r)

	var req struct {
		Name string `json:"name"`
	}
	if !h.decodeBody(w, r, &req, log) {
		return
	}
	if req.Name == "" {
		aqm.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	h.menu.ToggleTopping(req.Name)
	aqm.RespondSuccess(w, h.selectionView())
}

func (h *Handler) SetNote(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetNote")
	defer finish()

	log := h.log(r)

	var req struct {
		Note string `json:"note"`
	}
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	h.menu.SetNote(req.Note)
	aqm.RespondSuccess(w, h.selectionView())
}

func (h *Handler) ResetSelection(w http.ResponseWriter, r *http.Request) {
	w, _, finish := h.tlm.Start(w, r, "Handler.ResetSelection")
	defer finish()

	h.menu.Reset()
	aqm.RespondSuccess(w, h.selectionView())
}
