package pos

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/phohaitrieu/pos/internal/backend"
)

// ErrInvalidHotpotPrice is returned for a blank or non-numeric price input.
var ErrInvalidHotpotPrice = errors.New("Giá không hợp lệ")

// HotpotLog is the ad hoc hotpot ledger screen: a flat list with create,
// edit and delete. Every mutation goes through the backend and is followed
// by a reload, so the list always reflects what the backend holds.
type HotpotLog struct {
	mu     sync.Mutex
	api    HotpotAPI
	logger aqm.Logger

	entries []backend.Hotpot
}

func NewHotpotLog(api HotpotAPI, logger aqm.Logger) *HotpotLog {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &HotpotLog{api: api, logger: logger}
}

func (h *HotpotLog) Load(ctx context.Context) error {
	entries, err := h.api.ListHotpots(ctx)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

func (h *HotpotLog) Entries() []backend.Hotpot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]backend.Hotpot, len(h.entries))
	copy(out, h.entries)
	return out
}

// Create validates the price locally before the request goes out; the
// waiter sees the localized error, not a backend round trip.
func (h *HotpotLog) Create(ctx context.Context, price, note string) (*backend.Hotpot, error) {
	price = strings.TrimSpace(price)
	if !backend.ValidHotpotPrice(price) {
		return nil, ErrInvalidHotpotPrice
	}

	hotpot, err := h.api.CreateHotpot(ctx, backend.HotpotRequest{Price: price, Note: note})
	if err != nil {
		return nil, err
	}

	if err := h.Load(ctx); err != nil {
		h.logger.Error("cannot reload hotpot ledger after create", "error", err)
	}
	return hotpot, nil
}

func (h *HotpotLog) Update(ctx context.Context, id, price, note string) error {
	price = strings.TrimSpace(price)
	if !backend.ValidHotpotPrice(price) {
		return ErrInvalidHotpotPrice
	}

	if err := h.api.UpdateHotpot(ctx, id, backend.HotpotRequest{Price: price, Note: note}); err != nil {
		return err
	}
	return h.Load(ctx)
}

func (h *HotpotLog) Delete(ctx context.Context, id string) error {
	if err := h.api.DeleteHotpot(ctx, id); err != nil {
		return err
	}
	return h.Load(ctx)
}
