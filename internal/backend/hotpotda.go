package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aquamarinepk/aqm"
)

// Hotpot is one entry of the ad hoc hotpot ledger. Price stays a string on
// the wire; ValidHotpotPrice is the gate before it is ever sent.
type Hotpot struct {
	ID    string `json:"id"`
	Price string `json:"price"`
	Note  string `json:"note"`
}

// HotpotRequest is the create/update payload.
type HotpotRequest struct {
	Price string `json:"price"`
	Note  string `json:"note"`
}

// ValidHotpotPrice reports whether a price input is a non-empty numeric
// string, the only shape the ledger accepts.
func ValidHotpotPrice(price string) bool {
	price = strings.TrimSpace(price)
	if price == "" {
		return false
	}
	_, err := strconv.ParseFloat(price, 64)
	return err == nil
}

// HotpotDataAccess centralizes decoding of hotpot ledger responses.
type HotpotDataAccess struct {
	client *aqm.ServiceClient
}

func NewHotpotDataAccess(client *aqm.ServiceClient) *HotpotDataAccess {
	return &HotpotDataAccess{client: client}
}

func (da *HotpotDataAccess) ListHotpots(ctx context.Context) ([]Hotpot, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("hotpot client not configured")
	}

	resp, err := da.client.List(ctx, "hotpot")
	if err != nil {
		return nil, err
	}

	var hotpots []Hotpot
	if err := decodeSuccessResponse(resp, &hotpots); err != nil {
		return nil, err
	}

	return hotpots, nil
}

func (da *HotpotDataAccess) CreateHotpot(ctx context.Context, payload HotpotRequest) (*Hotpot, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("hotpot client not configured")
	}
	if !ValidHotpotPrice(payload.Price) {
		return nil, fmt.Errorf("invalid hotpot price %q", payload.Price)
	}

	resp, err := da.client.Create(ctx, "hotpot", payload)
	if err != nil {
		return nil, err
	}

	var hotpot Hotpot
	if err := decodeSuccessResponse(resp, &hotpot); err != nil {
		return nil, err
	}

	return &hotpot, nil
}

func (da *HotpotDataAccess) UpdateHotpot(ctx context.Context, id string, payload HotpotRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("hotpot client not configured")
	}
	if id == "" {
		return fmt.Errorf("missing hotpot id")
	}
	if !ValidHotpotPrice(payload.Price) {
		return fmt.Errorf("invalid hotpot price %q", payload.Price)
	}

	path := fmt.Sprintf("/hotpot/%s", id)
	_, err := da.client.Request(ctx, "PUT", path, payload)
	return err
}

func (da *HotpotDataAccess) DeleteHotpot(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("hotpot client not configured")
	}
	if id == "" {
		return fmt.Errorf("missing hotpot id")
	}

	path := fmt.Sprintf("/hotpot/%s", id)
	_, err := da.client.Request(ctx, "DELETE", path, nil)
	return err
}
