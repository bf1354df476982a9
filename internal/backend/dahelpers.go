package backend

import (
	"encoding/json"
	"errors"

	"github.com/aquamarinepk/aqm"
)

// decodeSuccessResponse reshapes the envelope's untyped Data into dest by
// round-tripping it through JSON. Every DA in this package funnels its
// responses through here so shape mismatches surface as one error kind.
func decodeSuccessResponse(resp *aqm.SuccessResponse, dest interface{}) error {
	if resp == nil {
		return errors.New("nil success response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dest)
}
