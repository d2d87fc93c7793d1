package results

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"hexcalc/exchanger"
)

// Profiles pushed over the results channel are JSON inside a snappy block:
// the mesh payload shrinks well because neighboring samples differ little.

func EncodeProfile(p *exchanger.SpatialProfile) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("results: encode: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

func DecodeProfile(data []byte) (*exchanger.SpatialProfile, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("results: decode: %w", err)
	}
	var p exchanger.SpatialProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("results: decode: %w", err)
	}
	return &p, nil
}
