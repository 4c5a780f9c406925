package chart

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/coredds/mintwaterfall/internal/data"
)

// Fingerprint hashes the canonical JSON encoding of items.
func Fingerprint(items []data.ChartDataItem) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("fingerprint data: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}

// configKey lists every setting that changes prepared output.
type configKey struct {
	ShowTotal  bool              `json:"showTotal"`
	TotalLabel string            `json:"totalLabel"`
	TotalColor string            `json:"totalColor"`
	Rules      []data.FormatRule `json:"rules"`
	Breakdown  string            `json:"breakdown"`
	Theme      Theme             `json:"theme"`
}

func hashConfig(k configKey) (string, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("fingerprint config: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}
