package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Params holds the parsed parameters for a single chain node.
type Params struct {
	ID   string
	Type string
	Num  map[string]float64
	Str  map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// RequireNum extracts a numeric parameter that has no default.
func (p Params) RequireNum(key string) (float64, error) {
	v, ok := p.Num[key]
	if !ok {
		return 0, fmt.Errorf("effectchain: %s node: %w", p.Type,
			core.InvalidParameter(key, "<missing>", "required"))
	}

	return v, nil
}

// GetInt extracts an integral numeric parameter, returning def if missing.
// Non-integral values are rejected rather than truncated.
func (p Params) GetInt(key string, def int) (int, error) {
	v, ok := p.Num[key]
	if !ok {
		return def, nil
	}

	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("effectchain: %s node: %w", p.Type,
			core.InvalidParameter(key, v, "must be an integer"))
	}

	return int(v), nil
}

// GetStr extracts a string parameter, returning def if missing.
func (p Params) GetStr(key, def string) string {
	if p.Str == nil {
		return def
	}

	v, ok := p.Str[key]
	if !ok {
		return def
	}

	return v
}
