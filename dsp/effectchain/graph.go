package effectchain

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/algo-enhance/dsp/core"
)

// Node is a JSON-serializable stage in a linear chain description.
type Node struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Bypassed bool   `json:"bypassed,omitempty"`
	Params   any    `json:"params,omitempty"`
}

// ParseNodes parses a JSON array of nodes.
func ParseNodes(raw []byte) ([]Node, error) {
	var nodes []Node

	err := json.Unmarshal(raw, &nodes)
	if err != nil {
		return nil, fmt.Errorf("effectchain: invalid chain json: %w: %w", core.ErrInvalidInput, err)
	}

	return nodes, nil
}

// DecodeNodes decodes nodes in order through the registry. Bypassed nodes
// are skipped; a node without a type is rejected.
func (r *Registry) DecodeNodes(nodes []Node) ([]StageSpec, error) {
	specs := make([]StageSpec, 0, len(nodes))

	for i, n := range nodes {
		if n.Bypassed {
			continue
		}

		if n.Type == "" {
			return nil, fmt.Errorf("effectchain: node %d: %w: missing type", i, core.ErrInvalidInput)
		}

		num, str := parseNodeParams(n.Params)

		spec, err := r.Decode(Params{
			ID:   n.ID,
			Type: n.Type,
			Num:  num,
			Str:  str,
		})
		if err != nil {
			return nil, fmt.Errorf("effectchain: node %d: %w", i, err)
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// EncodeStages converts specs back into nodes whose params decode to the
// same specs through DefaultRegistry.
func EncodeStages(specs []StageSpec) ([]Node, error) {
	nodes := make([]Node, 0, len(specs))

	for i, s := range specs {
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("effectchain: encode stage %d: %w", i, err)
		}

		var params map[string]any

		err = json.Unmarshal(raw, &params)
		if err != nil {
			return nil, fmt.Errorf("effectchain: encode stage %d: %w", i, err)
		}

		nodes = append(nodes, Node{Type: s.Kind(), Params: params})
	}

	return nodes, nil
}

// parseNodeParams extracts numeric and string parameters from a raw JSON params value.
func parseNodeParams(raw any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	params, ok := raw.(map[string]any)
	if !ok || params == nil {
		return num, str
	}

	for k, v := range params {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case float32:
			num[k] = float64(t)
		case int:
			num[k] = float64(t)
		case int64:
			num[k] = float64(t)
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}
