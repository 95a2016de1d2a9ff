package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-enhance/dsp/core"
	"github.com/cwbudde/algo-enhance/dsp/effectchain"
)

// File is the on-disk form of a user preset.
type File struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Stages      []effectchain.Node `json:"stages"`
}

// Preset is a named, decoded stage list.
type Preset struct {
	Name        string
	Description string
	Stages      []effectchain.StageSpec
}

// ParseJSON decodes a preset file through the default stage registry.
// Bypassed nodes are dropped.
func ParseJSON(data []byte) (*Preset, error) {
	var f File

	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("preset: invalid preset json: %w: %w", core.ErrInvalidInput, err)
	}

	if f.Name == "" {
		return nil, fmt.Errorf("preset: %w: missing name", core.ErrInvalidInput)
	}

	specs, err := effectchain.DefaultRegistry().DecodeNodes(f.Stages)
	if err != nil {
		return nil, fmt.Errorf("preset: %s: %w", f.Name, err)
	}

	return &Preset{Name: f.Name, Description: f.Description, Stages: specs}, nil
}

// LoadJSON reads and decodes a preset file.
func LoadJSON(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	return ParseJSON(data)
}

// MarshalJSON encodes p in the preset file format.
func (p *Preset) MarshalJSON() ([]byte, error) {
	nodes, err := effectchain.EncodeStages(p.Stages)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	return json.Marshal(File{Name: p.Name, Description: p.Description, Stages: nodes})
}

// Builtin returns a built-in preset by name.
func Builtin(name string) (*Preset, error) {
	specs, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return &Preset{Name: name, Stages: specs}, nil
}
