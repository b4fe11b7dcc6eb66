package data

import (
	_ "embed"
	"fmt"
	"log/slog"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatlab/internal/model"
)

//go:embed weights.yaml
var weightsYAML []byte

// Table maps a stat to the HP-equivalent value of one point of it.
type Table map[model.StatID]float64

// WeightTable is the loaded static weight table.
var WeightTable Table

// LoadWeights parses the embedded weight table into WeightTable.
func LoadWeights() error {
	t, err := ParseWeights(weightsYAML)
	if err != nil {
		return fmt.Errorf("loading embedded weights: %w", err)
	}
	WeightTable = t
	slog.Debug("loaded stat weights", "count", len(t))
	return nil
}

// ParseWeights decodes a stat→weight YAML mapping. Keys must be stat ids.
func ParseWeights(raw []byte) (Table, error) {
	var m map[string]float64
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing weights: %w", err)
	}
	return FromMap(m)
}

// FromMap validates keys of m as stat ids.
func FromMap(m map[string]float64) (Table, error) {
	t := make(Table, len(m))
	for k, v := range m {
		id, err := model.ParseStatID(k)
		if err != nil {
			return nil, fmt.Errorf("weight %q: %w", k, err)
		}
		t[id] = v
	}
	return t, nil
}

// Weight returns the weight of id, 0 when absent.
func (t Table) Weight(id model.StatID) float64 {
	return t[id]
}

// With returns a copy of t with overrides applied on top.
func (t Table) With(overrides Table) Table {
	out := maps.Clone(t)
	if out == nil {
		out = make(Table, len(overrides))
	}
	maps.Copy(out, overrides)
	return out
}
