package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatlab/internal/game/solver"
	"github.com/udisondev/combatlab/internal/model"
)

// ErrUnknownArchetype is returned by Generate for a name not in ArchetypeTable.
var ErrUnknownArchetype = errors.New("unknown archetype")

// shareTolerance is how far the shares of an archetype may sum away from 1.
const shareTolerance = 1e-6

//go:embed archetypes.yaml
var archetypesYAML []byte

// Archetype is a named split of a point budget across stats.
type Archetype struct {
	Name        string
	Description string
	Shares      map[model.StatID]float64
}

// ArchetypeTable is the registry of archetypes by name.
var ArchetypeTable map[string]*Archetype

type archetypeFile struct {
	Archetypes []struct {
		Name        string             `yaml:"name"`
		Description string             `yaml:"description"`
		Shares      map[string]float64 `yaml:"shares"`
	} `yaml:"archetypes"`
}

// LoadArchetypes parses the embedded archetype list into ArchetypeTable.
func LoadArchetypes() error {
	t, err := ParseArchetypes(archetypesYAML)
	if err != nil {
		return fmt.Errorf("loading embedded archetypes: %w", err)
	}
	ArchetypeTable = t
	slog.Debug("loaded archetypes", "count", len(t))
	return nil
}

// ParseArchetypes decodes and validates an archetype list: unique names,
// known stats, non-negative shares summing to 1.
func ParseArchetypes(raw []byte) (map[string]*Archetype, error) {
	var f archetypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing archetypes: %w", err)
	}

	out := make(map[string]*Archetype, len(f.Archetypes))
	for _, a := range f.Archetypes {
		if a.Name == "" {
			return nil, errors.New("archetype without name")
		}
		if _, dup := out[a.Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", a.Name)
		}

		arch := &Archetype{Name: a.Name, Description: a.Description, Shares: make(map[model.StatID]float64, len(a.Shares))}
		var sum float64
		for k, v := range a.Shares {
			id, err := model.ParseStatID(k)
			if err != nil {
				return nil, fmt.Errorf("archetype %q: %w", a.Name, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("archetype %q: negative share for %s", a.Name, id)
			}
			arch.Shares[id] = v
			sum += v
		}
		if math.Abs(sum-1) > shareTolerance {
			return nil, fmt.Errorf("archetype %q: shares sum to %.4f, want 1", a.Name, sum)
		}
		out[a.Name] = arch
	}
	return out, nil
}

// GetArchetype returns the archetype by name, nil when missing.
func GetArchetype(name string) *Archetype {
	if ArchetypeTable == nil {
		return nil
	}
	return ArchetypeTable[name]
}

// ArchetypeNames returns the registered names, sorted.
func ArchetypeNames() []string {
	names := make([]string, 0, len(ArchetypeTable))
	for n := range ArchetypeTable {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Generate spends budget HP-equivalent points on the default profile
// following the archetype's shares, converting each share through table.
// The result has its derived fields recalculated by sv, so they follow its
// outcome precedence.
func Generate(name string, budget float64, table Table, sv *solver.Solver) (model.StatBlock, error) {
	arch := GetArchetype(name)
	if arch == nil {
		return model.StatBlock{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}

	stats := model.DefaultStatBlock()
	for _, id := range model.BaseStats() {
		share, ok := arch.Shares[id]
		if !ok || share == 0 {
			continue
		}
		w := table.Weight(id)
		if w <= 0 {
			return model.StatBlock{}, fmt.Errorf("archetype %q: no positive weight for %s", name, id)
		}
		stats = stats.Add(id, budget*share/w)
	}
	return sv.Recalculate(stats), nil
}
