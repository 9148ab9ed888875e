package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Tier defines the exit-count range for a depth band. MaxDepth is inclusive;
// a negative MaxDepth marks the open-ended final tier.
type Tier struct {
	MaxDepth int `json:"maxDepth"`
	MinExits int `json:"minExits"`
	MaxExits int `json:"maxExits"`
}

// Policy holds the tunable knobs of the procedural exit generator. Counts
// come from depth tiers; the probability terms are evaluated independently
// per call.
type Policy struct {
	Tiers []Tier `json:"tiers"`

	// DeadEndPerDepth ramps the dead-end probability per depth level,
	// capped at DeadEndCap.
	DeadEndPerDepth float64 `json:"deadEndPerDepth"`
	DeadEndCap      float64 `json:"deadEndCap"`

	// VerticalChance gates the extra vertical-exit roll. Near the surface
	// (depth ≤ UpBiasMaxDepth) the roll favors up; at depth ≥
	// DownBiasMinDepth it favors down.
	VerticalChance   float64 `json:"verticalChance"`
	UpBiasMaxDepth   int     `json:"upBiasMaxDepth"`
	UpChance         float64 `json:"upChance"`
	DownBiasMinDepth int     `json:"downBiasMinDepth"`
	DownChance       float64 `json:"downChance"`

	// LoopChance is the rare roll that offers an extra edge toward an
	// already-registered shallower room, past LoopMinDepth.
	LoopChance   float64 `json:"loopChance"`
	LoopMinDepth int     `json:"loopMinDepth"`
}

// TierFor returns the tier covering the given depth.
func (p *Policy) TierFor(depth int) Tier {
	for _, t := range p.Tiers {
		if t.MaxDepth < 0 || depth <= t.MaxDepth {
			return t
		}
	}
	// Validate rejects policies without an open-ended tier, so this is
	// unreachable for loaded policies.
	return Tier{}
}

// DeadEndChance returns the capped dead-end probability at a depth.
func (p *Policy) DeadEndChance(depth int) float64 {
	chance := float64(depth) * p.DeadEndPerDepth
	if chance > p.DeadEndCap {
		return p.DeadEndCap
	}
	return chance
}

// ExitRange returns the exit-count band of the tier covering a depth.
func (p *Policy) ExitRange(depth int) (min, max int) {
	t := p.TierFor(depth)
	return t.MinExits, t.MaxExits
}

// VerticalBias returns the vertical-roll gate and the up/down chances at a
// depth. Outside the bias bands the corresponding chance is zero.
func (p *Policy) VerticalBias(depth int) (gate, upChance, downChance float64) {
	gate = p.VerticalChance
	if depth <= p.UpBiasMaxDepth {
		upChance = p.UpChance
	}
	if depth >= p.DownBiasMinDepth {
		downChance = p.DownChance
	}
	return gate, upChance, downChance
}

// LoopBias returns the loop-edge probability at a depth; zero until
// LoopMinDepth is reached.
func (p *Policy) LoopBias(depth int) float64 {
	if depth < p.LoopMinDepth {
		return 0
	}
	return p.LoopChance
}

// Validate checks structural soundness: at least one tier, sane exit
// ranges, an open-ended final tier, probabilities within [0,1].
func (p *Policy) Validate() error {
	if len(p.Tiers) == 0 {
		return errors.New("policy has no tiers")
	}
	if p.Tiers[len(p.Tiers)-1].MaxDepth >= 0 {
		return errors.New("final tier must be open-ended (maxDepth < 0)")
	}
	for i, t := range p.Tiers {
		if t.MinExits < 0 || t.MaxExits < t.MinExits {
			return fmt.Errorf("tier %d has invalid exit range [%d,%d]", i, t.MinExits, t.MaxExits)
		}
	}
	for name, v := range map[string]float64{
		"deadEndPerDepth": p.DeadEndPerDepth,
		"deadEndCap":      p.DeadEndCap,
		"verticalChance":  p.VerticalChance,
		"upChance":        p.UpChance,
		"downChance":      p.DownChance,
		"loopChance":      p.LoopChance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T

	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// LoadDefault loads the embedded default policy.
func LoadDefault() (*Policy, error) {
	p, err := Load[Policy]("tiers.json")
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("embedded policy is invalid: %w", err)
	}
	return &p, nil
}

// MustLoadDefault loads the embedded default policy, panicking on error.
// Use this for the policy the game cannot run without.
func MustLoadDefault() *Policy {
	p, err := LoadDefault()
	if err != nil {
		panic(err)
	}
	return p
}

// LoadFile loads a policy from an external JSON file, for configs that
// override the embedded default.
func LoadFile(path string) (*Policy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	var p Policy
	if err := json.Unmarshal(content, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy file %s is invalid: %w", path, err)
	}
	return &p, nil
}
