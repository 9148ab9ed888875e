package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefault(t *testing.T) {
	p, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if len(p.Tiers) == 0 {
		t.Fatal("default policy has no tiers")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default policy fails validation: %v", err)
	}
}

func TestTierBoundaries(t *testing.T) {
	p := MustLoadDefault()

	tests := []struct {
		depth    int
		min, max int
	}{
		{0, 2, 3},
		{2, 2, 3},
		{3, 2, 3},
		{5, 2, 3},
		{6, 1, 3},
		{10, 1, 3},
		{11, 1, 2},
		{16, 0, 2},
		{26, 0, 1},
		{41, 0, 1},
		{1000, 0, 1},
	}
	for _, tt := range tests {
		min, max := p.ExitRange(tt.depth)
		if min != tt.min || max != tt.max {
			t.Errorf("ExitRange(%d) = [%d,%d], want [%d,%d]", tt.depth, min, max, tt.min, tt.max)
		}
	}
}

func TestDeadEndChanceRampsAndCaps(t *testing.T) {
	p := MustLoadDefault()

	if got := p.DeadEndChance(0); got != 0 {
		t.Errorf("DeadEndChance(0) = %v, want 0", got)
	}
	if got := p.DeadEndChance(5); got != 0.05 {
		t.Errorf("DeadEndChance(5) = %v, want 0.05", got)
	}
	if got := p.DeadEndChance(15); got != p.DeadEndCap {
		t.Errorf("DeadEndChance(15) = %v, want cap %v", got, p.DeadEndCap)
	}
	if got := p.DeadEndChance(500); got != p.DeadEndCap {
		t.Errorf("DeadEndChance(500) = %v, want cap %v", got, p.DeadEndCap)
	}
}

func TestVerticalBiasBands(t *testing.T) {
	p := MustLoadDefault()

	// Shallow: up bias active, down bias not yet.
	gate, up, down := p.VerticalBias(1)
	if gate != p.VerticalChance || up != p.UpChance || down != 0 {
		t.Errorf("VerticalBias(1) = %v, %v, %v", gate, up, down)
	}

	// Overlap band: both active.
	_, up, down = p.VerticalBias(3)
	if up != p.UpChance || down != p.DownChance {
		t.Errorf("VerticalBias(3) = up %v, down %v", up, down)
	}

	// Deep: only down bias.
	_, up, down = p.VerticalBias(20)
	if up != 0 || down != p.DownChance {
		t.Errorf("VerticalBias(20) = up %v, down %v", up, down)
	}
}

func TestLoopBiasGatedByDepth(t *testing.T) {
	p := MustLoadDefault()

	if got := p.LoopBias(p.LoopMinDepth - 1); got != 0 {
		t.Errorf("LoopBias below threshold = %v, want 0", got)
	}
	if got := p.LoopBias(p.LoopMinDepth); got != p.LoopChance {
		t.Errorf("LoopBias at threshold = %v, want %v", got, p.LoopChance)
	}
}

func TestValidateRejectsBadPolicies(t *testing.T) {
	base := func() *Policy {
		return &Policy{
			Tiers: []Tier{
				{MaxDepth: 5, MinExits: 1, MaxExits: 3},
				{MaxDepth: -1, MinExits: 0, MaxExits: 1},
			},
			DeadEndCap: 0.15,
		}
	}

	tests := []struct {
		name  string
		wreck func(*Policy)
	}{
		{"no tiers", func(p *Policy) { p.Tiers = nil }},
		{"closed final tier", func(p *Policy) { p.Tiers[1].MaxDepth = 40 }},
		{"inverted exit range", func(p *Policy) { p.Tiers[0].MinExits = 4 }},
		{"negative min exits", func(p *Policy) { p.Tiers[0].MinExits = -1 }},
		{"probability above one", func(p *Policy) { p.LoopChance = 1.5 }},
		{"negative probability", func(p *Policy) { p.UpChance = -0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			if err := p.Validate(); err != nil {
				t.Fatalf("base policy should be valid: %v", err)
			}
			tt.wreck(p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "policy.json")
	content := `{
		"tiers": [
			{ "maxDepth": 3, "minExits": 1, "maxExits": 2 },
			{ "maxDepth": -1, "minExits": 0, "maxExits": 1 }
		],
		"deadEndPerDepth": 0.02,
		"deadEndCap": 0.2,
		"verticalChance": 0.5
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if min, max := p.ExitRange(2); min != 1 || max != 2 {
		t.Errorf("ExitRange(2) = [%d,%d], want [1,2]", min, max)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"tiers": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected validation error for a policy without tiers")
	}
}
