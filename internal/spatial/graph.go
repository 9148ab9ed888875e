package spatial

import "fmt"

// Graph stores the per-room direction → neighbor mapping. Every edge is
// bidirectional: connecting A north to B also connects B south to A, in a
// single atomic operation. The graph shares a registry with its owning
// Navigator so that validation can cross-check edges against geometry.
type Graph struct {
	conns    map[string]map[Direction]string
	registry *Registry
}

// NewGraph creates an empty graph validated against the given registry.
func NewGraph(registry *Registry) *Graph {
	return &Graph{
		conns:    make(map[string]map[Direction]string),
		registry: registry,
	}
}

// Connect installs the edge from → to in the given direction and the reverse
// edge to → from in the opposite direction. Reconnecting an already-connected
// pair in the same direction is a no-op. A direction slot that is already set
// to a different target is immutable and the call fails without any write.
func (g *Graph) Connect(from string, dir Direction, to string) error {
	if from == to {
		return fmt.Errorf("room %q cannot connect to itself", from)
	}

	// Check both slots before touching either, so a conflict leaves the
	// graph untouched.
	if existing, ok := g.connection(from, dir); ok && existing != to {
		return &ConnectionConflictError{From: from, Direction: dir, Existing: existing, Proposed: to}
	}
	opp := dir.Opposite()
	if existing, ok := g.connection(to, opp); ok && existing != from {
		return &ConnectionConflictError{From: to, Direction: opp, Existing: existing, Proposed: from}
	}

	g.set(from, dir, to)
	g.set(to, opp, from)
	return nil
}

// ConnectionsOf returns a copy of a room's connections. The copy is safe for
// callers to iterate and mutate.
func (g *Graph) ConnectionsOf(id string) map[Direction]string {
	out := make(map[Direction]string, len(g.conns[id]))
	for dir, target := range g.conns[id] {
		out[dir] = target
	}
	return out
}

func (g *Graph) connection(id string, dir Direction) (string, bool) {
	target, ok := g.conns[id][dir]
	return target, ok
}

func (g *Graph) set(id string, dir Direction, target string) {
	m, ok := g.conns[id]
	if !ok {
		m = make(map[Direction]string)
		g.conns[id] = m
	}
	m[dir] = target
}

// remove deletes one side of an edge. Only validation tests and repair
// internals use it; normal mutation never removes edges.
func (g *Graph) remove(id string, dir Direction) {
	delete(g.conns[id], dir)
}

// FindingKind classifies a validation finding.
type FindingKind int

const (
	// FindingMissingReverse is an edge whose reverse edge is absent or
	// points elsewhere. Auto-repairable.
	FindingMissingReverse FindingKind = iota
	// FindingDangling is an edge whose target id is not registered.
	FindingDangling
	// FindingGeometry is an edge whose position delta does not match the
	// direction's vector. Indicates a generator bug; never auto-repaired.
	FindingGeometry
	// FindingSelfLoop is a room connected to itself.
	FindingSelfLoop
)

// String returns a short kind label.
func (k FindingKind) String() string {
	switch k {
	case FindingMissingReverse:
		return "missing-reverse"
	case FindingDangling:
		return "dangling"
	case FindingGeometry:
		return "geometry-mismatch"
	case FindingSelfLoop:
		return "self-loop"
	default:
		return "unknown"
	}
}

// Finding is a single non-fatal validation result. Findings are collected
// and returned, never thrown.
type Finding struct {
	Kind      FindingKind
	From      string
	Direction Direction
	To        string
	Detail    string
}

// String formats the finding for logs.
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s -%s-> %s (%s)", f.Kind, f.From, f.Direction, f.To, f.Detail)
}

// ValidationReport collects the findings of a full graph scan.
type ValidationReport struct {
	Findings []Finding
}

// Empty reports whether the scan found nothing.
func (r ValidationReport) Empty() bool {
	return len(r.Findings) == 0
}

// ByKind returns the findings of one kind.
func (r ValidationReport) ByKind(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Validate scans every room's connections and reports bidirectionality,
// dangling-reference, geometry and self-loop violations. The scan order is
// deterministic (sorted room ids).
func (g *Graph) Validate() ValidationReport {
	var report ValidationReport

	for _, id := range g.registry.IDs() {
		for _, dir := range Directions() {
			target, ok := g.connection(id, dir)
			if !ok {
				continue
			}

			if target == id {
				report.Findings = append(report.Findings, Finding{
					Kind: FindingSelfLoop, From: id, Direction: dir, To: target,
					Detail: "room connects to itself",
				})
				continue
			}

			if !g.registry.Contains(target) {
				report.Findings = append(report.Findings, Finding{
					Kind: FindingDangling, From: id, Direction: dir, To: target,
					Detail: "target room is not registered",
				})
				continue
			}

			if reverse, ok := g.connection(target, dir.Opposite()); !ok || reverse != id {
				report.Findings = append(report.Findings, Finding{
					Kind: FindingMissingReverse, From: id, Direction: dir, To: target,
					Detail: fmt.Sprintf("%q has no %s connection back to %q", target, dir.Opposite(), id),
				})
			}

			fromPos, _ := g.registry.PositionOf(id)
			toPos, _ := g.registry.PositionOf(target)
			if delta, want := toPos.Sub(fromPos), dir.Vector(); delta != want {
				report.Findings = append(report.Findings, Finding{
					Kind: FindingGeometry, From: id, Direction: dir, To: target,
					Detail: fmt.Sprintf("position delta is %s, expected %s", delta, want),
				})
			}
		}
	}

	return report
}

// Repair installs the missing reverse edges reported by Validate. Geometry
// mismatches, dangling references and self-loops are never patched here;
// they indicate upstream bugs and must be surfaced to the caller instead.
// Returns the number of edges installed.
func (g *Graph) Repair(report ValidationReport) int {
	fixed := 0
	for _, f := range report.ByKind(FindingMissingReverse) {
		opp := f.Direction.Opposite()
		if existing, ok := g.connection(f.To, opp); ok && existing != f.From {
			// The reverse slot points at a third room; installing over it
			// would trade one violation for another.
			continue
		}
		g.set(f.To, opp, f.From)
		fixed++
	}
	return fixed
}
