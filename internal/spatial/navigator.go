package spatial

// Rand is the injectable random source used by the exit generator.
// *math/rand.Rand satisfies it; tests substitute scripted doubles so every
// branching decision is reproducible.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// OriginID is the id of the starting room, created at (0,0,0) when a
// Navigator is constructed.
const OriginID = "start"

// Navigator is the single owner of a world's position registry and
// connection graph. Create exactly one per active world and share the
// handle; never a package-level instance.
type Navigator struct {
	registry *Registry
	graph    *Graph
	depths   map[string]int
	policy   ExitPolicy
	rng      Rand
}

// ExitPolicy is the slice of the generation policy the Navigator consumes.
// internal/policy provides the data-driven implementation.
type ExitPolicy interface {
	// ExitRange returns the [min,max] exit count band for a depth.
	ExitRange(depth int) (min, max int)
	// DeadEndChance returns the capped dead-end probability at a depth.
	DeadEndChance(depth int) float64
	// VerticalBias returns the gate probability for the extra vertical
	// roll and the per-direction chances given the depth.
	VerticalBias(depth int) (gate, upChance, downChance float64)
	// LoopBias returns the probability of offering an extra loop edge at
	// a depth; zero disables loops at that depth.
	LoopBias(depth int) float64
}

// NewNavigator creates a navigator with the origin room registered at
// (0,0,0) under OriginID.
func NewNavigator(policy ExitPolicy, rng Rand) *Navigator {
	registry := NewRegistry()
	n := &Navigator{
		registry: registry,
		graph:    NewGraph(registry),
		depths:   make(map[string]int),
		policy:   policy,
		rng:      rng,
	}
	// The registry is empty, so this cannot fail.
	_ = registry.AddRoom(OriginID, Origin)
	n.depths[OriginID] = 0
	return n
}

// GenerateConnectedRoom creates or connects the room one step from fromID
// in the given direction and returns its id. If the target position is
// already occupied, meaning two paths geometrically converged, the existing
// room is connected and returned; no duplicate is ever created. Otherwise a
// new room is synthesized, registered at the target position with the given
// depth, and connected.
func (n *Navigator) GenerateConnectedRoom(fromID string, dir Direction, depth int) (string, error) {
	fromPos, ok := n.registry.PositionOf(fromID)
	if !ok {
		return "", &UnknownRoomError{ID: fromID}
	}

	target := fromPos.Add(dir)

	if existing, ok := n.registry.RoomAt(target); ok {
		if err := n.graph.Connect(fromID, dir, existing); err != nil {
			return "", err
		}
		return existing, nil
	}

	// Refuse before registering anything, so a conflict leaves no partial
	// state behind. A set slot here would mean the graph and registry
	// disagree about what occupies the target position.
	if existing, ok := n.graph.connection(fromID, dir); ok {
		return "", &ConnectionConflictError{
			From: fromID, Direction: dir,
			Existing: existing, Proposed: SynthesizeID(target, depth),
		}
	}

	newID := SynthesizeID(target, depth)
	if err := n.registry.AddRoom(newID, target); err != nil {
		return "", err
	}
	n.depths[newID] = depth
	if err := n.graph.Connect(fromID, dir, newID); err != nil {
		return "", err
	}
	return newID, nil
}

// Connect installs a bidirectional edge between two registered rooms.
// Exposed for graph reconstruction from persisted state; procedural
// generation goes through GenerateConnectedRoom instead.
func (n *Navigator) Connect(fromID string, dir Direction, toID string) error {
	if !n.registry.Contains(fromID) {
		return &UnknownRoomError{ID: fromID}
	}
	if !n.registry.Contains(toID) {
		return &UnknownRoomError{ID: toID}
	}
	return n.graph.Connect(fromID, dir, toID)
}

// AddRoom registers a room at an explicit position and depth. Exposed for
// graph reconstruction from persisted state.
func (n *Navigator) AddRoom(id string, pos Position, depth int) error {
	if err := n.registry.AddRoom(id, pos); err != nil {
		return err
	}
	if _, ok := n.depths[id]; !ok {
		n.depths[id] = depth
	}
	return nil
}

// ValidateConnections scans the whole graph for invariant violations.
func (n *Navigator) ValidateConnections() ValidationReport {
	return n.graph.Validate()
}

// FixConnections repairs the auto-repairable findings (missing reverse
// edges) and returns how many edges were installed.
func (n *Navigator) FixConnections() int {
	return n.graph.Repair(n.graph.Validate())
}

// PositionOf returns a room's lattice position.
func (n *Navigator) PositionOf(id string) (Position, bool) {
	return n.registry.PositionOf(id)
}

// RoomAt returns the room occupying a position, if any.
func (n *Navigator) RoomAt(pos Position) (string, bool) {
	return n.registry.RoomAt(pos)
}

// ConnectionsOf returns a copy of a room's connections.
func (n *Navigator) ConnectionsOf(id string) map[Direction]string {
	return n.graph.ConnectionsOf(id)
}

// Depth returns the generation depth a room was created at.
func (n *Navigator) Depth(id string) (int, bool) {
	d, ok := n.depths[id]
	return d, ok
}

// RoomCount returns the number of registered rooms.
func (n *Navigator) RoomCount() int {
	return n.registry.Len()
}

// RoomIDs returns all registered room ids in sorted order.
func (n *Navigator) RoomIDs() []string {
	return n.registry.IDs()
}
