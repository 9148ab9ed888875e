package spatial

// GenerateLogicalExits decides which fresh exits a room offers, as a
// function of its generation depth. The entry direction's opposite is
// reserved for backtracking (the connection made on arrival already covers
// it) and already-connected directions are never re-offered. Pass
// NoDirection as cameFrom for rooms without an entry direction.
//
// The returned directions are offers, not rooms: the caller instantiates
// each one through GenerateConnectedRoom only when the player actually
// moves that way. Every probability is rolled independently per call from
// the injected random source.
func (n *Navigator) GenerateLogicalExits(roomID string, maxExits int, cameFrom Direction) ([]Direction, error) {
	depth, ok := n.depths[roomID]
	if !ok {
		return nil, &UnknownRoomError{ID: roomID}
	}

	eligible := n.eligibleDirections(roomID, cameFrom)
	if len(eligible) == 0 {
		return nil, nil
	}

	minExits, maxTier := n.policy.ExitRange(depth)
	count := minExits
	if spread := maxTier - minExits; spread > 0 {
		count += n.rng.Intn(spread + 1)
	}
	if maxExits > 0 && count > maxExits {
		count = maxExits
	}
	if count > len(eligible) {
		count = len(eligible)
	}

	// The dead-end roll overrides the tier outright.
	if chance := n.policy.DeadEndChance(depth); chance > 0 && n.rng.Float64() < chance {
		return nil, nil
	}

	chosen := n.sample(eligible, count)

	chosen = n.applyVerticalBias(chosen, eligible, depth)
	chosen = n.applyLoopBias(chosen, roomID, cameFrom, depth)

	return chosen, nil
}

// eligibleDirections returns the offerable directions in fixed order: all
// six, minus the backtrack direction, minus anything already connected.
func (n *Navigator) eligibleDirections(roomID string, cameFrom Direction) []Direction {
	connected := n.graph.ConnectionsOf(roomID)
	reserved := NoDirection
	if cameFrom != NoDirection {
		reserved = cameFrom.Opposite()
	}

	var eligible []Direction
	for _, dir := range Directions() {
		if dir == reserved {
			continue
		}
		if _, ok := connected[dir]; ok {
			continue
		}
		eligible = append(eligible, dir)
	}
	return eligible
}

// sample draws count directions without replacement via a partial
// Fisher-Yates shuffle, so ties are broken by the random source and never
// by map iteration order.
func (n *Navigator) sample(eligible []Direction, count int) []Direction {
	pool := make([]Direction, len(eligible))
	copy(pool, eligible)
	for i := 0; i < count; i++ {
		j := i + n.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count:count]
}

// applyVerticalBias occasionally appends a vertical exit beyond the tier
// sample: up near the surface, down once sufficiently deep. This biases
// vertical connectivity without letting it dominate the horizontal layout.
func (n *Navigator) applyVerticalBias(chosen []Direction, eligible []Direction, depth int) []Direction {
	gate, upChance, downChance := n.policy.VerticalBias(depth)
	if gate <= 0 || n.rng.Float64() >= gate {
		return chosen
	}

	if upChance > 0 && contains(eligible, Up) && !contains(chosen, Up) && n.rng.Float64() < upChance {
		chosen = append(chosen, Up)
	}
	if downChance > 0 && contains(eligible, Down) && !contains(chosen, Down) && n.rng.Float64() < downChance {
		chosen = append(chosen, Down)
	}
	return chosen
}

// applyLoopBias rarely offers one extra horizontal edge toward an
// already-registered, shallower room, keeping the dungeon from being a
// pure tree. The edge is only offered here; taking it runs through
// GenerateConnectedRoom's convergence path, so geometry is never
// fabricated.
func (n *Navigator) applyLoopBias(chosen []Direction, roomID string, cameFrom Direction, depth int) []Direction {
	chance := n.policy.LoopBias(depth)
	if chance <= 0 || n.rng.Float64() >= chance {
		return chosen
	}

	pos, ok := n.registry.PositionOf(roomID)
	if !ok {
		return chosen
	}
	connected := n.graph.ConnectionsOf(roomID)
	reserved := NoDirection
	if cameFrom != NoDirection {
		reserved = cameFrom.Opposite()
	}

	var candidates []Direction
	for _, dir := range []Direction{North, South, East, West} {
		if dir == reserved || contains(chosen, dir) {
			continue
		}
		if _, ok := connected[dir]; ok {
			continue
		}
		neighbor, ok := n.registry.RoomAt(pos.Add(dir))
		if !ok {
			continue
		}
		if d, ok := n.depths[neighbor]; !ok || d >= depth {
			continue
		}
		candidates = append(candidates, dir)
	}

	if len(candidates) > 0 {
		chosen = append(chosen, candidates[n.rng.Intn(len(candidates))])
	}
	return chosen
}

func contains(dirs []Direction, d Direction) bool {
	for _, dir := range dirs {
		if dir == d {
			return true
		}
	}
	return false
}
