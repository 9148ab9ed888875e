package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/dungeondelve/internal/config"
	"github.com/samdwyer/dungeondelve/internal/mapview"
	"github.com/samdwyer/dungeondelve/internal/persist"
	"github.com/samdwyer/dungeondelve/internal/policy"
	"github.com/samdwyer/dungeondelve/internal/spatial"
	"github.com/samdwyer/dungeondelve/internal/telemetry"
	"github.com/samdwyer/dungeondelve/internal/ui"
	"github.com/samdwyer/dungeondelve/internal/world"
)

// Game holds the entire explorer state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	world    *world.World
	store    *persist.Store
	cfg      *config.Config
	log      *zap.Logger
	mode     Mode
	status   string
	running  bool
}

// New creates a game instance. With resume set and a save present in the
// store, the most recent world is restored; otherwise a fresh world is
// generated from the configured seed.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, store *persist.Store, resume bool) (*Game, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	pol, err := loadPolicy(cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	w, err := openWorld(ctx, cfg, log, store, pol, rng, resume)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("game.seed", seed),
		attribute.String("world.id", w.ID()),
	)

	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		world:    w,
		store:    store,
		cfg:      cfg,
		log:      log,
		mode:     ModeExplore,
		status:   "You stand at the dungeon entrance.",
		running:  true,
	}, nil
}

func loadPolicy(cfg *config.Config) (*policy.Policy, error) {
	if cfg.Policy.File != "" {
		return policy.LoadFile(cfg.Policy.File)
	}
	return policy.LoadDefault()
}

func openWorld(ctx context.Context, cfg *config.Config, log *zap.Logger, store *persist.Store,
	pol *policy.Policy, rng *rand.Rand, resume bool) (*world.World, error) {

	if resume && store != nil {
		id, err := store.LatestWorldID(ctx)
		if err != nil {
			return nil, err
		}
		if id != "" {
			exp, err := store.Load(ctx, id)
			if err != nil {
				return nil, err
			}
			return world.Restore(exp, pol, rng, cfg.Game.MaxExits, log)
		}
		log.Info("no save to resume, generating a fresh world")
	}
	return world.New(pol, rng, cfg.Game.MaxExits, log), nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	for g.running {
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.tryMove(ctx, spatial.North)
	case tcell.KeyDown:
		g.tryMove(ctx, spatial.South)
	case tcell.KeyLeft:
		g.tryMove(ctx, spatial.West)
	case tcell.KeyRight:
		g.tryMove(ctx, spatial.East)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			g.tryMove(ctx, spatial.North)
		case 'j':
			g.tryMove(ctx, spatial.South)
		case 'h':
			g.tryMove(ctx, spatial.West)
		case 'l':
			g.tryMove(ctx, spatial.East)
		case '<':
			g.tryMove(ctx, spatial.Up)
		case '>':
			g.tryMove(ctx, spatial.Down)
		case 'm':
			if g.mode == ModeLegend {
				g.mode = ModeExplore
			} else {
				g.mode = ModeLegend
			}
		case 's':
			g.save(ctx)
		case 'v':
			g.checkConnections()
		case 'q', 'Q':
			g.running = false
		}
	}
}

// tryMove attempts to move the player in the given direction.
func (g *Game) tryMove(ctx context.Context, dir spatial.Direction) {
	res, err := g.world.Move(ctx, dir)
	if err != nil {
		// Invariant violations indicate a generator bug; surface them
		// instead of pretending the move worked.
		g.log.Error("movement failed", zap.String("direction", dir.String()), zap.Error(err))
		g.status = fmt.Sprintf("Something is wrong with the dungeon: %v", err)
		return
	}

	switch {
	case res.Blocked:
		g.status = fmt.Sprintf("You cannot go %s.", dir)
	case res.Created:
		g.status = fmt.Sprintf("You move %s into unexplored territory.", dir)
	default:
		g.status = fmt.Sprintf("You move %s.", dir)
	}
}

// save persists the current world to the save store.
func (g *Game) save(ctx context.Context) {
	if g.store == nil {
		g.status = "Saving is disabled."
		return
	}
	if err := g.store.Save(ctx, g.world.Export()); err != nil {
		g.log.Error("save failed", zap.Error(err))
		g.status = fmt.Sprintf("Save failed: %v", err)
		return
	}
	g.status = "Game saved."
}

// checkConnections validates the graph and repairs what it can.
func (g *Game) checkConnections() {
	report := g.world.Validate()
	if report.Empty() {
		g.status = "All connections are consistent."
		return
	}
	fixed := g.world.Repair()
	g.log.Warn("validation found issues",
		zap.Int("findings", len(report.Findings)),
		zap.Int("repaired", fixed))
	g.status = fmt.Sprintf("Validation: %d findings, %d repaired.", len(report.Findings), fixed)
}

// render draws the current frame.
func (g *Game) render() {
	mapText := mapview.Render(g.world, g.cfg.Map.Width, g.cfg.Map.Height)
	if g.mode == ModeExplore {
		// The legend follows the bordered block after a blank line.
		if i := strings.Index(mapText, "\n\nLEGEND:"); i >= 0 {
			mapText = mapText[:i+1]
		}
	}

	stats := g.world.Stats()
	pos, _ := g.world.PositionOf(g.world.PlayerID())
	depthLine := ""
	if depth, ok := g.world.Depth(g.world.PlayerID()); ok {
		depthLine = fmt.Sprintf(" depth %d", depth)
	}

	g.renderer.Render(ui.Frame{
		MapText: mapText,
		Status: []string{
			g.status,
			fmt.Sprintf("%s %s%s | %d rooms found, %d visited",
				g.world.PlayerID(), pos, depthLine, stats.Discovered, stats.Visited),
			fmt.Sprintf("exits: %s", exitList(g.world.AvailableMoves())),
			"[arrows/hjkl] move  [<>] up/down  [m] legend  [s] save  [v] validate  [q] quit",
		},
	})
}

func exitList(dirs []spatial.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
