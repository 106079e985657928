// Command simulate runs an emberworld population to completion,
// wiring together bootstrap, tick, and every external collaborator
// spec.md §1 names: a durable event trace, a read-only MCP query
// surface, and a browser replay feed. Env-var wiring follows
// cmd/bud/main.go's pattern: godotenv.Load, then os.Getenv reads with
// defaults, logged as they're applied.
package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vthunder/emberworld/internal/bootstrap"
	"github.com/vthunder/emberworld/internal/config"
	"github.com/vthunder/emberworld/internal/event"
	"github.com/vthunder/emberworld/internal/logging"
	"github.com/vthunder/emberworld/internal/mcpserver"
	"github.com/vthunder/emberworld/internal/replay"
	"github.com/vthunder/emberworld/internal/resource"
	"github.com/vthunder/emberworld/internal/tick"
	"github.com/vthunder/emberworld/internal/types"
)

func main() {
	log.Println("emberworld simulate")
	log.Println("====================")

	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	} else {
		log.Println("[config] loaded .env file")
	}

	cfg, err := config.Load(os.Getenv("EMBERWORLD_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	seed := envInt64("EMBERWORLD_SEED", time.Now().UnixNano())
	ticks := envInt("EMBERWORLD_TICKS", 1000)
	agentCount := envInt("EMBERWORLD_AGENTS", 20)
	objectCount := envInt("EMBERWORLD_OBJECTS", 10)
	tracePath := envString("EMBERWORLD_TRACE_PATH", "state/trace.json")
	dbPath := envString("EMBERWORLD_DB_PATH", "state/events.db")
	mcpAddr := os.Getenv("EMBERWORLD_MCP_HTTP_ADDR")
	replayAddr := os.Getenv("EMBERWORLD_REPLAY_ADDR")
	fingerprint := os.Getenv("EMBERWORLD_FINGERPRINT") == "1"

	log.Printf("[config] seed=%d ticks=%d agents=%d objects=%d world_size=%.0f",
		seed, ticks, agentCount, objectCount, cfg.WorldSize)

	if dir := filepath.Dir(tracePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("[main] creating trace directory: %v", err)
		}
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("[main] creating db directory: %v", err)
		}
	}

	fileSink := event.NewFileSink(tracePath)
	sqlSink, err := event.NewSQLSink(dbPath)
	if err != nil {
		log.Fatalf("[main] opening event db: %v", err)
	}
	worldCtx := mcpserver.NewWorldContext(200)

	sinks := []event.Sink{fileSink, sqlSink, worldCtx}

	var broadcaster *replay.Broadcaster
	if replayAddr != "" {
		broadcaster = replay.NewBroadcaster()
		sinks = append(sinks, broadcaster)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/ws", broadcaster)
			log.Printf("[replay] serving on %s", replayAddr)
			if err := http.ListenAndServe(replayAddr, mux); err != nil {
				logging.Warn("replay", "http server stopped: %v", err)
			}
		}()
	}

	bus := event.NewBus(64, sinks...)

	if mcpAddr != "" {
		mcp := mcpserver.NewServer()
		mcpserver.RegisterWorldTools(mcp, worldCtx)
		go func() {
			log.Printf("[mcpserver] serving on %s", mcpAddr)
			if err := mcp.RunHTTP(mcpAddr); err != nil {
				logging.Warn("mcpserver", "http server stopped: %v", err)
			}
		}()
	}

	sampler, err := resource.NewSampler(10 * time.Second)
	if err != nil {
		logging.Warn("main", "resource sampler unavailable: %v", err)
	} else {
		sampler.Start()
		defer sampler.Stop()
	}

	rng := rand.New(rand.NewSource(seed))
	world := bootstrap.World(bootstrap.Params{
		AgentCount:  agentCount,
		ObjectCount: objectCount,
		WorldSize:   cfg.WorldSize,
		TicksPerGen: cfg.TicksPerGen,
		DriveMean:   30,
		DriveStdDev: 15,
	}, rng)
	worldCtx.SetWorld(world)

	params := tick.Params{
		Drive:            cfg.DriveParameters(),
		Selection:        cfg.SelectionCriteria(),
		Episode:          cfg.EpisodeTuning(),
		PerceptionRadius: cfg.PerceptionRadius,
		TicksElapsed:     1,
		Fingerprint:      fingerprint,
	}

	bus.Emit(startEvent(world, cfg.WorldSize))
	for i := 0; i < ticks; i++ {
		world = tick.Run(world, params, rng, bus)
		worldCtx.SetWorld(world)
	}
	bus.Emit(event.Event{Type: event.SimulationEnd, TotalTicks: world.Clock.CurrentTick, FinalGeneration: world.Clock.CurrentGeneration})

	if err := bus.Close(); err != nil {
		log.Printf("[main] closing event sinks: %v", err)
	}
	log.Printf("[main] finished %d ticks, final tick=%d generation=%d", ticks, world.Clock.CurrentTick, world.Clock.CurrentGeneration)
}

func startEvent(w types.World, worldSize float32) event.Event {
	entities := make([]event.StartEntity, 0, len(w.Agents)+len(w.Objects))
	for _, a := range w.Agents {
		drives := make([]event.DriveValue, len(a.Drives))
		for i, d := range a.Drives {
			drives[i] = event.DriveValue{Type: string(d.Kind), Value: d.Intensity}
		}
		entities = append(entities, event.StartEntity{
			ID:       a.ID(),
			Type:     event.EntityNPC,
			Position: event.Vec2{X: a.Identity.Entity.Position.X, Y: a.Identity.Entity.Position.Y},
			Drives:   drives,
		})
	}
	for _, o := range w.Objects {
		entities = append(entities, event.StartEntity{
			ID:       o.Entity.ID,
			Type:     event.EntityObject,
			Position: event.Vec2{X: o.Entity.Position.X, Y: o.Entity.Position.Y},
		})
	}
	return event.Event{
		Type:        event.SimulationStart,
		NPCCount:    len(w.Agents),
		ObjectCount: len(w.Objects),
		WorldSize:   worldSize,
		Entities:    entities,
	}
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using default %d", name, v, fallback)
		return fallback
	}
	return n
}

func envInt64(name string, fallback int64) int64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using default %d", name, v, fallback)
		return fallback
	}
	return n
}

