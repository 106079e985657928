// Package types holds the immutable value records that make up a World
// snapshot: positions, entities, drives, perception and episodic memory,
// and the relationships that modulate them. Every record here is a plain
// value; "updating" one means building a replacement, never mutating in
// place. Cross-record links are plain string handles, never pointers back
// into a containing record, so the graph of references can never cycle.
package types

import "math"

// Position is a point in the 2-D world-unit space.
type Position struct {
	X, Y float32
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(o Position) float32 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return float32(math.Sqrt(dx*dx + dy*dy))
}

// EntityHandle, AgentIdentityHandle and ObjectHandle are opaque references
// to an Entity's id. They exist as distinct names for documentation even
// though all three are plain strings under the hood.
type (
	EntityHandle        = string
	AgentIdentityHandle = string
	ObjectHandle        = string
)

// Entity is the identity tuple every agent and object carries: a stable
// id plus a per-tick position snapshot.
type Entity struct {
	ID       string
	Position Position
}

// DriveKind is the closed set of emotional drives an agent can carry.
type DriveKind string

const (
	Belonging  DriveKind = "belonging"
	Grief      DriveKind = "grief"
	Curiosity  DriveKind = "curiosity"
	Sustenance DriveKind = "sustenance"
	Shelter    DriveKind = "shelter"
	Pride      DriveKind = "pride"
)

// AllDriveKinds lists every DriveKind in a stable order, used by bootstrap
// and by tests that need to enumerate the full drive set.
func AllDriveKinds() []DriveKind {
	return []DriveKind{Belonging, Grief, Curiosity, Sustenance, Shelter, Pride}
}

// Name returns the stable human-readable name of the drive kind.
func (k DriveKind) Name() string { return string(k) }

// Drive is a single emotional pressure. Intensity is clamped to [0,100]
// when the record represents a level; the same type also carries signed,
// unbounded deltas when it represents an impact (see internal/impact).
type Drive struct {
	Kind      DriveKind
	Intensity float32
}

// Clamped returns the drive with intensity clamped to [0,100].
func (d Drive) Clamped() Drive {
	switch {
	case d.Intensity < 0:
		d.Intensity = 0
	case d.Intensity > 100:
		d.Intensity = 100
	}
	return d
}

// ActionKind is the closed set of actions an agent may perform.
type ActionKind string

const (
	Move    ActionKind = "move"
	Observe ActionKind = "observe"
	Give    ActionKind = "give"
	Take    ActionKind = "take"
	Rest    ActionKind = "rest"
	Build   ActionKind = "build"
	Plant   ActionKind = "plant"
	Bury    ActionKind = "bury"
	Gesture ActionKind = "gesture"
	Follow  ActionKind = "follow"
)

// ObjectCategory is the closed set of world object categories.
type ObjectCategory string

const (
	Food      ObjectCategory = "food"
	Structure ObjectCategory = "structure"
	Tool      ObjectCategory = "tool"
	Burial    ObjectCategory = "burial"
	PlantCat  ObjectCategory = "plant"
	Marker    ObjectCategory = "marker"
)

// WorldObject is an inert world feature. It carries the identity of its
// creator but no back-reference to any agent record.
type WorldObject struct {
	Entity    Entity
	Category  ObjectCategory
	CreatedBy AgentIdentityHandle
}

// TargetRef is a sum type over "an entity", "an object", or "nothing".
// At most one of EntityID/ObjectID is ever set; IsNone reports the third
// case.
type TargetRef struct {
	EntityID EntityHandle
	ObjectID ObjectHandle
}

// TargetNone returns the empty target.
func TargetNone() TargetRef { return TargetRef{} }

// TargetEntity returns a target referencing an agent entity.
func TargetEntity(id EntityHandle) TargetRef { return TargetRef{EntityID: id} }

// TargetObject returns a target referencing a world object.
func TargetObject(id ObjectHandle) TargetRef { return TargetRef{ObjectID: id} }

// IsNone reports whether the target references neither an entity nor an object.
func (t TargetRef) IsNone() bool { return t.EntityID == "" && t.ObjectID == "" }

// IsEntity reports whether the target references an entity.
func (t TargetRef) IsEntity() bool { return t.EntityID != "" }

// IsObject reports whether the target references an object.
func (t TargetRef) IsObject() bool { return t.ObjectID != "" }

// AgentIdentity is the slice of an agent that memories are allowed to
// reference: its entity, its current action, and that action's target.
// It deliberately omits drives, perception and memory so that a memory
// holding an AgentIdentity can never cycle back into the actor's full
// Agent record.
type AgentIdentity struct {
	Entity        Entity
	CurrentAction *ActionKind
	Target        TargetRef
}

// PerceptionEntry records one observed action event.
type PerceptionEntry struct {
	Timestamp uint64
	Actor     AgentIdentityHandle
	Action    ActionKind
	Target    TargetRef
}

// MaxBuffer is the bounded length of a PerceptionBuffer.
const MaxBuffer = 20

// PerceptionBuffer is an agent's bounded short-term window of observed
// events, oldest first.
type PerceptionBuffer []PerceptionEntry

// Append adds entries in observation order and trims the oldest entries
// so the buffer never exceeds MaxBuffer.
func (b PerceptionBuffer) Append(entries ...PerceptionEntry) PerceptionBuffer {
	out := make(PerceptionBuffer, 0, len(b)+len(entries))
	out = append(out, b...)
	out = append(out, entries...)
	if len(out) > MaxBuffer {
		out = out[len(out)-MaxBuffer:]
	}
	return out
}

// ActionStep is one step of an ActionSequence: the observation plus how
// long after the previous step it occurred.
type ActionStep struct {
	Entry              PerceptionEntry
	DelayAfterPrevious uint32
}

// DummySequenceID is reserved and must never appear on a real sequence.
// Preserved from the source's sentinel convention as an explicit
// forbidden value rather than a real "no match" marker (see spec §9).
const DummySequenceID = "__dummy__"

// ActionSequence is a non-empty ordered sequence of observed steps.
type ActionSequence struct {
	ID    string
	Steps []ActionStep
}

// MemoryEpisode is a reinforced, emotionally significant sequence
// retained in long-term memory.
type MemoryEpisode struct {
	StartTime       uint64
	EndTime         uint64
	Sequence        ActionSequence
	DriveImpacts    []Drive
	RepetitionCount uint32
}

// DriveEffectiveness records how well a drive kind was historically
// relieved by a witnessed sequence.
type DriveEffectiveness struct {
	Kind  DriveKind
	Value float32
}

// WitnessedSequence is carried by agents as a forward-compatible slot;
// the core pipeline specified here never produces one.
type WitnessedSequence struct {
	Sequence         ActionSequence
	Performer        AgentIdentityHandle
	ObservationCount uint32
	Effectiveness    []DriveEffectiveness
}

// AffectiveTrace is the historical emotional impact of a relationship,
// partitioned by drive kind.
type AffectiveTrace struct {
	DriveKind DriveKind
	Value     float32
}

// RelationshipTargetKind is the closed set of things a Relationship can
// be about.
type RelationshipTargetKind string

const (
	TargetKindEntity   RelationshipTargetKind = "entity"
	TargetKindObject   RelationshipTargetKind = "object"
	TargetKindLocation RelationshipTargetKind = "location"
)

// RelationshipTarget is the sum type a Relationship points at.
type RelationshipTarget struct {
	Kind     RelationshipTargetKind
	EntityID EntityHandle // set when Kind == TargetKindEntity
	ObjectID ObjectHandle // set when Kind == TargetKindObject
	Location Position     // set when Kind == TargetKindLocation
	Radius   float32      // set when Kind == TargetKindLocation
}

// Contains reports whether a Location-kind target's radius covers p.
// Non-location targets never contain a point.
func (t RelationshipTarget) Contains(p Position) bool {
	if t.Kind != TargetKindLocation {
		return false
	}
	return t.Location.Distance(p) <= t.Radius
}

// Relationship is an agent's asymmetric disposition toward an entity,
// object, or location.
type Relationship struct {
	Target           RelationshipTarget
	Familiarity      float32 // in [0,1]
	AffectiveTraces  []AffectiveTrace
	LastInteraction  uint64
	InteractionCount uint32
}

// Agent is a simulated character: its identity, drives, short-term
// perception, long-term episodic memory, witnessed behaviors, and
// relationships.
type Agent struct {
	Identity          AgentIdentity
	Drives            []Drive
	Perception        PerceptionBuffer
	EpisodicMemory    []MemoryEpisode
	ObservedBehaviors []WitnessedSequence
	Relationships     []Relationship
}

// ID returns the agent's stable entity id.
func (a Agent) ID() string { return a.Identity.Entity.ID }

// Drive returns the agent's drive of the given kind, if it carries one.
func (a Agent) Drive(kind DriveKind) (Drive, bool) {
	for _, d := range a.Drives {
		if d.Kind == kind {
			return d, true
		}
	}
	return Drive{}, false
}

// WithDrive returns a copy of the agent with the matching-kind drive
// replaced by d. If the agent carries no drive of that kind, it is
// returned unchanged: the core never adds or removes drives, only
// advances the ones an agent started with.
func (a Agent) WithDrive(d Drive) Agent {
	out := a
	out.Drives = make([]Drive, len(a.Drives))
	copy(out.Drives, a.Drives)
	for i, existing := range out.Drives {
		if existing.Kind == d.Kind {
			out.Drives[i] = d
			return out
		}
	}
	return a
}

// RelationshipTo returns the agent's relationship whose target is the
// given entity, if any.
func (a Agent) RelationshipTo(entityID EntityHandle) (Relationship, bool) {
	for _, r := range a.Relationships {
		if r.Target.Kind == TargetKindEntity && r.Target.EntityID == entityID {
			return r, true
		}
	}
	return Relationship{}, false
}

// RelationshipAtLocation returns the agent's first relationship whose
// Location target contains p, if any.
func (a Agent) RelationshipAtLocation(p Position) (Relationship, bool) {
	for _, r := range a.Relationships {
		if r.Target.Contains(p) {
			return r, true
		}
	}
	return Relationship{}, false
}

// SimulationClock is the world's notion of time: a tick counter and the
// coarser generation it falls into.
type SimulationClock struct {
	CurrentTick        uint64
	CurrentGeneration  uint32
	TicksPerGeneration uint32
	InitialGeneration  uint32
}

// Advance returns the clock one tick later, bumping the generation when
// the new tick is a positive multiple of TicksPerGeneration.
func (c SimulationClock) Advance() SimulationClock {
	c.CurrentTick++
	if c.TicksPerGeneration > 0 && c.CurrentTick > 0 && c.CurrentTick%uint64(c.TicksPerGeneration) == 0 {
		c.CurrentGeneration++
	}
	return c
}

// World is the full immutable snapshot the core pipeline transforms
// each tick.
type World struct {
	Clock   SimulationClock
	Agents  []Agent
	Objects []WorldObject
}

// AgentByID returns the agent with the given entity id, if present.
func (w World) AgentByID(id string) (Agent, bool) {
	for _, a := range w.Agents {
		if a.ID() == id {
			return a, true
		}
	}
	return Agent{}, false
}

// ObjectByID returns the object with the given entity id, if present.
func (w World) ObjectByID(id string) (WorldObject, bool) {
	for _, o := range w.Objects {
		if o.Entity.ID == id {
			return o, true
		}
	}
	return WorldObject{}, false
}

// WithAgent returns a copy of the world with the agent sharing next's id
// replaced by next. Agents not present are not added: the core never
// creates or destroys agents.
func (w World) WithAgent(next Agent) World {
	out := w
	out.Agents = make([]Agent, len(w.Agents))
	copy(out.Agents, w.Agents)
	for i, a := range out.Agents {
		if a.ID() == next.ID() {
			out.Agents[i] = next
			return out
		}
	}
	return w
}
