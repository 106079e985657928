// Package fingerprint produces a short content hash of a World
// snapshot, used to mechanically check the determinism properties
// spec.md §8 describes only in prose (running the same seeded
// simulation twice must produce byte-identical worlds).
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/vthunder/emberworld/internal/types"
)

// Of hashes the world's agents and objects in ID-sorted order so the
// fingerprint does not depend on slice ordering, only on content.
func Of(w types.World) string {
	h := blake3.New()

	var buf [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(w.Clock.CurrentTick)
	writeUint(uint64(w.Clock.CurrentGeneration))

	agents := make([]types.Agent, len(w.Agents))
	copy(agents, w.Agents)
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID() < agents[j].ID() })
	for _, a := range agents {
		h.WriteString(a.ID())
		writePosition(h, a.Identity.Entity.Position)
		drives := make([]types.Drive, len(a.Drives))
		copy(drives, a.Drives)
		sort.Slice(drives, func(i, j int) bool { return drives[i].Kind < drives[j].Kind })
		for _, d := range drives {
			h.WriteString(string(d.Kind))
			writeUint(uint64(d.Intensity * 1000))
		}
		writeUint(uint64(len(a.EpisodicMemory)))
	}

	objects := make([]types.WorldObject, len(w.Objects))
	copy(objects, w.Objects)
	sort.Slice(objects, func(i, j int) bool { return objects[i].Entity.ID < objects[j].Entity.ID })
	for _, o := range objects {
		h.WriteString(o.Entity.ID)
		writePosition(h, o.Entity.Position)
	}

	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

func writePosition(h *blake3.Hasher, p types.Position) {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(p.Y))
	h.Write(buf[:])
}
