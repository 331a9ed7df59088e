package game

import (
	"context"
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/planetwalk/internal/config"
	"github.com/Faultbox/planetwalk/internal/engine/audio"
	"github.com/Faultbox/planetwalk/internal/engine/input"
	"github.com/Faultbox/planetwalk/internal/engine/locomotion"
	"github.com/Faultbox/planetwalk/internal/engine/sphere"
	"github.com/Faultbox/planetwalk/internal/game/world"
	"github.com/Faultbox/planetwalk/internal/logger"
)

// Summary describes a headless run.
type Summary struct {
	Ticks        int
	Distance     float32 // Path length along the surface
	BlockedTicks int
	Footfalls    int
	StateTicks   map[string]int
	Final        world.Frame

	// Digest hashes every tick's position and heading. Equal inputs give
	// equal digests.
	Digest uint64
}

// RunHeadless steps w on a fixed timestep with scripted input. It stops
// after ticks updates or when ctx is cancelled. watcher may be nil.
func RunHeadless(ctx context.Context, w *world.World, script *input.Script, ticks int, step float32, watcher *config.Watcher) (Summary, error) {
	sum := Summary{StateTicks: make(map[string]int)}
	prev := w.Agent().Position
	var feet audio.Footsteps
	digest := xxhash.New()
	buf := make([]byte, 0, 16)
	radius := w.Surface().Radius

	logger.Info("headless run",
		zap.Int("ticks", ticks),
		zap.Float32("step", step),
		zap.Int("script_ticks", script.Len()),
	)

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		applyReloads(w, watcher)

		frame := w.Update(step, script)
		script.Advance()

		sum.Ticks++
		sum.Distance += sphere.AngularDistance(prev, frame.Position) * radius
		sum.StateTicks[frame.Tag]++
		if frame.Blocked {
			sum.BlockedTicks++
		}
		feet.Update(frame.Pose.WalkPhase, frame.State != locomotion.StateIdle && !frame.Blocked)
		sum.Final = frame
		prev = frame.Position

		buf = buf[:0]
		for _, v := range [4]float32{frame.Position.X, frame.Position.Y, frame.Position.Z, frame.Heading} {
			buf = binary.LittleEndian.AppendUint32(buf, gomath.Float32bits(v))
		}
		digest.Write(buf)
	}
	sum.Footfalls = feet.Steps()
	sum.Digest = digest.Sum64()

	logger.Info("headless run finished",
		zap.Int("ticks", sum.Ticks),
		zap.Float32("distance", sum.Distance),
		zap.Int("blocked_ticks", sum.BlockedTicks),
		zap.Int("footfalls", sum.Footfalls),
		zap.String("final_state", sum.Final.Tag),
		zap.String("digest", fmt.Sprintf("%016x", sum.Digest)),
	)
	return sum, nil
}

// applyReloads applies any config the watcher has reloaded since the last
// call without blocking.
func applyReloads(w *world.World, watcher *config.Watcher) {
	if watcher == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-watcher.Updates:
			if !ok {
				return
			}
			if err := w.ApplyTuning(cfg); err != nil {
				logger.Warn("config reload rejected", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config reload failed", zap.Error(err))
		default:
			return
		}
	}
}
