package formation

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-swarm/common"
	"github.com/Carmen-Shannon/oxy-swarm/engine/grid"
	"github.com/Carmen-Shannon/oxy-swarm/engine/jitter"
)

// BifurcationConfig parameterizes the lateral split.
type BifurcationConfig struct {
	// Start is the split phase start.
	Start float64 `yaml:"start"`
	// Duration is the length of each particle's move.
	Duration float64 `yaml:"duration"`
	// StartJitter adds up to this many seconds of per-particle delay.
	StartJitter float64 `yaml:"start_jitter"`
	// ClusterOffset is the X distance of each cluster center from the show axis.
	ClusterOffset float64 `yaml:"cluster_offset"`
	// Compression scales the lateral spread inside a cluster.
	Compression float64 `yaml:"compression"`
	// DepthCompression scales the Z spread of both clusters.
	DepthCompression float64 `yaml:"depth_compression"`
}

// DefaultBifurcationConfig returns the reference show's split.
func DefaultBifurcationConfig() BifurcationConfig {
	return BifurcationConfig{
		Start:            16,
		Duration:         4,
		StartJitter:      1,
		ClusterOffset:    30,
		Compression:      0.6,
		DepthCompression: 0.5,
	}
}

// Bifurcation partitions the swarm by column half into a left and a right cluster.
type Bifurcation struct {
	cfg     BifurcationConfig
	ground  Ground
	columns int
}

var _ Formation = &Bifurcation{}

// NewBifurcation validates cfg and builds the formation over the ground layout.
func NewBifurcation(g grid.Grid, ground Ground, cfg BifurcationConfig) (*Bifurcation, error) {
	if cfg.Duration <= 0 || cfg.StartJitter < 0 || cfg.Compression <= 0 || cfg.DepthCompression <= 0 {
		return nil, fmt.Errorf("%w: bifurcation duration=%g compression=%g depth=%g",
			ErrInvalidConfig, cfg.Duration, cfg.Compression, cfg.DepthCompression)
	}
	if g.Columns() < 2 {
		return nil, fmt.Errorf("%w: bifurcation needs at least 2 columns", ErrInvalidConfig)
	}
	return &Bifurcation{cfg: cfg, ground: ground, columns: g.Columns()}, nil
}

func (b *Bifurcation) Name() string { return "bifurcation" }

func (b *Bifurcation) Kind() Kind { return KindBifurcation }

// Left reports whether the particle joins the left cluster.
func (b *Bifurcation) Left(p grid.Particle) bool {
	return p.Col < b.columns/2
}

func (b *Bifurcation) Plan(p grid.Particle) Plan {
	return Plan{
		Participates: true,
		Start:        b.cfg.Start + jitter.At(p.Index, jitter.SaltSplitDelay)*b.cfg.StartJitter,
		Duration:     b.cfg.Duration,
	}
}

func (b *Bifurcation) Target(p grid.Particle, from common.Vec3) Target {
	half := b.columns / 2
	first, last, center := 0, half-1, -b.cfg.ClusterOffset
	if !b.Left(p) {
		first, last, center = half, b.columns-1, b.cfg.ClusterOffset
	}

	// Offset from the middle of the particle's own column group, on the ground layout.
	groupMid := (float64(first+last)/2 - float64(b.columns-1)/2) * b.ground.Spacing()
	pad := b.ground.Position(p)

	return Target{
		Position: common.Vec3{
			center + (pad[0]-groupMid)*b.cfg.Compression,
			from[1],
			pad[2] * b.cfg.DepthCompression,
		},
		Participates: true,
	}
}

func (b *Bifurcation) Position(p grid.Particle, from common.Vec3, t float64) common.Vec3 {
	plan := b.Plan(p)
	return blend(from, b.Target(p, from).Position, t, plan.Start, plan.Duration)
}
