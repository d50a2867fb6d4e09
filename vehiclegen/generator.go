// Package vehiclegen synthesizes vehicle arrivals at entry/exit control
// points over simulated time, for scenarios that don't supply a fixed
// vehicle list up front.
//
// Grounded on the teacher's passenger-demand generator: sim/simulator.go's
// Knuth-algorithm Poisson sampler (poisson/PoissonPublic) decides how many
// arrivals land in each tick, and sim/demand.go's spatial-gradient
// weighting (gradientWeightOutbound/Inbound) becomes a weighting across
// destination entry points favoring ones in a configured "hot" region,
// instead of favoring stops nearer one end of a bus corridor.
package vehiclegen

import (
	"fmt"
	"math"
	"math/rand"

	"agvsim/engine"
	"agvsim/model"
)

// Config parameterizes arrival generation at each entry/exit point.
type Config struct {
	// LambdaPerEntry is the mean number of vehicle arrivals per entry
	// point per simulated time unit.
	LambdaPerEntry float64
	// Tick is the simulated-time step between generation rounds.
	Tick float64
	// Speed is the kinematic speed assigned to generated vehicles.
	Speed float64
	// CapacityNeeded is the capacity each generated vehicle consumes on
	// every segment it occupies.
	CapacityNeeded int
	// HotRegion, if non-empty, biases destination choice toward entry
	// points sharing its Region field, via SpatialGradient.
	HotRegion string
	// SpatialGradient in [0,1] controls how strongly HotRegion is favored;
	// 0 disables the bias entirely (uniform destination choice).
	SpatialGradient float64
}

// Generator produces vehicles and feeds them into an engine via
// RequestToEnter, scheduled on a virtual clock.
type Generator struct {
	net    *model.Network
	cfg    Config
	rng    *rand.Rand
	serial int
}

// New returns a Generator seeded deterministically by seed.
func New(net *model.Network, cfg Config, seed int64) *Generator {
	return &Generator{net: net, cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// poisson samples a Poisson-distributed count with the given mean, via the
// same Knuth-algorithm-for-small-means / normal-approximation-for-large-
// means split the teacher's simulator uses.
func (g *Generator) poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		std := math.Sqrt(mean)
		val := int(math.Round(g.rng.NormFloat64()*std + mean))
		if val < 0 {
			return 0
		}
		return val
	}
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for p > limit {
		k++
		p *= g.rng.Float64()
	}
	return k - 1
}

func (g *Generator) weight(cp *model.ControlPoint) float64 {
	if g.cfg.SpatialGradient <= 0 || g.cfg.HotRegion == "" {
		return 1.0
	}
	if cp.Region == g.cfg.HotRegion {
		return 1.0 + g.cfg.SpatialGradient
	}
	return 1.0
}

// chooseDestination picks a weighted-random entry/exit point other than
// exclude.
func (g *Generator) chooseDestination(points []*model.ControlPoint, exclude uint16) (uint16, bool) {
	weights := make([]float64, 0, len(points))
	candidates := make([]*model.ControlPoint, 0, len(points))
	sum := 0.0
	for _, cp := range points {
		if cp.ID == exclude {
			continue
		}
		w := g.weight(cp)
		weights = append(weights, w)
		candidates = append(candidates, cp)
		sum += w
	}
	if len(candidates) == 0 {
		return 0, false
	}
	r := g.rng.Float64() * sum
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return candidates[i].ID, true
		}
	}
	return candidates[len(candidates)-1].ID, true
}

// Run schedules recurring generation rounds on sch, each round sampling a
// Poisson count of arrivals at every entry/exit point and handing each new
// vehicle to eng.RequestToEnter, until horizon is reached.
func (g *Generator) Run(sch *engine.Scheduler, eng *engine.Engine, horizon float64) {
	points := g.net.EntryExitPoints()
	if len(points) < 2 {
		return
	}
	var round func()
	round = func() {
		if sch.Now() >= horizon {
			return
		}
		for _, origin := range points {
			n := g.poisson(g.cfg.LambdaPerEntry * g.cfg.Tick)
			for i := 0; i < n; i++ {
				dest, ok := g.chooseDestination(points, origin.ID)
				if !ok {
					continue
				}
				g.serial++
				v := model.NewVehicle(fmt.Sprintf("AGV-%04d", g.serial), g.cfg.Speed, g.cfg.CapacityNeeded, []uint16{origin.ID, dest})
				eng.RequestToEnter(v, origin.ID)
			}
		}
		sch.Schedule(g.cfg.Tick, round)
	}
	sch.Schedule(0, round)
}
