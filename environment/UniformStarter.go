package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a set of
// per-feature intervals.
type UniformStarter struct {
	features int
	bounds   []r1.Interval
	rand     *distmv.Uniform
}

func NewUniformStarter(bounds []r1.Interval, seed uint64) *UniformStarter {
	source := rand.NewSource(seed)
	dist := distmv.NewUniform(bounds, source)

	return &UniformStarter{len(bounds), bounds, dist}
}

// Seed reseeds the starter so that the sequence of starting states it
// produces from this point on is reproducible.
func (u *UniformStarter) Seed(seed uint64) {
	u.rand = distmv.NewUniform(u.bounds, rand.NewSource(seed))
}

func (u *UniformStarter) Start() mat.Vector {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
