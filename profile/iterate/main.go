// Profiling:
// go build ./profile/iterate
// go tool pprof -http=":8000" -nodefraction=0.001 ./iterate cpu.pprof

package main

import (
	"github.com/edwinsyarief/katamari"
	"github.com/pkg/profile"
)

type comp1 struct {
	V, W int64
}

type comp2 struct {
	V, W int64
}

type comp3 struct {
	V, W int64
}

type comp4 struct {
	V, W int64
}

func main() {
	iters := 10000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(iters, entities)
	p.Stop()
}

func run(iters, numEntities int) {
	w := katamari.NewWorld()
	katamari.NewBuilder4[comp1, comp2, comp3, comp4](w).NewEntities(numEntities)

	for range iters {
		katamari.Each4(w, func(c1 *comp1, c2 *comp2, c3 *comp3, c4 *comp4) {
			c1.V += c2.V + c3.V + c4.V
			c1.W += c2.W + c3.W + c4.W
		})
	}
}
