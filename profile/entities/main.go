// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/katamari"
	"github.com/pkg/profile"
)

type position struct {
	X, Y int32
}

type velocity struct {
	X, Y int32
}

type comflabulation struct {
	Thingy float32
	Mingy  bool
	Dingy  int32
}

func main() {
	entities := 10_000_000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(entities)
	p.Stop()
}

func run(numEntities int) {
	w := katamari.NewWorld()
	pv := katamari.NewBuilder2[position, velocity](w)
	pvc := katamari.NewBuilder3[position, velocity, comflabulation](w)

	for i := 0; i < numEntities; i++ {
		var e katamari.Entity
		if i%2 == 0 {
			e = pvc.NewEntity()
		} else {
			e = pv.NewEntity()
		}
		katamari.SetComponent(w, e, position{X: int32(i)})
		katamari.SetComponent(w, e, velocity{X: 1, Y: 1})
	}

	katamari.Each2(w, func(p *position, v *velocity) {
		p.X += v.X
		p.Y += v.Y
	})
}
