// Profiling:
// go build ./profile/jobs
// go tool pprof -http=":8000" -nodefraction=0.001 ./jobs cpu.pprof

package main

import (
	"sync/atomic"

	"github.com/edwinsyarief/katamari/jobs"
	"github.com/pkg/profile"
)

func main() {
	rounds := 20
	count := jobs.PoolSize * 2
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, count)
	p.Stop()
}

func run(rounds, count int) {
	s := jobs.NewSystem()
	defer s.Close()

	var total atomic.Int64
	for range rounds {
		for i := 0; i < count; i++ {
			s.Schedule(s.Create(func() { total.Add(1) }))
		}
		s.WaitAll()
	}
}
