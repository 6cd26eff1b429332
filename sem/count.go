package sem

import "sync"

// The single-threaded-mode count lives here rather than in internal/kernel,
// matching the reference layout where sem->count sits in the sem_t struct
// itself and the kernel-named lock only protects access to it. Every
// access is made while holding that lock (singleThreadedWait/Post), so
// this map needs no lock of its own beyond what guards the map structure.
var (
	countsMu sync.Mutex
	counts   = map[string]int32{}
)

func initCount(id string, v int32) {
	countsMu.Lock()
	counts[id] = v
	countsMu.Unlock()
}

func deleteCount(id string) {
	countsMu.Lock()
	delete(counts, id)
	countsMu.Unlock()
}

func getCount(id string) int32 {
	countsMu.Lock()
	defer countsMu.Unlock()
	return counts[id]
}

func incCount(id string) {
	countsMu.Lock()
	counts[id]++
	countsMu.Unlock()
}

func decCount(id string) {
	countsMu.Lock()
	counts[id]--
	countsMu.Unlock()
}
