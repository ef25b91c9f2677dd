package shelf

// A Gate limits concurrency. At most n goroutines may be between Enter and
// Leave at a time; further callers block in Enter until someone leaves.
// It holds no exclusive lock, so one stuck entrant never blocks the rest.
type Gate chan struct{}

// NewGate returns a Gate admitting at most n entries at a time.
func NewGate(n int) Gate {
	return Gate(make(chan struct{}, n))
}

// Enter blocks until fewer than n goroutines are inside the gate.
func (g Gate) Enter() {
	g <- struct{}{}
}

// Leave exits the gate. Every Enter must be balanced by a Leave, though not
// necessarily from the same goroutine.
func (g Gate) Leave() {
	<-g
}
