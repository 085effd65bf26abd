package sim

// Highway is the road and its two independent direction pools.
type Highway struct {
	HighwayConfig
	Incoming *Pool
	Outgoing *Pool
}

// NewHighway creates an empty highway.
func NewHighway(cfg HighwayConfig) *Highway {
	return &Highway{
		HighwayConfig: cfg,
		Incoming:      NewPool(Incoming),
		Outgoing:      NewPool(Outgoing),
	}
}

// Pool returns the pool of a direction.
func (h *Highway) Pool(dir Direction) *Pool {
	if dir == Incoming {
		return h.Incoming
	}
	return h.Outgoing
}

// Len returns the number of vehicles on the highway.
func (h *Highway) Len() int {
	return h.Incoming.Len() + h.Outgoing.Len()
}
