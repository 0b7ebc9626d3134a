package network

// PacketType discriminates the payload carried by a Packet.
type PacketType string

const (
	PacketTask      PacketType = "Task"
	PacketHeartbeat PacketType = "Heartbeat"
)

// CentralLoadBalancerSrc is the literal Src used by packets the Central
// Load Balancer originates (they have no owning node).
const CentralLoadBalancerSrc = "CentralLoadBalancer"

// Packet is the envelope used for every inter-node transfer: forwarded
// tasks, heartbeats, and the Central Load Balancer's initial dispatch.
// Dest (and Src, for node-originated packets) are of the form
// "MalcolmNode:<name>".
type Packet struct {
	Data any
	Size int64
	Src  string
	Dest string
	Type PacketType
	// Attrs is reserved for out-of-band metadata; unused by the core.
	Attrs map[string]any
}

// Shaper throttles a node's outgoing packets to its configured egress
// bandwidth, admitting packets in offered order until the per-slice byte
// budget is exhausted.
type Shaper struct {
	// BandwidthBitsPerSec is the egress link capacity in bits/sec.
	BandwidthBitsPerSec int64

	utilization int64
}

// NewShaper returns a Shaper with the given bandwidth.
func NewShaper(bandwidthBitsPerSec int64) *Shaper {
	return &Shaper{BandwidthBitsPerSec: bandwidthBitsPerSec}
}

// Shape admits packets, in order, until the byte budget for a Δslice-ms
// time slice is exhausted. sent preserves offered order; throttled
// preserves offered order among the deferred remainder.
func (s *Shaper) Shape(deltaSliceMillis float64, packets []Packet) (sent, throttled []Packet) {
	limit := int64((float64(s.BandwidthBitsPerSec) / 8) * (deltaSliceMillis / 1000))

	var attempted int64
	for _, p := range packets {
		attempted += p.Size
	}
	s.utilization = 8 * attempted

	var admitted int64
	for _, p := range packets {
		if admitted+p.Size <= limit {
			sent = append(sent, p)
			admitted += p.Size
		} else {
			throttled = append(throttled, p)
		}
	}
	return sent, throttled
}

// Utilization returns the bits attempted (not necessarily admitted) during
// the most recent Shape call.
func (s *Shaper) Utilization() int64 {
	return s.utilization
}

// Availability returns BandwidthBitsPerSec minus the bits attempted in the
// most recent Shape call. The attempted bits are a per-tick total and are
// not converted to a per-second rate before the subtraction.
func (s *Shaper) Availability() int64 {
	return s.BandwidthBitsPerSec - s.utilization
}
