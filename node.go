package muscle

import (
	"go.uber.org/zap"
)

// Node evaluates a muscle repeatedly, keeping the state a host keeps
// between evaluations: the rest length and the last valid result.
// A Node is not safe for concurrent use.
type Node struct {
	restLength float64
	last       *Result
	log        *zap.Logger
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithLogger sets the logger used to report evaluations.
func WithLogger(log *zap.Logger) NodeOption {
	return func(n *Node) {
		n.log = log
	}
}

// WithRestLength seeds the stored rest length, allowing the first
// evaluation to run in volume mode.
func WithRestLength(length float64) NodeOption {
	return func(n *Node) {
		n.restLength = length
	}
}

// NewNode returns a Node with no stored rest length.
func NewNode(opts ...NodeOption) *Node {
	n := &Node{log: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = zap.NewNop()
	}
	return n
}

// Evaluate computes the muscle described by p using the stored rest length
// in place of p.RestLength. While volume mode is off the stored rest length
// follows the live backbone length and is frozen once volume mode is turned
// on. On failure the last valid result is returned alongside the error.
func (n *Node) Evaluate(p Params) (*Result, error) {
	p.RestLength = n.restLength
	res, err := Compute(p)
	if err != nil {
		n.log.Warn("muscle evaluation failed, keeping previous surface",
			zap.Bool("volume", p.CalculateVolume),
			zap.Float64("restLength", n.restLength),
			zap.Error(err),
		)
		return n.last, err
	}
	if !p.CalculateVolume {
		n.restLength = res.Length
	}
	n.last = res
	n.log.Debug("muscle evaluated",
		zap.Bool("volume", p.CalculateVolume),
		zap.Float64("length", res.Length),
		zap.Float64("restLength", res.RestLength),
		zap.Float64("scale", res.Scale),
	)
	return res, nil
}

// RestLength returns the stored rest length.
func (n *Node) RestLength() float64 { return n.restLength }

// SetRestLength overrides the stored rest length.
func (n *Node) SetRestLength(length float64) { n.restLength = length }

// Last returns the last valid result or nil if no evaluation succeeded.
func (n *Node) Last() *Result { return n.last }
