package rule

import (
	"errors"
	"math/big"
)

// ErrInvalidInterval indicates an interval that cannot be mapped, such as
// [+Inf, +Inf].
var ErrInvalidInterval = errors.New("rule: interval has equal infinite endpoints")

// Node is a quadrature abscissa and its weight.
type Node struct {
	X *big.Float
	W *big.Float
}

// Clone returns a deep copy of nodes. The copies keep the precision of the
// originals.
func Clone(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Node{
			X: new(big.Float).Copy(n.X),
			W: new(big.Float).Copy(n.W),
		}
	}
	return out
}
