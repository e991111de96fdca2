package catalog

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out unique, roughly time-ordered item IDs.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given node number (0-1023).
// Every process writing to the same store needs its own node number.
func NewIDGenerator(node int64) (*IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("creating id node %d: %w", node, err)
	}
	return &IDGenerator{node: n}, nil
}

// Next returns a new ID.
func (g *IDGenerator) Next() string {
	return g.node.Generate().String()
}
