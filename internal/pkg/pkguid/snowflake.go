package pkguid

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/bwmarrin/snowflake"
)

// snowflakeEpoch is Wed Jan 01 2025 00:00:00.000 UTC.
const snowflakeEpoch int64 = 1735689600000

const maxNodeID = 1<<10 - 1

// Snowflake generates numeric, time-ordered IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func randomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator.
//
// A negative nodeID picks a random node so that several processes started
// without explicit configuration are unlikely to collide.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		id, err := randomNodeID()
		if err != nil {
			return nil, err
		}
		nodeID = id
	}

	snowflake.Epoch = snowflakeEpoch

	node, err := snowflake.NewNode(nodeID & maxNodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
