package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeID is a content-addressed identifier for graph nodes.
type NodeID string

// ZeroID is the empty node identifier.
const ZeroID NodeID = ""

// NewNodeID derives a stable identifier from a node's source path,
// e.g. "defpart/Boton_1" or "place/Boton_1".
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	return NodeID(hex.EncodeToString(sum[:]))
}

// Short returns the first 12 hex characters of the ID for log and error messages.
func (id NodeID) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

// IsZero reports whether id is the empty identifier.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// NodeKind enumerates the types of nodes in the layout graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // solid part (box, cylinder)
	NodeTransform                 // spatial placement (place)
	NodeGroup                     // logical grouping (assembly)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the layout graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
