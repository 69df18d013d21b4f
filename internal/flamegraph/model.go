// Package flamegraph builds a JSON flame-graph tree from folded stacks,
// for viewers that consume a hierarchy instead of collapsed text.
package flamegraph

// Node is one frame in the flame graph tree.
type Node struct {
	Name     string  `json:"name"`
	Value    int64   `json:"value"`
	Children []*Node `json:"children,omitempty"`

	// Internal use only, not serialized
	childrenMap map[string]int `json:"-"`
}

// NewNode creates a flame graph node.
func NewNode(name string, value int64) *Node {
	return &Node{
		Name:        name,
		Value:       value,
		Children:    make([]*Node, 0),
		childrenMap: make(map[string]int),
	}
}

// Child returns the child with the given name, creating it if needed.
func (n *Node) Child(name string) *Node {
	if idx, ok := n.childrenMap[name]; ok {
		return n.Children[idx]
	}
	child := NewNode(name, 0)
	n.childrenMap[name] = len(n.Children)
	n.Children = append(n.Children, child)
	return child
}

// FlameGraph is the complete tree plus its summary fields.
type FlameGraph struct {
	Root         *Node `json:"root"`
	TotalSamples int64 `json:"totalSamples"`
	MaxDepth     int   `json:"maxDepth,omitempty"`
}

// NewFlameGraph creates a flame graph with an empty root node.
func NewFlameGraph() *FlameGraph {
	return &FlameGraph{
		Root: NewNode("root", 0),
	}
}

// Cleanup drops the internal child indexes and prunes nodes whose value
// falls below minPercent of the total.
func (fg *FlameGraph) Cleanup(minPercent float64) {
	if fg.Root == nil {
		return
	}

	threshold := int64(float64(fg.TotalSamples) * minPercent / 100.0)
	fg.cleanupNode(fg.Root, threshold)
}

func (fg *FlameGraph) cleanupNode(node *Node, threshold int64) {
	node.childrenMap = nil

	if len(node.Children) == 0 {
		node.Children = nil
		return
	}

	filtered := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Value >= threshold {
			fg.cleanupNode(child, threshold)
			filtered = append(filtered, child)
		}
	}

	if len(filtered) == 0 {
		node.Children = nil
	} else {
		node.Children = filtered
	}
}

// CalculateMaxDepth computes and stores the depth of the deepest leaf.
func (fg *FlameGraph) CalculateMaxDepth() int {
	if fg.Root == nil {
		return 0
	}
	fg.MaxDepth = fg.calculateDepth(fg.Root, 0)
	return fg.MaxDepth
}

func (fg *FlameGraph) calculateDepth(node *Node, currentDepth int) int {
	if len(node.Children) == 0 {
		return currentDepth
	}

	maxChildDepth := currentDepth
	for _, child := range node.Children {
		childDepth := fg.calculateDepth(child, currentDepth+1)
		if childDepth > maxChildDepth {
			maxChildDepth = childDepth
		}
	}
	return maxChildDepth
}
