package paginate

// Block is one indivisible unit of content. ID is the block's position in
// the flattened sequence and never changes after Flatten.
type Block struct {
	ID   int
	HTML string
}

// Node is a content tree element: either a leaf carrying markup or a group
// whose children are spliced inline when flattened.
type Node struct {
	html     string
	children []Node
	group    bool
}

// Leaf returns a node that becomes exactly one block.
func Leaf(html string) Node {
	return Node{html: html}
}

// Group returns a node whose children are flattened in order.
func Group(children ...Node) Node {
	return Node{children: children, group: true}
}

// IsGroup reports whether n is a grouping wrapper.
func (n Node) IsGroup() bool { return n.group }

// HTML returns the markup of a leaf. Groups return "".
func (n Node) HTML() string { return n.html }

// Children returns the children of a group. Leaves return nil.
func (n Node) Children() []Node { return n.children }

// Flatten walks nodes depth-first and returns the leaves as blocks, in
// order, with positional IDs.
func Flatten(nodes []Node) []Block {
	var blocks []Block
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			if n.group {
				walk(n.children)
				continue
			}
			blocks = append(blocks, Block{ID: len(blocks), HTML: n.html})
		}
	}
	walk(nodes)
	return blocks
}

// sameBlocks reports whether a and b hold the same block IDs in the same order.
func sameBlocks(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
