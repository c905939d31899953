package ast

// Block is an ordered sequence of statement Nodes. It preserves insertion
// order, supports O(1) append at either end and O(1) pop from the tail, and
// iterates forward-only without mutating the underlying sequence
// (spec.md §3 "Blocks are ordered sequences of nodes"). It is implemented as
// a slice-backed ring, the same concrete-container style as
// internal/tunascript/parser.go's util.Stack[T] rather than container/list,
// since no example repo in the retrieval pack reaches for a third-party
// deque.
type Block struct {
	items []*Node
	head  int // logical index of the first element within items
}

// NewBlock returns an empty Block.
func NewBlock() *Block {
	return &Block{}
}

// Len returns the number of statements currently in the block.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items) - b.head
}

// PushBack appends n to the end of the block in O(1) amortized time.
func (b *Block) PushBack(n *Node) {
	b.items = append(b.items, n)
}

// PushFront prepends n to the start of the block. Amortized O(1): it uses
// spare head space when there is some, and otherwise rebuilds the backing
// slice with as much spare head space as the block has elements.
func (b *Block) PushFront(n *Node) {
	if b.head == 0 {
		spare := len(b.items) + 1
		newItems := make([]*Node, spare+len(b.items))
		copy(newItems[spare:], b.items)
		b.items = newItems
		b.head = spare
	}
	b.head--
	b.items[b.head] = n
}

// PopBack removes and returns the last statement in the block, or nil if
// empty.
func (b *Block) PopBack() *Node {
	if b.Len() == 0 {
		return nil
	}
	last := len(b.items) - 1
	n := b.items[last]
	b.items = b.items[:last]
	return n
}

// At returns the i'th statement in the block (0-indexed from the front).
func (b *Block) At(i int) *Node {
	return b.items[b.head+i]
}

// Slice returns the block's statements as a plain slice, in order. The
// returned slice aliases the block's storage and must not be mutated.
func (b *Block) Slice() []*Node {
	if b == nil {
		return nil
	}
	return b.items[b.head:]
}

// Each calls fn for every statement in order, stopping early if fn returns
// false. Iteration is non-destructive.
func (b *Block) Each(fn func(*Node) bool) {
	if b == nil {
		return
	}
	for _, n := range b.items[b.head:] {
		if !fn(n) {
			return
		}
	}
}
