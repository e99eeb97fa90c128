package dom

// MutationKind identifies what changed on a node.
type MutationKind uint8

const (
	MutationText  MutationKind = iota // Text content replaced
	MutationHTML                      // Children replaced from markup
	MutationValue                     // Form value property set
	MutationAttr                      // Attribute set
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationText:
		return "text"
	case MutationHTML:
		return "html"
	case MutationValue:
		return "value"
	case MutationAttr:
		return "attr"
	default:
		return "unknown"
	}
}

// Mutation describes one in-place change to the tree.
type Mutation struct {
	Kind   MutationKind
	Target *Node
	Name   string // Attribute name, for MutationAttr
	Value  string
}

type observer struct {
	fn func(Mutation)
}

// Observe registers fn to receive every mutation made to n or its
// descendants. It returns a function that removes the observer.
func (n *Node) Observe(fn func(Mutation)) (remove func()) {
	o := &observer{fn: fn}
	n.observers = append(n.observers, o)
	return func() {
		for i, existing := range n.observers {
			if existing == o {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers m to observers on n and its ancestors.
func (n *Node) notify(m Mutation) {
	for p := n; p != nil; p = p.parent {
		for _, o := range p.observers {
			o.fn(m)
		}
	}
}
