package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind classifies the shape of a document value. The set is closed so value
// dispatch can be an exhaustive switch: anything outside the shapes the tool
// understands falls into KindOther and is passed through opaquely.
type Kind int

// Available Kind values.
const (
	// KindScalar is a single string, number, boolean or null.
	KindScalar Kind = iota
	// KindScalarList is a sequence whose elements are all scalars.
	KindScalarList
	// KindListOfLists is a sequence containing at least one nested sequence.
	KindListOfLists
	// KindSection is a mapping of names to values.
	KindSection
	// KindOther covers shapes the tool treats as opaque (e.g. a sequence of
	// mappings). They round-trip unchanged but cannot act as grid candidates.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindScalarList:
		return "scalar list"
	case KindListOfLists:
		return "list of lists"
	case KindSection:
		return "section"
	case KindOther:
		return "other"
	}

	return "unknown"
}

// Resolve follows alias nodes to their anchor target.
func Resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

// KindOf classifies a node. Alias nodes are resolved first.
func KindOf(n *yaml.Node) Kind {
	n = Resolve(n)
	if n == nil {
		return KindOther
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return KindScalar
	case yaml.MappingNode:
		return KindSection
	case yaml.SequenceNode:
		kind := KindScalarList

		for _, elem := range n.Content {
			switch Resolve(elem).Kind {
			case yaml.ScalarNode:
			case yaml.SequenceNode:
				kind = KindListOfLists
			default:
				return KindOther
			}
		}

		return kind
	}

	return KindOther
}

// Document is an ordered tree of named sections backed by a yaml.v3 document
// node. Key order, comments and styles are owned by the codec and survive
// every mutation the tool performs.
type Document struct {
	root *yaml.Node
}

// NewDocument returns an empty document with an empty root section.
func NewDocument() Document {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	return Document{root: &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}}
}

// FromRoot wraps a parsed yaml document node. A zero node (empty input)
// yields an empty document; any other non-mapping root is rejected because a
// config document must be a tree of sections.
func FromRoot(root *yaml.Node) (Document, error) {
	if root == nil || root.Kind == 0 {
		return NewDocument(), nil
	}

	if root.Kind != yaml.DocumentNode {
		return Document{}, fmt.Errorf("unexpected root node kind %d", root.Kind)
	}

	if len(root.Content) == 0 {
		doc := NewDocument()
		doc.root.HeadComment = root.HeadComment
		doc.root.FootComment = root.FootComment

		return doc, nil
	}

	if Resolve(root.Content[0]).Kind != yaml.MappingNode {
		return Document{}, fmt.Errorf("top-level value must be a mapping")
	}

	return Document{root: root}, nil
}

// Root returns the underlying document node for serialization.
func (d Document) Root() *yaml.Node {
	return d.root
}

// Mapping returns the root section.
func (d Document) Mapping() *yaml.Node {
	return Resolve(d.root.Content[0])
}

// DeepCopy returns an independent copy sharing no nodes with the receiver.
func (d Document) DeepCopy() Document {
	return Document{root: DeepCopyNode(d.root)}
}

// Get returns the node at path, resolving aliases along the way.
func (d Document) Get(p Path) (*yaml.Node, bool) {
	current := d.Mapping()

	for i, segment := range p {
		value, ok := MapGet(current, segment)
		if !ok {
			return nil, false
		}

		value = Resolve(value)
		if i == len(p)-1 {
			return value, true
		}

		if value.Kind != yaml.MappingNode {
			return nil, false
		}

		current = value
	}

	return current, true
}

// Set stores a copy of value at path, creating intermediate sections as
// needed. Existing value nodes are overwritten in place so their comments
// are preserved.
func (d Document) Set(p Path, value *yaml.Node) {
	if len(p) == 0 {
		return
	}

	current := d.Mapping()
	for _, segment := range p[:len(p)-1] {
		current = EnsureSection(current, segment)
	}

	MapSet(current, p.Leaf(), value)
}

// Entry is a single key/value pair of a section, in document order.
type Entry struct {
	Key   *yaml.Node
	Value *yaml.Node
}

// MapEntries returns the entries of a section in insertion order.
func MapEntries(section *yaml.Node) []Entry {
	section = Resolve(section)

	entries := make([]Entry, 0, len(section.Content)/2)
	for i := 0; i+1 < len(section.Content); i += 2 {
		entries = append(entries, Entry{Key: section.Content[i], Value: section.Content[i+1]})
	}

	return entries
}

// MapGet looks up a key in a section.
func MapGet(section *yaml.Node, key string) (*yaml.Node, bool) {
	section = Resolve(section)

	for i := 0; i+1 < len(section.Content); i += 2 {
		if section.Content[i].Value == key {
			return section.Content[i+1], true
		}
	}

	return nil, false
}

// MapSet sets key to a copy of value. An existing value node is overwritten
// in place, keeping its comments; a new key is appended at the end of the
// section.
func MapSet(section *yaml.Node, key string, value *yaml.Node) {
	section = Resolve(section)

	for i := 0; i+1 < len(section.Content); i += 2 {
		if section.Content[i].Value == key {
			ReplaceValue(section.Content[i+1], value)
			return
		}
	}

	section.Content = append(section.Content, scalarKey(key), DeepCopyNode(value))
}

// EnsureSection returns the nested section under key, creating it (appended
// at the end) if absent. A non-section value already stored under key is
// overwritten by an empty section.
func EnsureSection(section *yaml.Node, key string) *yaml.Node {
	section = Resolve(section)

	if existing, ok := MapGet(section, key); ok {
		existing = Resolve(existing)
		if existing.Kind == yaml.MappingNode {
			return existing
		}

		head, line, foot := existing.HeadComment, existing.LineComment, existing.FootComment
		*existing = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		existing.HeadComment, existing.LineComment, existing.FootComment = head, line, foot

		return existing
	}

	sub := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	section.Content = append(section.Content, scalarKey(key), sub)

	return sub
}

// ReplaceValue overwrites dst with a copy of src while keeping dst's
// comments, so an override does not strip the base document's annotations.
func ReplaceValue(dst, src *yaml.Node) {
	head, line, foot := dst.HeadComment, dst.LineComment, dst.FootComment
	*dst = *DeepCopyNode(src)
	dst.HeadComment, dst.LineComment, dst.FootComment = head, line, foot
}

// DeepCopyNode copies a node tree. Anchor/alias links within the copied tree
// are remapped onto the copies so the result shares nothing with the input.
func DeepCopyNode(n *yaml.Node) *yaml.Node {
	return copyNode(n, make(map[*yaml.Node]*yaml.Node))
}

func copyNode(n *yaml.Node, seen map[*yaml.Node]*yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}

	if c, ok := seen[n]; ok {
		return c
	}

	c := *n
	seen[n] = &c

	if n.Alias != nil {
		c.Alias = copyNode(n.Alias, seen)
	}

	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = copyNode(child, seen)
		}
	}

	return &c
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
