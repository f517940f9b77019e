// Package ecsforge: query mechanisms for filtering archetypes by component mask.
package ecsforge

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/mask"
)

// Query is a composable query-tree builder. And/Or/Not each
// accept a mix of Component, []Component, and nested QueryNode values.
type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

// QueryNode is one evaluable node in a query tree: does this archetype
// match, given the World that owns its schema bits.
type QueryNode interface {
	Evaluate(a *archetype, w *World) bool
}

// QueryOperation names a query tree node's boolean combinator.
type QueryOperation int

const (
	OpAnd QueryOperation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         QueryOperation
	children   []QueryNode
	components []Component
}

type leafNode struct {
	components []Component
}

type query struct {
	root QueryNode
}

// NewQuery starts a new, empty query tree.
func NewQuery() Query {
	return &query{}
}

func newCompositeNode(op QueryOperation, components []Component) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

func newLeafNode(components []Component) *leafNode {
	return &leafNode{components: components}
}

func (n *compositeNode) Evaluate(a *archetype, w *World) bool {
	var nodeMask mask.Mask
	for _, comp := range n.components {
		nodeMask.Mark(w.RowIndexFor(comp))
	}
	archeMask := a.table.(mask.Maskable).Mask()

	switch n.op {
	case OpAnd:
		if !archeMask.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(a, w) {
				return false
			}
		}
		return true
	case OpOr:
		if archeMask.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(a, w) {
				return true
			}
		}
		return false
	case OpNot:
		if len(n.children) == 0 {
			return archeMask.ContainsNone(nodeMask)
		}
		if len(n.components) > 0 && !archeMask.ContainsNone(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if child.Evaluate(a, w) {
				return false
			}
		}
		return true
	}
	return false
}

func (n *leafNode) Evaluate(a *archetype, w *World) bool {
	var nodeMask mask.Mask
	for _, comp := range n.components {
		nodeMask.Mark(w.RowIndexFor(comp))
	}
	archeMask := a.table.(mask.Maskable).Mask()
	return archeMask.ContainsAll(nodeMask)
}

func (q *query) And(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) validateQueryItems(items ...interface{}) error {
	for _, item := range items {
		switch item.(type) {
		case Component, []Component, QueryNode, Query:
			continue
		default:
			return fmt.Errorf("invalid query item type: %T. Only Component, []Component, or QueryNode are allowed", item)
		}
	}
	return nil
}

func (q *query) processItems(items ...interface{}) ([]Component, []QueryNode) {
	if err := q.validateQueryItems(items...); err != nil {
		panic(bark.AddTrace(err))
	}
	components := make([]Component, 0)
	children := make([]QueryNode, 0)
	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}
	return components, children
}

func (q *query) Evaluate(a *archetype, w *World) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(a, w)
}
