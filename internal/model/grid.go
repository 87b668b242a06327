package model

import "gopkg.in/yaml.v3"

// GridAxis is a patch key marked for expansion: a path plus its ordered list
// of candidate values. Candidates are scalars or lists of scalars.
type GridAxis struct {
	Path       Path
	Candidates []*yaml.Node
}

// Choice selects one candidate value for one grid axis.
type Choice struct {
	Path  Path
	Value *yaml.Node
}

// Assignment is one concrete choice per grid axis, in axis (first-seen)
// order. It is the unit that produces one output document. An empty
// assignment is valid and corresponds to the single no-grid output.
type Assignment []Choice
