package domain

import (
	"gopkg.in/yaml.v3"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
	gp "gridpatch.dev/pkg/gridpatch/pkg"
)

// Combinations enumerates the Cartesian product over a set of grid axes as a
// lazy, finite, restartable sequence of assignments. Axes keep their
// first-seen order and the last axis varies fastest. Candidates that repeat
// literally are not deduplicated: the product reflects the patch as written.
type Combinations struct {
	axes []m.GridAxis
	odo  *gp.Odometer[*yaml.Node]
}

// NewCombinations builds the product over axes. With zero axes the sequence
// contains exactly one empty assignment, so a no-grid patch still produces
// one output.
func NewCombinations(axes []m.GridAxis) *Combinations {
	wheels := make([][]*yaml.Node, len(axes))
	for i, axis := range axes {
		wheels[i] = axis.Candidates
	}

	return &Combinations{axes: axes, odo: gp.NewOdometer(wheels)}
}

// Len returns the total number of assignments.
func (c *Combinations) Len() uint64 {
	return c.odo.Len()
}

// Next returns the next assignment, or (nil, false) when exhausted.
func (c *Combinations) Next() (m.Assignment, bool) {
	values, ok := c.odo.Next()
	if !ok {
		return nil, false
	}

	assignment := make(m.Assignment, len(c.axes))
	for i, axis := range c.axes {
		assignment[i] = m.Choice{Path: axis.Path, Value: values[i]}
	}

	return assignment, true
}

// Reset rewinds the sequence to the first assignment.
func (c *Combinations) Reset() {
	c.odo.Reset()
}

// All collects the remaining assignments in order.
func (c *Combinations) All() []m.Assignment {
	assignments := make([]m.Assignment, 0, c.Len())

	for {
		assignment, ok := c.Next()
		if !ok {
			return assignments
		}

		assignments = append(assignments, assignment)
	}
}
