package domain

import (
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// Materialize produces one concrete output document: an independent deep
// copy of the merged base with every choice of the assignment applied.
// Intermediate sections are created if a choice path does not exist yet;
// normally the merge phase already visited the containing sections.
//
// The merged base is never mutated, so Materialize is safe to call
// concurrently for different assignments over the same base.
func Materialize(mergedBase m.Document, assignment m.Assignment) m.Document {
	out := mergedBase.DeepCopy()

	for _, choice := range assignment {
		out.Set(choice.Path, choice.Value)
	}

	return out
}
