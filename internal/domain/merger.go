// Package domain contains the core patch-merge and grid-expansion logic.
package domain

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// Merger applies a patch document to a base document and collects grid axes.
type Merger interface {
	// Merge walks patch against base, applying every plain override in place
	// and registering every grid-marked key as an axis. Grid keys are never
	// written into base; their values are applied later, once per
	// combination. Returns the axes in first-seen order.
	Merge(base, patch m.Document) ([]m.GridAxis, error)

	// ExtractGrids finds grid-marked keys inside a single document, strips
	// the marker from the key in place (keeping comments and position) and
	// returns the axes. Used when the grids live inline in the base document
	// instead of a separate patch.
	ExtractGrids(doc m.Document) ([]m.GridAxis, error)
}

type merger struct {
	marker string
}

// NewMerger creates a Merger recognizing keys that end in marker, e.g.
// "learning_rate:grid" for marker ":grid".
func NewMerger(marker string) Merger {
	return &merger{marker: marker}
}

func (mg *merger) Merge(base, patch m.Document) ([]m.GridAxis, error) {
	axes, err := mg.mergeSection(base.Mapping(), patch.Mapping(), nil, nil)
	if err != nil {
		return nil, err
	}

	slog.Debug("merged patch", "axes", len(axes))

	return axes, nil
}

// mergeSection recursively merges one patch section into the matching base
// section. The axes accumulator is passed explicitly and returned so the
// merge stays free of hidden shared state.
func (mg *merger) mergeSection(base, patch *yaml.Node, path m.Path, axes []m.GridAxis) ([]m.GridAxis, error) {
	for _, entry := range m.MapEntries(patch) {
		key := entry.Key.Value
		value := m.Resolve(entry.Value)

		if stripped, marked := strings.CutSuffix(key, mg.marker); marked {
			axis, err := mg.newAxis(path, stripped, value, axes)
			if err != nil {
				return nil, err
			}

			axes = append(axes, axis)

			continue
		}

		switch m.KindOf(value) {
		case m.KindSection:
			sub := m.EnsureSection(base, key)

			var err error

			axes, err = mg.mergeSection(sub, value, path.Child(key), axes)
			if err != nil {
				return nil, err
			}
		case m.KindScalar, m.KindScalarList, m.KindListOfLists, m.KindOther:
			m.MapSet(base, key, value)
		}
	}

	return axes, nil
}

func (mg *merger) ExtractGrids(doc m.Document) ([]m.GridAxis, error) {
	axes, err := mg.extractSection(doc.Mapping(), nil, nil)
	if err != nil {
		return nil, err
	}

	slog.Debug("extracted grids", "axes", len(axes))

	return axes, nil
}

func (mg *merger) extractSection(section *yaml.Node, path m.Path, axes []m.GridAxis) ([]m.GridAxis, error) {
	section = m.Resolve(section)

	for i := 0; i+1 < len(section.Content); i += 2 {
		keyNode := section.Content[i]
		value := m.Resolve(section.Content[i+1])

		stripped, marked := strings.CutSuffix(keyNode.Value, mg.marker)
		if !marked {
			if value.Kind == yaml.MappingNode {
				var err error

				axes, err = mg.extractSection(value, path.Child(keyNode.Value), axes)
				if err != nil {
					return nil, err
				}
			}

			continue
		}

		axis, err := mg.newAxis(path, stripped, value, axes)
		if err != nil {
			return nil, err
		}

		axes = append(axes, axis)

		// The marked key takes over the plain key's slot: drop a plain
		// sibling with the stripped name, then rename the key in place so
		// its comments and position survive.
		if removed := removePair(section, stripped); removed >= 0 && removed < i {
			i -= 2
		}

		keyNode.Value = stripped
	}

	return axes, nil
}

// newAxis validates a grid value and builds the axis for path/key.
func (mg *merger) newAxis(path m.Path, key string, value *yaml.Node, axes []m.GridAxis) (m.GridAxis, error) {
	axisPath := path.Child(key)

	if key == "" {
		return m.GridAxis{}, fmt.Errorf("%s: %w: missing key before %q marker", path.Dotted(), ErrMalformedGridValue, mg.marker)
	}

	if value.Kind != yaml.SequenceNode {
		return m.GridAxis{}, fmt.Errorf("%s%s: %w: got %s", axisPath.Dotted(), mg.marker, ErrMalformedGridValue, m.KindOf(value))
	}

	if len(value.Content) == 0 {
		return m.GridAxis{}, fmt.Errorf("%s%s: %w", axisPath.Dotted(), mg.marker, ErrEmptyGridAxis)
	}

	candidates := make([]*yaml.Node, 0, len(value.Content))

	for idx, candidate := range value.Content {
		switch m.KindOf(candidate) {
		case m.KindScalar, m.KindScalarList:
			candidates = append(candidates, m.Resolve(candidate))
		case m.KindListOfLists, m.KindSection, m.KindOther:
			return m.GridAxis{}, fmt.Errorf("%s%s[%d]: %w: candidate must be a scalar or a list of scalars",
				axisPath.Dotted(), mg.marker, idx, ErrMalformedGridValue)
		}
	}

	for _, existing := range axes {
		if existing.Path.Equal(axisPath) {
			return m.GridAxis{}, fmt.Errorf("%s: %w", axisPath.Dotted(), ErrDuplicateGridAxis)
		}
	}

	return m.GridAxis{Path: axisPath, Candidates: candidates}, nil
}

// removePair deletes the key/value pair for key from a section, returning
// the content index it occupied or -1.
func removePair(section *yaml.Node, key string) int {
	for i := 0; i+1 < len(section.Content); i += 2 {
		if section.Content[i].Value == key {
			section.Content = append(section.Content[:i], section.Content[i+2:]...)
			return i
		}
	}

	return -1
}
