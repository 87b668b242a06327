package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gridpatch.dev/pkg/gridpatch/internal/adapter"
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

func mustParse(t *testing.T, src string) m.Document {
	t.Helper()

	doc, err := adapter.NewYAMLCodec().Parse([]byte(src))
	require.NoError(t, err)

	return doc
}

func mustSerialize(t *testing.T, doc m.Document) string {
	t.Helper()

	data, err := adapter.NewYAMLCodec().Serialize(doc)
	require.NoError(t, err)

	return string(data)
}

func TestMerge_PlainOverridesAndInserts(t *testing.T) {
	base := mustParse(t, `
model:
  layers: [128, 64, 32]
  learning_rate: 0.01
untouched: keep
`)
	patch := mustParse(t, `
model:
  learning_rate: 0.1
  dropout: 0.3
extra:
  flag: true
`)

	axes, err := NewMerger(":grid").Merge(base, patch)
	require.NoError(t, err)
	require.Empty(t, axes)

	rate, ok := base.Get(m.Path{"model", "learning_rate"})
	require.True(t, ok)
	require.Equal(t, "0.1", rate.Value)

	dropout, ok := base.Get(m.Path{"model", "dropout"})
	require.True(t, ok)
	require.Equal(t, "0.3", dropout.Value)

	flag, ok := base.Get(m.Path{"extra", "flag"})
	require.True(t, ok)
	require.Equal(t, "true", flag.Value)

	// Base keys absent from the patch are untouched.
	layers, ok := base.Get(m.Path{"model", "layers"})
	require.True(t, ok)
	require.Equal(t, m.KindScalarList, m.KindOf(layers))

	kept, ok := base.Get(m.Path{"untouched"})
	require.True(t, ok)
	require.Equal(t, "keep", kept.Value)
}

func TestMerge_CollectsGridAxesInFirstSeenOrder(t *testing.T) {
	base := mustParse(t, "model:\n  learning_rate: 0.01\n")
	patch := mustParse(t, `
model:
  learning_rate:grid: [0.001, 0.01, 0.1]
  layers:grid:
    - [128, 64, 32]
    - [256, 128, 64]
data:
  batch:grid: [16, 32]
`)

	axes, err := NewMerger(":grid").Merge(base, patch)
	require.NoError(t, err)
	require.Len(t, axes, 3)

	require.Equal(t, "model.learning_rate", axes[0].Path.Dotted())
	require.Len(t, axes[0].Candidates, 3)
	require.Equal(t, "model.layers", axes[1].Path.Dotted())
	require.Len(t, axes[1].Candidates, 2)
	require.Equal(t, "data.batch", axes[2].Path.Dotted())
	require.Len(t, axes[2].Candidates, 2)
}

func TestMerge_GridKeysAreNotWrittenIntoBase(t *testing.T) {
	base := mustParse(t, "model:\n  learning_rate: 0.01\n")
	patch := mustParse(t, "model:\n  learning_rate:grid: [0.001, 0.1]\n  batch:grid: [1, 2]\n")

	_, err := NewMerger(":grid").Merge(base, patch)
	require.NoError(t, err)

	out := mustSerialize(t, base)
	require.NotContains(t, out, ":grid")

	// The deferred axis value is applied at expansion time, not merge time.
	rate, ok := base.Get(m.Path{"model", "learning_rate"})
	require.True(t, ok)
	require.Equal(t, "0.01", rate.Value)

	_, ok = base.Get(m.Path{"model", "batch"})
	require.False(t, ok)
}

func TestMerge_PreservesBaseCommentsOnOverride(t *testing.T) {
	base := mustParse(t, "model:\n  rate: 0.01 # tuned by hand\n")
	patch := mustParse(t, "model:\n  rate: 0.5\n")

	_, err := NewMerger(":grid").Merge(base, patch)
	require.NoError(t, err)

	require.Contains(t, mustSerialize(t, base), "# tuned by hand")
}

func TestMerge_GridValueErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  error
	}{
		{
			name:  "not a sequence",
			patch: "model:\n  rate:grid: 0.01\n",
			want:  ErrMalformedGridValue,
		},
		{
			name:  "empty candidate list",
			patch: "model:\n  rate:grid: []\n",
			want:  ErrEmptyGridAxis,
		},
		{
			name:  "candidate nested too deep",
			patch: "model:\n  rate:grid:\n    - [[1, 2], [3]]\n",
			want:  ErrMalformedGridValue,
		},
		{
			name:  "candidate is a mapping",
			patch: "model:\n  rate:grid:\n    - {a: 1}\n",
			want:  ErrMalformedGridValue,
		},
		{
			name:  "marker without key",
			patch: "model:\n  :grid: [1]\n",
			want:  ErrMalformedGridValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mustParse(t, "model: {}\n")
			patch := mustParse(t, tt.patch)

			_, err := NewMerger(":grid").Merge(base, patch)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMerge_ErrorNamesTheOffendingKeyPath(t *testing.T) {
	base := mustParse(t, "model: {}\n")
	patch := mustParse(t, "model:\n  deep:\n    rate:grid: []\n")

	_, err := NewMerger(":grid").Merge(base, patch)
	require.ErrorIs(t, err, ErrEmptyGridAxis)
	require.ErrorContains(t, err, "model.deep.rate")
}

func TestMerge_DuplicateGridAxisIsRejected(t *testing.T) {
	// The codec rejects duplicate mapping keys, so build the patch section
	// by hand to simulate two declarations of the same axis.
	patch := m.NewDocument()
	section := patch.Mapping()
	candidates := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!int", Value: "1"},
	}}
	section.Content = append(section.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "rate:grid"}, candidates,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "rate:grid"}, candidates,
	)

	base := mustParse(t, "")

	_, err := NewMerger(":grid").Merge(base, patch)
	require.ErrorIs(t, err, ErrDuplicateGridAxis)
}

func TestMerge_CustomMarker(t *testing.T) {
	base := mustParse(t, "model: {}\n")
	patch := mustParse(t, "model:\n  rate__grid: [1, 2]\n")

	axes, err := NewMerger("__grid").Merge(base, patch)
	require.NoError(t, err)
	require.Len(t, axes, 1)
	require.Equal(t, "model.rate", axes[0].Path.Dotted())
}

func TestMerge_PatchSectionOverScalarWins(t *testing.T) {
	base := mustParse(t, "model: 42\n")
	patch := mustParse(t, "model:\n  rate: 0.1\n")

	_, err := NewMerger(":grid").Merge(base, patch)
	require.NoError(t, err)

	rate, ok := base.Get(m.Path{"model", "rate"})
	require.True(t, ok)
	require.Equal(t, "0.1", rate.Value)
}

func TestExtractGrids_StripsMarkerInPlace(t *testing.T) {
	doc := mustParse(t, `
model:
  layers: [128, 64]
  learning_rate:grid: [0.001, 0.01] # sweep
data:
  batch_size:grid: [16, 32, 64]
`)

	axes, err := NewMerger(":grid").ExtractGrids(doc)
	require.NoError(t, err)
	require.Len(t, axes, 2)
	require.Equal(t, "model.learning_rate", axes[0].Path.Dotted())
	require.Equal(t, "data.batch_size", axes[1].Path.Dotted())

	out := mustSerialize(t, doc)
	require.NotContains(t, out, ":grid")
	require.Contains(t, out, "learning_rate:")
	require.Contains(t, out, "# sweep")
}

func TestExtractGrids_MarkedKeyReplacesPlainSibling(t *testing.T) {
	doc := mustParse(t, `
model:
  rate: 0.01
  rate:grid: [0.1, 0.2]
  other: 1
`)

	axes, err := NewMerger(":grid").ExtractGrids(doc)
	require.NoError(t, err)
	require.Len(t, axes, 1)

	section, ok := doc.Get(m.Path{"model"})
	require.True(t, ok)

	var keys []string
	for _, entry := range m.MapEntries(section) {
		keys = append(keys, entry.Key.Value)
	}

	require.Equal(t, []string{"rate", "other"}, keys)
}

func TestExtractGrids_NoMarkersMeansNoAxes(t *testing.T) {
	doc := mustParse(t, "model:\n  rate: 0.01\n")
	before := mustSerialize(t, doc)

	axes, err := NewMerger(":grid").ExtractGrids(doc)
	require.NoError(t, err)
	require.Empty(t, axes)
	require.Equal(t, before, mustSerialize(t, doc))
}
