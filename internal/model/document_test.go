package model

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseDoc(t *testing.T, src string) Document {
	t.Helper()

	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &root))

	doc, err := FromRoot(&root)
	require.NoError(t, err)

	return doc
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func TestKindOf(t *testing.T) {
	doc := parseDoc(t, `
scalar: 42
list: [1, 2, 3]
lists:
  - [1, 2]
  - [3, 4]
section:
  key: value
weird:
  - name: a
`)

	tests := []struct {
		path string
		want Kind
	}{
		{path: "scalar", want: KindScalar},
		{path: "list", want: KindScalarList},
		{path: "lists", want: KindListOfLists},
		{path: "section", want: KindSection},
		{path: "weird", want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			node, ok := doc.Get(ParsePath(tt.path))
			require.True(t, ok)
			require.Equal(t, tt.want, KindOf(node))
		})
	}
}

func TestKindOf_EmptySequenceIsScalarList(t *testing.T) {
	doc := parseDoc(t, "empty: []")

	node, ok := doc.Get(Path{"empty"})
	require.True(t, ok)
	require.Equal(t, KindScalarList, KindOf(node))
}

func TestFromRoot_EmptyInputYieldsEmptyDocument(t *testing.T) {
	doc := parseDoc(t, "")

	require.Empty(t, MapEntries(doc.Mapping()))
}

func TestFromRoot_RejectsNonMappingRoot(t *testing.T) {
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("- 1\n- 2\n"), &root))

	_, err := FromRoot(&root)
	require.Error(t, err)
}

func TestDocument_GetMissingPath(t *testing.T) {
	doc := parseDoc(t, "model:\n  layers: [1, 2]\n")

	_, ok := doc.Get(Path{"model", "missing"})
	require.False(t, ok)

	_, ok = doc.Get(Path{"model", "layers", "deeper"})
	require.False(t, ok)
}

func TestDocument_SetCreatesIntermediateSections(t *testing.T) {
	doc := parseDoc(t, "existing: 1\n")

	doc.Set(Path{"a", "b", "c"}, scalar("deep"))

	node, ok := doc.Get(Path{"a", "b", "c"})
	require.True(t, ok)
	require.Equal(t, "deep", node.Value)

	// Existing keys stay first; new sections append at the end.
	entries := MapEntries(doc.Mapping())
	require.Equal(t, "existing", entries[0].Key.Value)
	require.Equal(t, "a", entries[1].Key.Value)
}

func TestDocument_SetOverwritesInPlaceKeepingComments(t *testing.T) {
	doc := parseDoc(t, "model:\n  rate: 0.01 # tuned by hand\n")

	doc.Set(Path{"model", "rate"}, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: "0.5"})

	node, ok := doc.Get(Path{"model", "rate"})
	require.True(t, ok)
	require.Equal(t, "0.5", node.Value)
	require.Equal(t, "tuned by hand", node.LineComment)
}

func TestDocument_SetStoresACopy(t *testing.T) {
	doc := parseDoc(t, "")
	value := scalar("original")

	doc.Set(Path{"key"}, value)
	value.Value = "mutated"

	node, ok := doc.Get(Path{"key"})
	require.True(t, ok)
	require.Equal(t, "original", node.Value)
}

func TestDocument_DeepCopyIsIndependent(t *testing.T) {
	doc := parseDoc(t, "model:\n  layers: [1, 2]\n")
	clone := doc.DeepCopy()

	clone.Set(Path{"model", "layers"}, scalar("changed"))
	clone.Set(Path{"fresh"}, scalar("new"))

	node, ok := doc.Get(Path{"model", "layers"})
	require.True(t, ok)
	require.Equal(t, KindScalarList, KindOf(node))

	_, ok = doc.Get(Path{"fresh"})
	require.False(t, ok)
}

func TestMapEntries_PreservesInsertionOrder(t *testing.T) {
	doc := parseDoc(t, "zebra: 1\nalpha: 2\nmike: 3\n")

	entries := MapEntries(doc.Mapping())

	var keys []string
	for _, entry := range entries {
		keys = append(keys, entry.Key.Value)
	}

	require.Equal(t, []string{"zebra", "alpha", "mike"}, keys)
}

func TestEnsureSection_ConvertsScalarToSection(t *testing.T) {
	doc := parseDoc(t, "model: 42\n")

	sub := EnsureSection(doc.Mapping(), "model")
	require.Equal(t, yaml.MappingNode, sub.Kind)

	MapSet(sub, "layers", scalar("3"))

	node, ok := doc.Get(Path{"model", "layers"})
	require.True(t, ok)
	require.Equal(t, "3", node.Value)
}

func TestResolve_FollowsAliases(t *testing.T) {
	doc := parseDoc(t, "defaults: &d\n  rate: 1\nmodel: *d\n")

	node, ok := doc.Get(Path{"model", "rate"})
	require.True(t, ok)
	require.Equal(t, "1", node.Value)
}
