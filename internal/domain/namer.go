package domain

import (
	"crypto/md5" // #nosec G501 - name disambiguation only, not a security boundary
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

const (
	// maxNameBytes is the longest encoded name (without extension) emitted
	// as-is. Anything longer is truncated and disambiguated with a hash.
	maxNameBytes = 250

	// truncatedBudget + "_" + hashHexLen == maxNameBytes.
	truncatedBudget = 241
	hashHexLen      = 8
)

// NameOptions controls how an assignment is encoded into a filename.
type NameOptions struct {
	// ShortNames renders only the final path component of each axis instead
	// of the full underscore-joined path.
	ShortNames bool

	// Index, when >= 0, adds a "config_000__" style prefix.
	Index int
}

// EncodeName renders an assignment as a deterministic filename (without
// extension). It is a pure function of its inputs: one "key=value" segment
// per choice in axis order, joined by "__" and prefixed with the base stem.
// baseValues (keyed by dotted path) supplies the base document's original
// values so changed strings can be rendered as a compact token diff.
//
// Names longer than 250 bytes are truncated and suffixed with 8 hex chars of
// a hash over the full untruncated name, so two long assignments that
// truncate identically still get distinct names.
func EncodeName(assignment m.Assignment, stem string, baseValues map[string]*yaml.Node, opts NameOptions) string {
	segments := make([]string, 0, len(assignment))

	for _, choice := range assignment {
		key := choice.Path.Leaf()
		if !opts.ShortNames {
			key = strings.Join(choice.Path, "_")
		}

		segments = append(segments, key+"="+valueString(choice.Value, baseValues[choice.Path.Dotted()]))
	}

	name := stem
	if len(segments) > 0 {
		name = stem + "__" + strings.Join(segments, "__")
	}

	if opts.Index >= 0 {
		name = fmt.Sprintf("config_%03d__%s", opts.Index, name)
	}

	if len(name) > maxNameBytes {
		sum := md5.Sum([]byte(name)) // #nosec G401
		name = truncateToBytes(name, truncatedBudget) + "_" + hex.EncodeToString(sum[:])[:hashHexLen]
	}

	return name
}

// valueString renders a candidate value for use inside a filename.
func valueString(value, baseValue *yaml.Node) string {
	value = m.Resolve(value)

	if value.Kind == yaml.SequenceNode {
		parts := make([]string, 0, len(value.Content))
		for _, elem := range value.Content {
			parts = append(parts, scalarString(m.Resolve(elem), nil))
		}

		return strings.Join(parts, "-")
	}

	return scalarString(value, baseValue)
}

func scalarString(value, baseValue *yaml.Node) string {
	switch value.Tag {
	case "!!bool":
		if b, err := strconv.ParseBool(value.Value); err == nil {
			if b {
				return "true"
			}

			return "false"
		}
	case "!!int":
		if n, err := strconv.ParseInt(value.Value, 0, 64); err == nil {
			return numericString(strconv.FormatInt(n, 10))
		}
	case "!!float":
		if f, err := strconv.ParseFloat(value.Value, 64); err == nil {
			return numericString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	}

	if diffed, ok := diffedString(value, baseValue); ok {
		return diffed
	}

	return sanitizeForFilename(value.Value)
}

// diffedString renders a changed string as the tokens it introduced relative
// to the base value, e.g. "sgd momentum" over base "adam momentum" becomes
// "sgd". Purely cosmetic: uniqueness does not depend on it.
func diffedString(value, baseValue *yaml.Node) (string, bool) {
	if baseValue == nil {
		return "", false
	}

	baseValue = m.Resolve(baseValue)
	if value.Kind != yaml.ScalarNode || baseValue.Kind != yaml.ScalarNode {
		return "", false
	}

	if value.Tag != "!!str" || baseValue.Tag != "!!str" || value.Value == baseValue.Value {
		return "", false
	}

	diff := diffTokens(baseValue.Value, value.Value)
	if diff == "" {
		return "", false
	}

	return sanitizeForFilename(diff), true
}

var wordPattern = regexp.MustCompile(`\w+`)

// diffTokens returns the word tokens inserted or replaced going from old to
// new, joined by underscores.
func diffTokens(oldText, newText string) string {
	oldTokens := wordPattern.FindAllString(oldText, -1)
	newTokens := wordPattern.FindAllString(newText, -1)

	matcher := difflib.NewMatcher(oldTokens, newTokens)

	var out []string

	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'i' || op.Tag == 'r' {
			out = append(out, newTokens[op.J1:op.J2]...)
		}
	}

	return strings.Join(out, "_")
}

// numericString canonicalizes a decimal rendering for filenames:
// "-0.001" -> "neg0p001".
func numericString(s string) string {
	s = strings.ReplaceAll(s, ".", "p")

	return strings.ReplaceAll(s, "-", "neg")
}

// filenameSanitizer drops or substitutes characters that are unsafe or noisy
// in filenames.
var filenameSanitizer = strings.NewReplacer(
	"[", "",
	"]", "",
	" ", "",
	",", "-",
	".", "p",
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "star",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "_",
)

func sanitizeForFilename(s string) string {
	return filenameSanitizer.Replace(s)
}

// truncateToBytes cuts s to fit maxBytes without splitting a UTF-8 rune.
func truncateToBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}

	return s[:maxBytes]
}
