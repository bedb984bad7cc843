package openmetricz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/common/model"
	"go.uber.org/multierr"
)

// infoMarker prefixes Info identity keys so they sort before every other key.
const infoMarker = "#"

// Label is one key/value dimension of a series.
type Label struct {
	Key   string
	Value string
}

// Labels is an ordered label set.
type Labels []Label

// FromMap builds a normalized label set from a map.
func FromMap(m map[string]string) Labels {
	labels := make(Labels, 0, len(m))
	for k, v := range m {
		labels = append(labels, Label{Key: k, Value: v})
	}
	return labels.Normalize()
}

// Normalize returns a copy sorted ascending by key.
// Equal keys keep their relative order.
func (l Labels) Normalize() Labels {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Label) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

// Equal reports whether both sets hold the same pairs, ignoring order.
func (l Labels) Equal(other Labels) bool {
	return slices.Equal(l.Normalize(), other.Normalize())
}

// Get returns the value for key.
func (l Labels) Get(key string) (string, bool) {
	for _, label := range l {
		if label.Key == key {
			return label.Value, true
		}
	}
	return "", false
}

// with returns a copy with extra appended after the existing pairs.
func (l Labels) with(extra Label) Labels {
	out := make(Labels, len(l), len(l)+1)
	copy(out, l)
	return append(out, extra)
}

// validate collects every problem with the label names for a metric of kind.
func (l Labels) validate(kind Kind) error {
	var err error
	seen := make(map[string]struct{}, len(l))
	reserved := kind.reservedLabel()
	for _, label := range l {
		if !model.LabelName(label.Key).IsValidLegacy() {
			err = multierr.Append(err, fmt.Errorf("label %q: invalid name", label.Key))
		}
		if _, dup := seen[label.Key]; dup {
			err = multierr.Append(err, fmt.Errorf("label %q: duplicate key", label.Key))
		}
		seen[label.Key] = struct{}{}
		if reserved != "" && label.Key == reserved {
			err = multierr.Append(err, fmt.Errorf("label %q: reserved for %s", label.Key, kind))
		}
	}
	return err
}

func validateName(name Key) error {
	if name == "" {
		return fmt.Errorf("%w: metric name is empty", ErrInvalidArgument)
	}
	if !model.IsValidLegacyMetricName(string(name)) {
		return fmt.Errorf("%w: metric name %q is not valid", ErrInvalidArgument, name)
	}
	return nil
}

// MakeKey derives the identity key of a series. Labels are normalized first.
// Info keys carry a leading marker so Info families sort first.
func MakeKey(name Key, labels Labels, kind Kind) string {
	return MakeNameWithSuffixAndLabels(name, "", labels.Normalize(), kind == KindInfo)
}

// MakeNameWithSuffixAndLabels renders name[_suffix]{k="v",...} using labels in
// the order given. first adds the Info sort marker.
func MakeNameWithSuffixAndLabels(name Key, suffix string, labels Labels, first bool) string {
	var b strings.Builder
	if first {
		b.WriteString(infoMarker)
	}
	b.WriteString(string(name))
	if suffix != "" {
		b.WriteByte('_')
		b.WriteString(suffix)
	}
	if len(labels) == 0 {
		return b.String()
	}

	b.WriteByte('{')
	for i, label := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(label.Key)
		b.WriteString(`="`)
		b.WriteString(escapeLabelValue(label.Value))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

var (
	labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	helpEscaper       = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
)

func escapeLabelValue(v string) string {
	if !strings.ContainsAny(v, "\\\"\n") {
		return v
	}
	return labelValueEscaper.Replace(v)
}

func escapeHelp(v string) string {
	if !strings.ContainsAny(v, "\\\n") {
		return v
	}
	return helpEscaper.Replace(v)
}
