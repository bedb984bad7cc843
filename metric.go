package openmetricz

import (
	"bufio"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	"go.uber.org/atomic"
)

// Metric is the read surface shared by every registered metric.
// The set of implementations is closed; obtain instances from a Registry.
type Metric interface {
	Kind() Kind
	Name() Key
	Help() string
	Unit() string
	Labels() Labels
	// MetricName is the family name with labels and no suffix, e.g. http_requests{method="GET"}.
	MetricName() string
	// Updated is the time of the last mutation, or of registration if never mutated.
	Updated() time.Time

	render(w *bufio.Writer)
	clone(labels Labels) (Metric, error)
}

// desc holds the identity and bookkeeping common to all kinds.
type desc struct {
	updated     atomic.Time
	clock       clockz.Clock
	name        Key
	help        string
	unit        string
	labels      Labels
	metricName  string
	createdName string
	kind        Kind
}

func (d *desc) init(kind Kind, name Key, help, unit string, labels Labels, clock clockz.Clock) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := labels.validate(kind); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidArgument, name, err)
	}

	d.kind = kind
	d.name = name
	d.help = help
	d.unit = unit
	d.labels = labels.Normalize()
	d.clock = clock
	d.metricName = MakeNameWithSuffixAndLabels(name, "", d.labels, false)
	d.createdName = MakeNameWithSuffixAndLabels(name, "created", d.labels, false)
	d.touch()
	return nil
}

func (d *desc) Kind() Kind         { return d.kind }
func (d *desc) Name() Key          { return d.name }
func (d *desc) Help() string       { return d.help }
func (d *desc) Unit() string       { return d.unit }
func (d *desc) MetricName() string { return d.metricName }
func (d *desc) Updated() time.Time { return d.updated.Load() }

// Labels returns a copy of the normalized label set.
func (d *desc) Labels() Labels {
	out := make(Labels, len(d.labels))
	copy(out, d.labels)
	return out
}

// sampleName renders name[_suffix]{labels,extra} for lines that add a label.
func (d *desc) sampleName(suffix string, extra Label) string {
	return MakeNameWithSuffixAndLabels(d.name, suffix, d.labels.with(extra), false)
}

// touch records the clock's current time as the last update.
func (d *desc) touch() {
	d.updated.Store(d.clock.Now())
}

// renderCreated writes the _created line. The value is the last update time.
func (d *desc) renderCreated(w *bufio.Writer) {
	writeSample(w, d.createdName, formatTimestamp(d.Updated()))
}

func writeSample(w *bufio.Writer, name, value string) {
	w.WriteString(name)
	w.WriteByte(' ')
	w.WriteString(value)
	w.WriteByte('\n')
}
