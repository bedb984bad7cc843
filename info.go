package openmetricz

import (
	"bufio"

	"github.com/zoobzio/clockz"
)

// Info publishes fixed information through its labels. Its value is always 1.
type Info struct {
	desc
	infoName string
}

func newInfo(name Key, help, unit string, labels Labels, clock clockz.Clock) (*Info, error) {
	i := &Info{}
	if err := i.init(KindInfo, name, help, unit, labels, clock); err != nil {
		return nil, err
	}
	i.infoName = MakeNameWithSuffixAndLabels(name, "info", i.labels, false)
	return i, nil
}

func (i *Info) render(w *bufio.Writer) {
	writeSample(w, i.infoName, "1")
	i.renderCreated(w)
}

func (i *Info) clone(labels Labels) (Metric, error) {
	cloned, err := newInfo(i.name, i.help, i.unit, labels, i.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
