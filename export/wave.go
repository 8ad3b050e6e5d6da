// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	hw "github.com/db47h/hwconv"
	"github.com/pkg/errors"
)

const (
	waveHeader = `
<script src="http://wavedrom.com/skins/default.js" type="text/javascript"></script>
<script src="http://wavedrom.com/WaveDrom.js" type="text/javascript"></script>
<script type="WaveDrom">
{ signal : [
`
	waveFooter = `]}
</script>
`
)

// wave returns the WaveDrom wave string of a signal and, for multi-bit
// signals, its data labels.
//
func wave(vs []uint64, width int) (string, []string) {
	var w strings.Builder
	var data []string
	for i, v := range vs {
		switch {
		case i > 0 && v == vs[i-1]:
			w.WriteByte('.')
		case width == 1:
			w.WriteString(strconv.FormatUint(v, 10))
		default:
			w.WriteByte('=')
			data = append(data, `"`+strconv.FormatUint(v, 10)+`"`)
		}
	}
	return w.String(), data
}

// WaveDrom writes an HTML snippet rendering the given signals of trace with
// WaveDrom. Signal widths are taken from m. If names is empty, all traced
// signals are rendered in lexical order.
//
func WaveDrom(w io.Writer, m *hw.Module, trace *hw.Trace, names []string) error {
	if len(names) == 0 {
		names = trace.SortedNames()
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(waveHeader)
	for _, n := range names {
		id, ok := m.Lookup(n)
		if !ok {
			return hw.StructureError(n, "no such signal")
		}
		wv, data := wave(trace.Values(n), m.Width(id))
		bw.WriteString(`{ name: "` + n + `",  wave: "` + wv + `"`)
		if m.Width(id) > 1 {
			bw.WriteString(`, data: [` + strings.Join(data, ", ") + `]`)
		}
		bw.WriteString(" },\n")
	}
	bw.WriteString(waveFooter)
	return errors.Wrap(bw.Flush(), "write waveform")
}
