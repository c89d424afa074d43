package fdtd

import (
	"fmt"
	"io"
)

// Printer gates diagnostic output to the master process of a
// multi-process run. A nil Printer prints nothing.
type Printer struct {
	w    io.Writer
	rank int
}

// NewPrinter returns a Printer writing to w for the process of the given
// rank. Rank 0 is the master.
func NewPrinter(w io.Writer, rank int) *Printer {
	return &Printer{w: w, rank: rank}
}

// AmMaster reports whether this process is the master.
func (p *Printer) AmMaster() bool {
	return p != nil && p.rank == 0
}

// MasterPrintf prints on the master process only.
func (p *Printer) MasterPrintf(format string, args ...any) {
	if !p.AmMaster() {
		return
	}
	fmt.Fprintf(p.w, format, args...)
}

// Writer returns the output of the master, or io.Discard elsewhere.
func (p *Printer) Writer() io.Writer {
	if !p.AmMaster() {
		return io.Discard
	}
	return p.w
}
