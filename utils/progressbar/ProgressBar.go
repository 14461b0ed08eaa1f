// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
)

// ProgressBar prints a textual progress bar. Unlike a spinner it knows
// its total up front: the bar reaches 100% after max calls to
// Increment.
type ProgressBar struct {
	w        io.Writer
	width    int
	max      int
	progress int
	done     bool
}

// New returns a progress bar that is width characters wide, reaches
// capacity after max Increment calls, and draws to w.
func New(w io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{w: w, width: width, max: max}
}

// Increment advances the bar by one unit and redraws it.
func (p *ProgressBar) Increment() {
	if p.done {
		return
	}
	if p.progress < p.max {
		p.progress++
	}
	p.draw()
}

// Finish completes the bar and moves to the next line. Increments
// after Finish are ignored.
func (p *ProgressBar) Finish() {
	if p.done {
		return
	}
	p.progress = p.max
	p.draw()
	p.done = true
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) draw() {
	fraction := float64(p.progress) / float64(p.max)
	filled := int(fraction * float64(p.width))

	var builder strings.Builder
	builder.WriteString("\r[")
	builder.WriteString(strings.Repeat("=", filled))
	builder.WriteString(strings.Repeat(" ", p.width-filled))
	fmt.Fprintf(&builder, "] %3.0f%% (%d/%d)", fraction*100, p.progress,
		p.max)

	io.WriteString(p.w, builder.String())
}
