package textplot

import (
	"fmt"
	"io"

	mandel "github.com/marben/deepzoom"
)

// WriteReport writes a one-line summary of g followed by its density plot.
func WriteReport(w io.Writer, method string, orbitLength int64, g *mandel.EscapeTimeGrid) error {
	s := mandel.Summarize(g)
	if _, err := fmt.Fprintf(w, "method=%s grid=%dx%d orbit=%d escaped=%d trapped=%d",
		method, g.Width(), g.Height(), orbitLength, s.Escaped, s.Trapped); err != nil {
		return err
	}
	if s.Escaped > 0 {
		if _, err := fmt.Fprintf(w, " escape[min=%g median=%g mean=%.2f max=%g]",
			s.MinEscape, s.MedianEscape, s.MeanEscape, s.MaxEscape); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, Density(g))
	return err
}
