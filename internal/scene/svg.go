package scene

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"time"
)

// EncodeSVG записывает слой дуг как SVG-документ заданного размера
func EncodeSVG(w io.Writer, s *ArcScene, width, height int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" class="arc-overlay" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	bw.WriteString("\n<defs>\n")
	if s != nil {
		for _, f := range s.Defs.Filters {
			fmt.Fprintf(bw, `<filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="%s"/></filter>`+"\n",
				f.ID, num(f.StdDeviation))
		}
		for _, g := range s.Defs.Gradients {
			fmt.Fprintf(bw, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
				g.ID, num(g.From.X), num(g.From.Y), num(g.To.X), num(g.To.Y))
			fmt.Fprintf(bw, `<stop offset="0%%" stop-color="%s" stop-opacity="0.35"/><stop offset="100%%" stop-color="%s"/></linearGradient>`+"\n",
				g.StartColor, g.EndColor)
		}
	}
	bw.WriteString("</defs>\n")

	if s != nil {
		for _, arc := range s.Arcs {
			writeArc(bw, arc)
		}
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeArc(w *bufio.Writer, arc Arc) {
	fmt.Fprintf(w, `<g class="arc" data-index="%d" data-incident="%s">`+"\n", arc.Index, html.EscapeString(arc.IncidentID))

	for _, st := range arc.Strokes {
		fmt.Fprintf(w, `<path class="arc-%s" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s" stroke-linecap="round"`,
			st.Kind, arc.Path, st.Color, num(st.Width), num(st.Opacity))
		if st.Filter != "" {
			fmt.Fprintf(w, ` filter="url(#%s)"`, st.Filter)
		}
		if st.DashArray == "" {
			w.WriteString("/>\n")
			continue
		}
		fmt.Fprintf(w, ` stroke-dasharray="%s">`, st.DashArray)
		fmt.Fprintf(w, `<animate attributeName="stroke-dashoffset" from="32" to="0" dur="%s" repeatCount="indefinite"/></path>`+"\n",
			seconds(st.DashCycle))
	}

	fmt.Fprintf(w, `<circle class="arc-projectile" r="%s" fill="%s"><animateMotion dur="%s" repeatCount="indefinite" path="%s"/></circle>`+"\n",
		num(arc.Projectile.Radius), arc.Projectile.Color, seconds(arc.Projectile.Duration), arc.Path)

	p := arc.Pulse
	fmt.Fprintf(w, `<circle class="arc-origin" cx="%s" cy="%s" r="%s" fill="%s">`, num(p.At.X), num(p.At.Y), num(p.Radius), p.Color)
	fmt.Fprintf(w, `<animate attributeName="r" values="%s;%s;%s" dur="%s" repeatCount="indefinite"/>`,
		num(p.Radius), num(p.Radius*2), num(p.Radius), seconds(p.Duration))
	fmt.Fprintf(w, `<animate attributeName="opacity" values="1;0.3;1" dur="%s" repeatCount="indefinite"/></circle>`+"\n",
		seconds(p.Duration))

	w.WriteString("</g>\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
