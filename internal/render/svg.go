package render

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// SVGCanvas is a Canvas that accumulates drawing calls into an SVG document.
// It backs the snapshot command, which renders a laid-out graph to a file
// without any interactive surface.
type SVGCanvas struct {
	width  float64
	height float64
	defs   strings.Builder
	body   strings.Builder
	halos  int
}

var _ Canvas = (*SVGCanvas)(nil)

// NewSVGCanvas returns an empty SVG surface of the given pixel size.
func NewSVGCanvas(width, height float64) *SVGCanvas {
	return &SVGCanvas{width: width, height: height}
}

func (c *SVGCanvas) Clear(w, h float64, background string) {
	c.width, c.height = w, h
	c.defs.Reset()
	c.body.Reset()
	c.halos = 0
	fmt.Fprintf(&c.body, `<rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, background)
}

func (c *SVGCanvas) Line(x1, y1, x2, y2 float64, stroke Stroke) {
	dash := ""
	if stroke.Dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	fmt.Fprintf(&c.body,
		`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f"%s/>`+"\n",
		x1, y1, x2, y2, stroke.Color, stroke.Opacity, stroke.Width, dash)
}

func (c *SVGCanvas) Circle(x, y, r float64, fill Fill, stroke *Stroke) {
	var attrs strings.Builder
	if fill.Color != "" {
		fmt.Fprintf(&attrs, ` fill="%s" fill-opacity="%.2f"`, fill.Color, fill.Opacity)
	} else {
		attrs.WriteString(` fill="none"`)
	}
	if stroke != nil {
		fmt.Fprintf(&attrs, ` stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f"`,
			stroke.Color, stroke.Opacity, stroke.Width)
		if stroke.Dashed {
			attrs.WriteString(` stroke-dasharray="6 4"`)
		}
	}
	fmt.Fprintf(&c.body, `<circle cx="%.1f" cy="%.1f" r="%.1f"%s/>`+"\n", x, y, r, attrs.String())
}

func (c *SVGCanvas) Halo(x, y, r float64, color string, opacity float64) {
	id := fmt.Sprintf("halo%d", c.halos)
	c.halos++
	fmt.Fprintf(&c.defs,
		`<radialGradient id="%s"><stop offset="0%%" stop-color="%s" stop-opacity="%.2f"/><stop offset="100%%" stop-color="%s" stop-opacity="0"/></radialGradient>`+"\n",
		id, color, opacity, color)
	fmt.Fprintf(&c.body, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)"/>`+"\n", x, y, r, id)
}

func (c *SVGCanvas) Text(x, y float64, s string, style TextStyle) {
	anchor := "start"
	if style.Center {
		anchor = "middle"
	}
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(s))
	fmt.Fprintf(&c.body,
		`<text x="%.1f" y="%.1f" fill="%s" fill-opacity="%.2f" font-size="%.1f" font-weight="%s" text-anchor="%s" font-family="sans-serif">%s</text>`+"\n",
		x, y, style.Color, style.Opacity, style.Size, weight, anchor, escaped.String())
}

// Document returns the complete SVG document.
func (c *SVGCanvas) Document() string {
	var doc strings.Builder
	fmt.Fprintf(&doc,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		c.width, c.height, c.width, c.height)
	if c.defs.Len() > 0 {
		doc.WriteString("<defs>\n")
		doc.WriteString(c.defs.String())
		doc.WriteString("</defs>\n")
	}
	doc.WriteString(c.body.String())
	doc.WriteString("</svg>\n")
	return doc.String()
}
