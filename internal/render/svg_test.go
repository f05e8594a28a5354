package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGCanvasDocument(t *testing.T) {
	c := NewSVGCanvas(800, 600)
	c.Clear(800, 600, "#0d1117")
	c.Line(0, 0, 10, 10, Stroke{Color: "#fff", Opacity: 0.5, Width: 1})
	c.Circle(5, 5, 3, Fill{Color: "#4fc3f7", Opacity: 1}, nil)
	c.Halo(5, 5, 40, "#4fc3f7", 0.08)
	c.Text(5, 20, "Alice", TextStyle{Color: "#fff", Opacity: 0.85, Size: 11, Center: true})

	doc := c.Document()

	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"`))
	assert.Contains(t, doc, `<rect width="800.0" height="600.0" fill="#0d1117"/>`)
	assert.Contains(t, doc, `stroke="#fff"`)
	assert.Contains(t, doc, `fill="#4fc3f7"`)
	assert.Contains(t, doc, `url(#halo0)`)
	assert.Contains(t, doc, `<defs>`)
	assert.Contains(t, doc, `>Alice</text>`)
	assert.True(t, strings.HasSuffix(doc, "</svg>\n"))
}

func TestSVGCanvasEscapesText(t *testing.T) {
	c := NewSVGCanvas(100, 100)
	c.Text(0, 0, `<b>&"x"</b>`, TextStyle{})

	doc := c.Document()
	assert.NotContains(t, doc, "<b>")
	assert.Contains(t, doc, "&lt;b&gt;")
	assert.Contains(t, doc, "&amp;")
}

func TestSVGCanvasDashedStroke(t *testing.T) {
	c := NewSVGCanvas(100, 100)
	c.Circle(10, 10, 5, Fill{}, &Stroke{Color: "#888", Opacity: 0.35, Width: 1, Dashed: true})

	doc := c.Document()
	assert.Contains(t, doc, `fill="none"`)
	assert.Contains(t, doc, `stroke-dasharray="6 4"`)
}

func TestSVGCanvasRendersScene(t *testing.T) {
	g := laidOutGraph(t)
	v := newTestViewport()
	c := NewSVGCanvas(v.Width, v.Height)

	NewScene(DefaultSceneConfig()).Render(c, g, v)
	doc := c.Document()

	require.Contains(t, doc, "<circle")
	assert.Contains(t, doc, "Users (2)")
	assert.Contains(t, doc, "radialGradient")
}
