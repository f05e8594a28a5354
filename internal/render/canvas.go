// Package render owns the interactive presentation of a built graph: the
// viewport state machine (pan, zoom, hover, filter, search), hit-testing and
// per-frame drawing. Drawing goes through the Canvas interface so layout and
// interaction logic can be exercised in tests without a real surface.
package render

// Stroke describes line styling.
type Stroke struct {
	Color   string
	Opacity float64
	Width   float64
	Dashed  bool
}

// Fill describes solid fill styling.
type Fill struct {
	Color   string
	Opacity float64
}

// TextStyle describes label styling.
type TextStyle struct {
	Color   string
	Opacity float64
	Size    float64
	Bold    bool
	Center  bool
}

// Canvas is the drawing surface the scene renders onto. Coordinates are
// screen-space pixels; the scene applies the viewport transform before
// issuing calls.
type Canvas interface {
	// Clear wipes the surface to the background color.
	Clear(width, height float64, background string)
	// Line draws a straight segment.
	Line(x1, y1, x2, y2 float64, stroke Stroke)
	// Circle draws a filled disc with an optional outline.
	Circle(x, y, r float64, fill Fill, stroke *Stroke)
	// Halo draws a radial gradient fading from the color at the center to
	// transparent at the rim. Used for group clustering halos.
	Halo(x, y, r float64, color string, opacity float64)
	// Text draws a label anchored at the given point.
	Text(x, y float64, s string, style TextStyle)
}

// -- Recording Canvas --

// OpKind identifies a recorded drawing operation.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpLine   OpKind = "line"
	OpCircle OpKind = "circle"
	OpHalo   OpKind = "halo"
	OpText   OpKind = "text"
)

// Op is one recorded drawing call.
type Op struct {
	Kind    OpKind
	X, Y    float64
	X2, Y2  float64
	R       float64
	Text    string
	Fill    Fill
	Stroke  Stroke
	Style   TextStyle
	Dashed  bool
	Color   string
	Opacity float64
}

// Recorder is a Canvas that records every call for test assertions.
type Recorder struct {
	Ops []Op
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) Clear(w, h float64, background string) {
	r.Ops = r.Ops[:0]
	r.Ops = append(r.Ops, Op{Kind: OpClear, X: w, Y: h, Color: background})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, stroke Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: stroke, Dashed: stroke.Dashed})
}

func (r *Recorder) Circle(x, y, radius float64, fill Fill, stroke *Stroke) {
	op := Op{Kind: OpCircle, X: x, Y: y, R: radius, Fill: fill}
	if stroke != nil {
		op.Stroke = *stroke
		op.Dashed = stroke.Dashed
	}
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Halo(x, y, radius float64, color string, opacity float64) {
	r.Ops = append(r.Ops, Op{Kind: OpHalo, X: x, Y: y, R: radius, Color: color, Opacity: opacity})
}

func (r *Recorder) Text(x, y float64, s string, style TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: s, Style: style})
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every recorded text string, in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}
