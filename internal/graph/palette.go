package graph

// palette is the fixed table color cycle. Tables are assigned colors in
// declaration order, wrapping when the dataset has more tables than the
// palette has entries.
var palette = []string{
	"#4fc3f7", // light blue
	"#81c784", // green
	"#ffb74d", // orange
	"#e57373", // red
	"#ba68c8", // purple
	"#4db6ac", // teal
	"#f06292", // pink
	"#aed581", // lime
	"#ffd54f", // amber
	"#7986cb", // indigo
	"#a1887f", // brown
	"#90a4ae", // blue grey
}

// ColorFor returns the palette color for the table at the given declaration
// index.
func ColorFor(index int) string {
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}
