// Package export renders recorded runs as standalone images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/carsim/internal/dynamo"
)

type SVGOptions struct {
	Width, Height int
	Stroke        string
	Background    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 600, Stroke: "#00ff00", Background: "#0a0a0a"}
}

// TrajectoryToSVG draws the ground track of a run, north up, with one scale
// for both axes so corners keep their shape. The start is marked with a
// circle and the end with a square.
func TrajectoryToSVG(w io.Writer, points []dynamo.Vec2, opts SVGOptions) error {
	if len(points) < 2 {
		return fmt.Errorf("trajectory needs at least 2 points, got %d", len(points))
	}

	minP, maxP := points[0], points[0]
	for _, p := range points {
		minP.X = min(minP.X, p.X)
		minP.Y = min(minP.Y, p.Y)
		maxP.X = max(maxP.X, p.X)
		maxP.Y = max(maxP.Y, p.Y)
	}

	span := max(maxP.X-minP.X, maxP.Y-minP.Y, 1)
	pad := span * 0.1
	scale := min(float64(opts.Width), float64(opts.Height)) / (span + 2*pad)
	mid := minP.Add(maxP).Scale(0.5)

	project := func(p dynamo.Vec2) (float64, float64) {
		return float64(opts.Width)/2 + (p.X-mid.X)*scale,
			float64(opts.Height)/2 - (p.Y-mid.Y)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Stroke)

	for i, p := range points {
		x, y := project(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	sx, sy := project(points[0])
	ex, ey := project(points[len(points)-1])
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
<rect x="%.1f" y="%.1f" width="8" height="8" fill="%s"/>
</svg>
`, sx, sy, opts.Stroke, ex-4, ey-4, opts.Stroke)

	_, err := io.WriteString(w, sb.String())
	return err
}
