package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/carsim/internal/dynamo"
	"github.com/san-kum/carsim/internal/physics"
)

// Below this speed the sideslip angle is reported as zero.
const minSideslipSpeed = 0.5

// Sideslip is the angle in radians between the heading and the direction of
// travel, with the sign of the chassis-frame lateral velocity.
func Sideslip(s physics.State) float64 {
	if s.Speed < minSideslipSpeed {
		return 0
	}
	return math.Atan2(s.LocalVelocity.Y, s.LocalVelocity.X)
}

// SideslipPhase maps each state to (sideslip, yaw rate).
func SideslipPhase(states []physics.State) []dynamo.Vec2 {
	points := make([]dynamo.Vec2, len(states))
	for i, s := range states {
		points[i] = dynamo.Vec2{X: Sideslip(s), Y: s.YawRate}
	}
	return points
}

// PhasePortraitToASCII scatters points on a width x height character grid
// with axes drawn through the origin when it is in view.
func PhasePortraitToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := points[0], points[0]
	for _, p := range points {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	rangeX := max(hi.X-lo.X, 1e-6)
	rangeY := max(hi.Y-lo.Y, 1e-6)
	lo.X -= rangeX * 0.1
	lo.Y -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	col := func(x float64) int { return int((x - lo.X) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-lo.Y)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if c := col(0); lo.X <= 0 && c >= 0 && c < width {
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if r := row(0); lo.Y <= 0 && r >= 0 && r < height {
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
