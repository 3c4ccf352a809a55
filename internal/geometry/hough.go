package geometry

import (
	"image"
	"math"
	"sort"
)

// Segment is a line segment in pixel coordinates, normalized so X1 <= X2.
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// AngleDegrees returns the inclination of the segment relative to the
// horizontal axis, in (-90, 90] degrees.
func (s Segment) AngleDegrees() float64 {
	return math.Atan2(s.Y2-s.Y1, s.X2-s.X1) * 180 / math.Pi
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

func normalizeSegment(x1, y1, x2, y2 float64) Segment {
	if x2 < x1 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}
	return Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

type houghPeak struct {
	rho   int
	theta int
	votes int
}

// houghSegments extracts line segments from a binary edge image using a
// Hough accumulator followed by run tracing along each peak line. Peaks
// are visited in descending vote order, so stronger lines yield segments
// first.
func houghSegments(edges *image.Gray, voteThreshold, minLength, maxGap int) []Segment {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	const thetaSteps = 180
	diag := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	rhoBins := 2*diag + 1

	sinTab := make([]float64, thetaSteps)
	cosTab := make([]float64, thetaSteps)
	for t := range thetaSteps {
		rad := float64(t) * math.Pi / thetaSteps
		sinTab[t] = math.Sin(rad)
		cosTab[t] = math.Cos(rad)
	}

	acc := make([]int, rhoBins*thetaSteps)
	for y := range height {
		for x := range width {
			if edges.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}
			for t := range thetaSteps {
				rho := int(math.Round(float64(x)*cosTab[t] + float64(y)*sinTab[t]))
				acc[(rho+diag)*thetaSteps+t]++
			}
		}
	}

	peaks := findPeaks(acc, rhoBins, thetaSteps, diag, voteThreshold)
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })

	var segments []Segment
	for _, p := range peaks {
		segments = append(segments,
			traceSegments(edges, p, sinTab[p.theta], cosTab[p.theta], diag, minLength, maxGap)...)
	}
	return segments
}

// findPeaks returns accumulator cells above threshold that are local maxima
// within their 3x3 neighborhood.
func findPeaks(acc []int, rhoBins, thetaSteps, diag, threshold int) []houghPeak {
	var peaks []houghPeak
	for r := range rhoBins {
		for t := range thetaSteps {
			v := acc[r*thetaSteps+t]
			if v < threshold {
				continue
			}
			if !isLocalMax(acc, rhoBins, thetaSteps, r, t, v) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: r - diag, theta: t, votes: v})
		}
	}
	return peaks
}

func isLocalMax(acc []int, rhoBins, thetaSteps, r, t, v int) bool {
	for dr := -1; dr <= 1; dr++ {
		for dt := -1; dt <= 1; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nr, nt := r+dr, t+dt
			if nr < 0 || nr >= rhoBins || nt < 0 || nt >= thetaSteps {
				continue
			}
			if acc[nr*thetaSteps+nt] > v {
				return false
			}
		}
	}
	return true
}

// traceSegments walks along the line (rho, theta) and collects runs of edge
// pixels, tolerating gaps up to maxGap and keeping runs of at least
// minLength pixels.
func traceSegments(edges *image.Gray, p houghPeak, sinT, cosT float64, diag, minLength, maxGap int) []Segment {
	b := edges.Bounds()
	// Base point on the line plus its direction vector.
	baseX := float64(p.rho) * cosT
	baseY := float64(p.rho) * sinT
	dirX, dirY := -sinT, cosT

	var segments []Segment
	runActive := false
	var runStartX, runStartY, lastX, lastY float64
	gap := 0

	flush := func() {
		if runActive && math.Hypot(lastX-runStartX, lastY-runStartY) >= float64(minLength) {
			segments = append(segments, normalizeSegment(runStartX, runStartY, lastX, lastY))
		}
		runActive = false
		gap = 0
	}

	for t := -diag; t <= diag; t++ {
		fx := baseX + float64(t)*dirX
		fy := baseY + float64(t)*dirY
		x := int(math.Round(fx))
		y := int(math.Round(fy))
		inside := x >= 0 && x < b.Dx() && y >= 0 && y < b.Dy()
		hit := inside && edges.GrayAt(b.Min.X+x, b.Min.Y+y).Y != 0

		switch {
		case hit && !runActive:
			runActive = true
			runStartX, runStartY = fx, fy
			lastX, lastY = fx, fy
			gap = 0
		case hit:
			lastX, lastY = fx, fy
			gap = 0
		case runActive:
			gap++
			if gap > maxGap {
				flush()
			}
		}
	}
	flush()
	return segments
}
