package track

// TiltAt returns the banking angle in degrees at parameter t, linearly
// interpolated between the two control points bracketing t. Fewer than 2
// points yields 0.
func TiltAt(points []Point, t float64, looped bool) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	t = wrapParam(t, looped)

	segments := n - 1
	if looped {
		segments = n
	}

	scaled := t * float64(segments)
	i := int(scaled)
	if i >= segments {
		i = segments - 1
	}
	u := scaled - float64(i)

	a := points[i%n].TiltDeg
	b := points[(i+1)%n].TiltDeg
	return a + (b-a)*u
}
