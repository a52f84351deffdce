package canvas

import "math"

type point struct {
	X, Y float64
}

type subpath struct {
	pts    []point
	closed bool
}

// path is the current path shared by every context implementation.
// Arcs are flattened to line segments when added.
type path struct {
	subs []subpath
}

func (p *path) reset() {
	p.subs = p.subs[:0]
}

func (p *path) empty() bool {
	for _, s := range p.subs {
		if len(s.pts) > 0 {
			return false
		}
	}
	return true
}

func (p *path) current() *subpath {
	if len(p.subs) == 0 {
		return nil
	}
	return &p.subs[len(p.subs)-1]
}

func (p *path) moveTo(x, y float64) {
	p.subs = append(p.subs, subpath{pts: []point{{x, y}}})
}

// lineTo behaves like moveTo when there is no open subpath.
func (p *path) lineTo(x, y float64) {
	cur := p.current()
	if cur == nil || cur.closed {
		p.moveTo(x, y)
		return
	}
	cur.pts = append(cur.pts, point{x, y})
}

func (p *path) closePath() {
	cur := p.current()
	if cur == nil || len(cur.pts) == 0 {
		return
	}
	cur.closed = true
	// Drawing continues from the start of the closed subpath.
	p.subs = append(p.subs, subpath{pts: []point{cur.pts[0]}})
}

func (p *path) rect(x, y, w, h float64) {
	p.subs = append(p.subs, subpath{
		pts:    []point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		closed: true,
	})
	p.moveTo(x, y)
}

// arc appends a clockwise arc, connecting it to the current subpath.
func (p *path) arc(x, y, r, start, end float64) {
	if r < 0 || math.IsNaN(r) {
		return
	}
	sweep := arcSweep(start, end)
	n := arcSegments(r, sweep)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		px, py := x+r*math.Cos(a), y+r*math.Sin(a)
		if i == 0 {
			cur := p.current()
			if cur == nil || cur.closed {
				p.moveTo(px, py)
				continue
			}
		}
		p.lineTo(px, py)
	}
}

func arcSweep(start, end float64) float64 {
	sweep := end - start
	if sweep >= 2*math.Pi {
		return 2 * math.Pi
	}
	sweep = math.Mod(sweep, 2*math.Pi)
	if sweep < 0 {
		sweep += 2 * math.Pi
	}
	return sweep
}

func arcSegments(r, sweep float64) int {
	n := int(math.Ceil(sweep * max(r, 1) / 2))
	return max(4, min(n, 360))
}

// segments calls fn for every line segment of the path, including the
// closing segment of closed subpaths.
func (p *path) segments(fn func(a, b point)) {
	for _, s := range p.subs {
		for i := 1; i < len(s.pts); i++ {
			fn(s.pts[i-1], s.pts[i])
		}
		if s.closed && len(s.pts) > 2 {
			fn(s.pts[len(s.pts)-1], s.pts[0])
		}
	}
}

// vertices calls fn for every point of the path.
func (p *path) vertices(fn func(pt point)) {
	for _, s := range p.subs {
		for _, pt := range s.pts {
			fn(pt)
		}
	}
}
