// Package svgpath parses SVG path data into absolute drawing segments.
//
// The icon registry stores its shapes as SVG path strings. Renderers do not
// understand relative commands, shorthand curves or elliptical arcs, so Parse
// resolves all of them into MoveTo, LineTo, QuadTo, CubicTo and Close
// segments in absolute coordinates. Arcs are approximated with cubic béziers.
package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrSyntax is returned for malformed path data.
var ErrSyntax = errors.New("svg path syntax error")

// Op identifies a segment kind.
type Op int

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubicTo
	Close
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubicTo:
		return "C"
	case Close:
		return "Z"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Point is a coordinate in path space.
type Point struct {
	X, Y float64
}

// Segment is one absolute drawing step. Pts holds the control points
// followed by the end point: 1 point for MoveTo/LineTo, 2 for QuadTo, 3 for
// CubicTo and none for Close.
type Segment struct {
	Op  Op
	Pts []Point
}

// End returns the segment's end point. Close has none and returns false.
func (s Segment) End() (Point, bool) {
	if len(s.Pts) == 0 {
		return Point{}, false
	}
	return s.Pts[len(s.Pts)-1], true
}

// Parse converts SVG path data into absolute segments.
func Parse(d string) ([]Segment, error) {
	p := &parser{sc: scanner{s: d}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.out, nil
}

// MustParse is Parse for path data known at build time.
func MustParse(d string) []Segment {
	segs, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return segs
}

type parser struct {
	sc  scanner
	out []Segment

	cur, start Point
	// 上一段的控制点，用于 S/T 的反射
	lastCubic, lastQuad Point
	lastOp              byte
}

func (p *parser) run() error {
	var cmd byte
	for {
		p.sc.skipSeparators()
		if p.sc.done() {
			return nil
		}

		c := p.sc.peek()
		if isCommand(c) {
			cmd = c
			p.sc.pos++
		} else if cmd == 0 {
			return p.sc.errorf("path must start with a command, got %q", c)
		} else if cmd == 'Z' || cmd == 'z' {
			return p.sc.errorf("unexpected number after close")
		}

		if err := p.command(cmd); err != nil {
			return err
		}

		// 隐式重复：M 之后的坐标对视为 L
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
}

func (p *parser) command(cmd byte) error {
	rel := cmd >= 'a'
	var base Point
	if rel {
		base = p.cur
	}

	switch cmd {
	case 'M', 'm':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(MoveTo, pt)
		p.start = pt
	case 'L', 'l':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(LineTo, pt)
	case 'H', 'h':
		x, err := p.sc.number()
		if err != nil {
			return err
		}
		if rel {
			x += p.cur.X
		}
		p.emit(LineTo, Point{x, p.cur.Y})
	case 'V', 'v':
		y, err := p.sc.number()
		if err != nil {
			return err
		}
		if rel {
			y += p.cur.Y
		}
		p.emit(LineTo, Point{p.cur.X, y})
	case 'C', 'c':
		pts, err := p.points(base, 3)
		if err != nil {
			return err
		}
		p.lastCubic = pts[1]
		p.emit(CubicTo, pts...)
	case 'S', 's':
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		c1 := p.cur
		if p.lastOp == 'C' || p.lastOp == 'S' {
			c1 = reflect(p.lastCubic, p.cur)
		}
		p.lastCubic = pts[0]
		p.emit(CubicTo, c1, pts[0], pts[1])
	case 'Q', 'q':
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		p.lastQuad = pts[0]
		p.emit(QuadTo, pts...)
	case 'T', 't':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		c := p.cur
		if p.lastOp == 'Q' || p.lastOp == 'T' {
			c = reflect(p.lastQuad, p.cur)
		}
		p.lastQuad = c
		p.emit(QuadTo, c, pt)
	case 'A', 'a':
		if err := p.arc(base); err != nil {
			return err
		}
	case 'Z', 'z':
		p.out = append(p.out, Segment{Op: Close})
		p.cur = p.start
	}

	p.lastOp = upper(cmd)
	return nil
}

func (p *parser) arc(base Point) error {
	rx, err := p.sc.number()
	if err != nil {
		return err
	}
	ry, err := p.sc.number()
	if err != nil {
		return err
	}
	rotation, err := p.sc.number()
	if err != nil {
		return err
	}
	large, err := p.sc.flag()
	if err != nil {
		return err
	}
	sweep, err := p.sc.flag()
	if err != nil {
		return err
	}
	end, err := p.point(base)
	if err != nil {
		return err
	}

	p.out = append(p.out, arcToCubics(p.cur, rx, ry, rotation, large, sweep, end)...)
	p.cur = end
	return nil
}

func (p *parser) point(base Point) (Point, error) {
	x, err := p.sc.number()
	if err != nil {
		return Point{}, err
	}
	y, err := p.sc.number()
	if err != nil {
		return Point{}, err
	}
	return Point{base.X + x, base.Y + y}, nil
}

func (p *parser) points(base Point, n int) ([]Point, error) {
	pts := make([]Point, n)
	for i := range pts {
		pt, err := p.point(base)
		if err != nil {
			return nil, err
		}
		pts[i] = pt
	}
	return pts, nil
}

func (p *parser) emit(op Op, pts ...Point) {
	p.out = append(p.out, Segment{Op: op, Pts: pts})
	p.cur = pts[len(pts)-1]
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}

func isCommand(c byte) bool {
	switch upper(c) {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// scanner tokenizes the compact number syntax of path data, where "010"
// after an arc radius is two flags and a number, and "0-1.5.5" is three
// numbers.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) peek() byte { return sc.s[sc.pos] }

func (sc *scanner) skipSeparators() {
	for !sc.done() {
		switch sc.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, sc.pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.done() {
		return false, sc.errorf("expected arc flag, got end of data")
	}
	switch sc.peek() {
	case '0':
		sc.pos++
		return false, nil
	case '1':
		sc.pos++
		return true, nil
	}
	return false, sc.errorf("expected arc flag, got %q", sc.peek())
}

func (sc *scanner) number() (float64, error) {
	sc.skipSeparators()
	begin := sc.pos
	if !sc.done() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.pos++
	}
	digits := sc.digits()
	if !sc.done() && sc.peek() == '.' {
		sc.pos++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.pos = begin
		if sc.done() {
			return 0, sc.errorf("expected number, got end of data")
		}
		return 0, sc.errorf("expected number, got %q", sc.peek())
	}
	if !sc.done() && (sc.peek() == 'e' || sc.peek() == 'E') {
		mark := sc.pos
		sc.pos++
		if !sc.done() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.pos++
		}
		if sc.digits() == 0 {
			// "e" 后没有数字：回退，不属于该数字
			sc.pos = mark
		}
	}

	v, err := strconv.ParseFloat(sc.s[begin:sc.pos], 64)
	if err != nil {
		return 0, sc.errorf("bad number %q", sc.s[begin:sc.pos])
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for !sc.done() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.pos++
		n++
	}
	return n
}

// arcToCubics converts an elliptical arc from p0 to p1 into cubic béziers,
// following the endpoint-to-center conversion of the SVG implementation
// notes (F.6.5) and splitting at most 90° per curve.
func arcToCubics(p0 Point, rx, ry, rotationDeg float64, large, sweep bool, p1 Point) []Segment {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []Segment{{Op: LineTo, Pts: []Point{p1}}}
	}

	phi := rotationDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// 步骤 1：计算 (x1', y1')
	dx := (p0.X - p1.X) / 2
	dy := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// 半径不足时按比例放大
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// 步骤 2：计算中心 (cx', cy')
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	// 步骤 3：中心点
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	// 步骤 4：起始角与扫过角
	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	onEllipse := func(theta float64) (Point, Point) {
		sinT, cosT := math.Sincos(theta)
		pt := Point{
			X: cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		deriv := Point{
			X: -rx*sinT*cosPhi - ry*cosT*sinPhi,
			Y: -rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
		return pt, deriv
	}

	segs := make([]Segment, 0, n)
	theta := theta1
	from, dFrom := onEllipse(theta)
	for i := 0; i < n; i++ {
		next := theta + step
		to, dTo := onEllipse(next)
		if i == n-1 {
			to = p1
		}
		segs = append(segs, Segment{Op: CubicTo, Pts: []Point{
			{from.X + k*dFrom.X, from.Y + k*dFrom.Y},
			{to.X - k*dTo.X, to.Y - k*dTo.Y},
			to,
		}})
		theta = next
		from, dFrom = to, dTo
	}
	return segs
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
