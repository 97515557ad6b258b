package main

import (
	"math"
	"strings"

	"example.com/kiosk/pkg/building"
	"example.com/kiosk/pkg/guidance"
	"github.com/charmbracelet/lipgloss"
)

const (
	// dash pattern along the path, in plan units
	dashLength = 10.0
	dashGap    = 5.0

	planMargin = 10.0
)

type cellKind int

const (
	cellBlank cellKind = iota
	cellFloorLine
	cellFloorLabel
	cellRoom
)

type cell struct {
	r         rune
	kind      cellKind
	room      building.Kind
	highlight bool
	cursor    bool

	path     bool
	pathRune rune
}

// styleKey groups adjacent cells that render with the same style.
type styleKey struct {
	kind      cellKind
	room      building.Kind
	highlight bool
	cursor    bool
	path      bool
}

var (
	floorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")) // yellow

	roomColors = map[building.Kind]lipgloss.Color{
		building.KindEntrance: lipgloss.Color("120"), // light green
		building.KindOffice:   lipgloss.Color("153"), // light blue
		building.KindMeeting:  lipgloss.Color("218"), // pink
		building.KindElevator: lipgloss.Color("248"), // grey
	}
)

// planView maps plan coordinates onto a width x height character grid.
type planView struct {
	reg    *building.Registry
	width  int
	height int
	scaleX float64
	scaleY float64
}

func newPlanView(reg *building.Registry, width, height int) planView {
	v := planView{reg: reg, width: max(width, 0), height: max(height, 0)}

	maxX, maxY := planExtent(reg)
	if v.width > 1 {
		v.scaleX = float64(v.width-1) / maxX
	}
	if v.height > 1 {
		v.scaleY = float64(v.height-1) / maxY
	}
	return v
}

func planExtent(reg *building.Registry) (float64, float64) {
	maxX, maxY := 1.0, 1.0
	for _, room := range reg.Rooms() {
		maxX = math.Max(maxX, room.X+room.Width)
		maxY = math.Max(maxY, room.Y+room.Height)
	}
	return maxX + planMargin, maxY + planMargin
}

func (v planView) col(x float64) int {
	return clamp(int(math.Round(x*v.scaleX)), 0, v.width-1)
}

func (v planView) row(y float64) int {
	return clamp(int(math.Round(y*v.scaleY)), 0, v.height-1)
}

func (v planView) bounds(room building.Room) (c0, r0, c1, r1 int) {
	return v.col(room.X), v.row(room.Y), v.col(room.X + room.Width), v.row(room.Y + room.Height)
}

// roomAt hit-tests a grid position.
func (v planView) roomAt(col, row int) (building.Room, bool) {
	for _, room := range v.reg.Rooms() {
		c0, r0, c1, r1 := v.bounds(room)
		if col >= c0 && col <= c1 && row >= r0 && row <= r1 {
			return room, true
		}
	}
	return building.Room{}, false
}

// grid lays out floors, rooms and the dashed path. offset is the current
// dash offset of the animation; cursor is the id of the keyboard-selected room.
func (v planView) grid(route *guidance.Route, offset float64, cursor string) [][]cell {
	g := make([][]cell, v.height)
	for r := range g {
		g[r] = make([]cell, v.width)
		for c := range g[r] {
			g[r][c] = cell{r: ' '}
		}
	}
	if v.width < 2 || v.height < 2 {
		return g
	}

	for _, f := range v.reg.Floors() {
		line := v.row(f.Y)
		for c := range g[line] {
			g[line][c] = cell{r: '─', kind: cellFloorLine}
		}
		label := v.row(f.Y + 10)
		if label == line && label+1 < v.height {
			label++
		}
		v.write(g, label, v.col(20), f.Label, cell{kind: cellFloorLabel})
	}

	highlight := ""
	if route != nil {
		highlight = route.Highlight
	}
	for _, room := range v.reg.Rooms() {
		v.drawRoom(g, room, room.ID == highlight, room.ID == cursor)
	}

	if route != nil {
		v.drawPath(g, route.Path, offset)
	}
	return g
}

func (v planView) drawRoom(g [][]cell, room building.Room, highlight, cursor bool) {
	c0, r0, c1, r1 := v.bounds(room)
	base := cell{kind: cellRoom, room: room.Kind, highlight: highlight, cursor: cursor}

	boxed := c1-c0 >= 2 && r1-r0 >= 2
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			ch := base
			switch {
			case !boxed:
				ch.r = '▒'
			case r == r0 && c == c0:
				ch.r = '┌'
			case r == r0 && c == c1:
				ch.r = '┐'
			case r == r1 && c == c0:
				ch.r = '└'
			case r == r1 && c == c1:
				ch.r = '┘'
			case r == r0 || r == r1:
				ch.r = '─'
			case c == c0 || c == c1:
				ch.r = '│'
			default:
				ch.r = ' '
			}
			g[r][c] = ch
		}
	}

	if boxed {
		label := []rune(room.Label)
		if inner := c1 - c0 - 1; len(label) > inner {
			label = label[:inner]
		}
		v.write(g, r0+1, c0+1, string(label), base)
	}
}

func (v planView) write(g [][]cell, row, col int, text string, style cell) {
	for _, r := range text {
		if col >= v.width {
			return
		}
		ch := style
		ch.r = r
		g[row][col] = ch
		col++
	}
}

// drawPath samples the polyline at sub-cell resolution and marks the cells
// that fall on a dash. The last sample in a cell decides its state.
func (v planView) drawPath(g [][]cell, path []building.Point, offset float64) {
	if len(path) < 2 || v.scaleX == 0 || v.scaleY == 0 {
		return
	}
	step := 0.5 / math.Max(v.scaleX, v.scaleY)

	travelled := 0.0
	last := -1
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		if length == 0 {
			continue
		}
		last = i
		glyph := segmentRune(a, b)

		n := int(math.Ceil(length / step))
		for k := 0; k <= n; k++ {
			t := float64(k) / float64(n)
			c := v.col(a.X + (b.X-a.X)*t)
			r := v.row(a.Y + (b.Y-a.Y)*t)
			g[r][c].path = dashOn(travelled+t*length, offset)
			g[r][c].pathRune = glyph
		}
		travelled += length
	}

	if last < 0 {
		return
	}
	end := path[len(path)-1]
	tip := &g[v.row(end.Y)][v.col(end.X)]
	tip.path = true
	tip.pathRune = arrowRune(path[last-1], path[last])
}

// dashOn reports whether position pos along the path lies on a dash.
func dashOn(pos, offset float64) bool {
	period := dashLength + dashGap
	phase := math.Mod(pos+offset, period)
	if phase < 0 {
		phase += period
	}
	return phase < dashLength
}

func segmentRune(a, b building.Point) rune {
	switch {
	case a.Y == b.Y:
		return '━'
	case a.X == b.X:
		return '┃'
	default:
		return '•'
	}
}

func arrowRune(a, b building.Point) rune {
	dx, dy := b.X-a.X, b.Y-a.Y
	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return '◀'
		}
		return '▶'
	}
	if dy < 0 {
		return '▲'
	}
	return '▼'
}

// Render draws the plan as styled terminal text.
func (v planView) Render(route *guidance.Route, offset float64, cursor string) string {
	g := v.grid(route, offset, cursor)

	var b strings.Builder
	for r, line := range g {
		if r > 0 {
			b.WriteByte('\n')
		}

		var run []rune
		var key styleKey
		for c, ch := range line {
			k := keyOf(ch)
			if c > 0 && k != key {
				b.WriteString(styleFor(key).Render(string(run)))
				run = run[:0]
			}
			key = k
			if ch.path {
				run = append(run, ch.pathRune)
			} else {
				run = append(run, ch.r)
			}
		}
		if len(run) > 0 {
			b.WriteString(styleFor(key).Render(string(run)))
		}
	}
	return b.String()
}

func keyOf(c cell) styleKey {
	if c.path {
		return styleKey{path: true}
	}
	return styleKey{kind: c.kind, room: c.room, highlight: c.highlight, cursor: c.cursor}
}

func styleFor(k styleKey) lipgloss.Style {
	switch {
	case k.path:
		return pathStyle
	case k.kind == cellRoom:
		s := lipgloss.NewStyle().Foreground(roomColors[k.room])
		if k.highlight {
			s = highlightStyle.Bold(true)
		}
		if k.cursor {
			s = s.Reverse(true)
		}
		return s
	case k.kind == cellFloorLine, k.kind == cellFloorLabel:
		return floorStyle
	default:
		return lipgloss.NewStyle()
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
