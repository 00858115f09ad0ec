package wgui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/kjk/flex"
)

// UnitKind selects how a StyleUnit resolves to pixels.
type UnitKind uint8

const (
	UnitAuto UnitKind = iota
	UnitPx
	UnitPercent
	UnitFr
	UnitMinContent
	UnitMaxContent
	UnitFitContentPx
	UnitFitContentPercent
)

func (k UnitKind) String() string {
	switch k {
	case UnitAuto:
		return "auto"
	case UnitPx:
		return "px"
	case UnitPercent:
		return "%"
	case UnitFr:
		return "fr"
	case UnitMinContent:
		return "min-content"
	case UnitMaxContent:
		return "max-content"
	case UnitFitContentPx:
		return "fit-content(px)"
	case UnitFitContentPercent:
		return "fit-content(%)"
	default:
		return fmt.Sprintf("UnitKind(%d)", int(k))
	}
}

// StyleUnit is a length in a layout style. The zero value is auto.
type StyleUnit struct {
	Kind  UnitKind
	Value float32
}

// Auto sizes to content on the main axis and follows Align on the cross axis.
var Auto = StyleUnit{}

// Px is a fixed length.
func Px(v float32) StyleUnit { return StyleUnit{Kind: UnitPx, Value: v} }

// Percent is a fraction of the parent's inner size, 0..100.
func Percent(v float32) StyleUnit { return StyleUnit{Kind: UnitPercent, Value: v} }

// Fr takes a share of the main-axis space left after fixed children.
func Fr(v float32) StyleUnit { return StyleUnit{Kind: UnitFr, Value: v} }

func (u StyleUnit) String() string {
	switch u.Kind {
	case UnitAuto, UnitMinContent, UnitMaxContent:
		return u.Kind.String()
	case UnitPx:
		return formatFloat(u.Value) + "px"
	case UnitPercent:
		return formatFloat(u.Value) + "%"
	case UnitFr:
		return formatFloat(u.Value) + "fr"
	case UnitFitContentPx:
		if u.Value == 0 {
			return "fit-content"
		}
		return "fit-content(" + formatFloat(u.Value) + "px)"
	case UnitFitContentPercent:
		return "fit-content(" + formatFloat(u.Value) + "%)"
	}
	return u.Kind.String()
}

func formatFloat(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }

// ParseStyleUnit parses CSS-like lengths: "10px", "10%", "1fr", "auto",
// "min-content", "max-content", "fit-content" and "fit-content(N)" where N is
// a plain number, px or percent.
func ParseStyleUnit(s string) (StyleUnit, error) {
	in := strings.TrimSpace(s)
	switch in {
	case "auto":
		return Auto, nil
	case "min-content":
		return StyleUnit{Kind: UnitMinContent}, nil
	case "max-content":
		return StyleUnit{Kind: UnitMaxContent}, nil
	case "fit-content":
		return StyleUnit{Kind: UnitFitContentPx}, nil
	}

	if arg, ok := strings.CutPrefix(in, "fit-content("); ok {
		arg, ok = strings.CutSuffix(arg, ")")
		if !ok {
			return Auto, badUnit(s)
		}
		kind := UnitFitContentPx
		if num, pct := strings.CutSuffix(arg, "%"); pct {
			kind, arg = UnitFitContentPercent, num
		} else {
			arg = strings.TrimSuffix(arg, "px")
		}
		v, err := parseLength(arg)
		if err != nil {
			return Auto, badUnit(s)
		}
		return StyleUnit{Kind: kind, Value: v}, nil
	}

	for _, suffix := range []struct {
		text string
		kind UnitKind
	}{{"px", UnitPx}, {"%", UnitPercent}, {"fr", UnitFr}} {
		if num, ok := strings.CutSuffix(in, suffix.text); ok {
			v, err := parseLength(num)
			if err != nil {
				return Auto, badUnit(s)
			}
			return StyleUnit{Kind: suffix.kind, Value: v}, nil
		}
	}
	return Auto, badUnit(s)
}

func parseLength(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative length")
	}
	return float32(v), nil
}

func badUnit(s string) error {
	return &ConfigError{Field: "style unit", Reason: fmt.Sprintf("cannot parse %q", s)}
}

// LayoutDirection is the main axis of a container.
type LayoutDirection uint8

const (
	DirectionRow LayoutDirection = iota
	DirectionColumn
)

// Alignment places children on the cross axis.
type Alignment uint8

const (
	AlignStretch Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Justification distributes free main-axis space.
type Justification uint8

const (
	JustifyStart Justification = iota
	JustifyCenter
	JustifyEnd
	JustifyBetween
)

// Style describes one box of a Document.
type Style struct {
	Width, Height StyleUnit

	// Container properties, read from the document root.
	Direction LayoutDirection
	Gap       float32
	Padding   float32
	Align     Alignment
	Justify   Justification

	// Content is the intrinsic size used by auto and the content units,
	// for example a measured TextShape.
	Content Vec2
}

// Layout is a computed box. X and Y are relative to the document origin.
type Layout struct {
	X, Y          float32
	Width, Height float32
	Children      []Layout
}

// Bounds returns the box as hit-test bounds.
func (l Layout) Bounds() Bounds {
	return Bounds{Position: Vec2{l.X, l.Y}, Size: Vec2{l.Width, l.Height}}
}

type docChild struct {
	id    string
	style Style
}

// Document is a single-level flex container with named children, solved by
// the Yoga flexbox algorithm.
type Document struct {
	style    Style
	size     Vec2
	ids      map[string]int
	children []docChild
}

// NewDocument creates a document whose root resolves its style against size.
func NewDocument(style Style, size Vec2) *Document {
	return &Document{style: style, size: size, ids: make(map[string]int)}
}

// SetSize changes the size used by Root and Child.
func (d *Document) SetSize(size Vec2) { d.size = size }

// AddChild appends a child box. IDs must be unique.
func (d *Document) AddChild(id string, style Style) error {
	if _, dup := d.ids[id]; dup {
		return &ConfigError{Field: "child id", Reason: fmt.Sprintf("duplicate id %q", id)}
	}
	d.ids[id] = len(d.children)
	d.children = append(d.children, docChild{id: id, style: style})
	return nil
}

// SetChildStyle replaces the style of an existing child.
func (d *Document) SetChildStyle(id string, style Style) error {
	i, ok := d.ids[id]
	if !ok {
		return &LookupError{ID: id}
	}
	d.children[i].style = style
	return nil
}

// Root computes the layout at the document size.
func (d *Document) Root() Layout { return d.ComputeLayout(d.size) }

// Child computes the layout and returns the box of child id.
func (d *Document) Child(id string) (Layout, error) {
	i, ok := d.ids[id]
	if !ok {
		return Layout{}, &LookupError{ID: id}
	}
	return d.ComputeLayout(d.size).Children[i], nil
}

// ComputeLayout solves the document for the available size.
func (d *Document) ComputeLayout(size Vec2) Layout {
	root := Layout{
		Width:  resolveCross(d.style.Width, size.X, d.style.Content.X, true),
		Height: resolveCross(d.style.Height, size.Y, d.style.Content.Y, true),
	}
	root.Children = d.solve(root.Width, root.Height)
	return root
}

// String computes the layout and summarizes the root as JSON.
func (d *Document) String() string {
	root := d.Root()
	out, _ := json.Marshal(struct {
		Type     string  `json:"type"`
		Width    float32 `json:"width"`
		Height   float32 `json:"height"`
		Children int     `json:"children"`
		X        float32 `json:"x"`
		Y        float32 `json:"y"`
	}{"Document", root.Width, root.Height, len(root.Children), root.X, root.Y})
	return string(out)
}

// solve builds a flex tree for the root and its children and reads the
// computed boxes back. Content-based units are resolved to points first.
func (d *Document) solve(width, height float32) []Layout {
	s := d.style
	row := s.Direction == DirectionRow
	innerW, innerH := max(width-2*s.Padding, 0), max(height-2*s.Padding, 0)

	root := flex.NewNodeWithConfig(flexConfig)
	root.StyleSetWidth(width)
	root.StyleSetHeight(height)
	root.StyleSetPadding(flex.EdgeAll, s.Padding)
	root.StyleSetFlexDirection(flexDirection(s.Direction))
	root.StyleSetJustifyContent(flexJustify(s.Justify))
	root.StyleSetAlignItems(flexAlign(s.Align))

	stretch := s.Align == AlignStretch
	for i, c := range d.children {
		n := flex.NewNodeWithConfig(flexConfig)
		if row {
			setMain(n.StyleSetWidth, n.StyleSetWidthPercent, n, c.style.Width, innerW, c.style.Content.X)
			setCross(n.StyleSetHeight, n.StyleSetHeightPercent, c.style.Height, innerH, c.style.Content.Y, stretch)
		} else {
			setMain(n.StyleSetHeight, n.StyleSetHeightPercent, n, c.style.Height, innerH, c.style.Content.Y)
			setCross(n.StyleSetWidth, n.StyleSetWidthPercent, c.style.Width, innerW, c.style.Content.X, stretch)
		}
		if i > 0 && s.Gap > 0 {
			edge := flex.EdgeTop
			if row {
				edge = flex.EdgeLeft
			}
			n.StyleSetMargin(edge, s.Gap)
		}
		root.InsertChild(n, i)
	}

	flexMu.Lock()
	flex.CalculateLayout(root, width, height, flex.DirectionLTR)
	flexMu.Unlock()

	out := make([]Layout, len(d.children))
	for i, n := range root.Children {
		out[i] = Layout{
			X:      n.LayoutGetLeft(),
			Y:      n.LayoutGetTop(),
			Width:  n.LayoutGetWidth(),
			Height: n.LayoutGetHeight(),
		}
	}
	return out
}

// flexMu serializes layout passes; the flex package keeps a global
// generation counter.
var flexMu sync.Mutex

// flexConfig disables pixel-grid rounding; boxes keep fractional sizes.
var flexConfig = func() *flex.Config {
	c := flex.NewConfig()
	c.PointScaleFactor = 0
	return c
}()

// setMain applies a main-axis unit. Fr becomes flex-grow from a zero basis.
func setMain(points, percent func(float32), n *flex.Node, u StyleUnit, avail, content float32) {
	switch u.Kind {
	case UnitPercent:
		percent(u.Value)
	case UnitFr:
		n.StyleSetFlexGrow(u.Value)
		n.StyleSetFlexBasis(0)
	default:
		points(resolveMain(u, avail, content))
	}
}

// setCross applies a cross-axis unit. Auto is left to the container's
// stretch alignment when it stretches.
func setCross(points, percent func(float32), u StyleUnit, avail, content float32, stretch bool) {
	switch {
	case u.Kind == UnitAuto && stretch:
	case u.Kind == UnitPercent:
		percent(u.Value)
	case u.Kind == UnitFr:
		percent(100)
	default:
		points(resolveMain(u, avail, content))
	}
}

func flexDirection(d LayoutDirection) flex.FlexDirection {
	if d == DirectionColumn {
		return flex.FlexDirectionColumn
	}
	return flex.FlexDirectionRow
}

func flexJustify(j Justification) flex.Justify {
	switch j {
	case JustifyCenter:
		return flex.JustifyCenter
	case JustifyEnd:
		return flex.JustifyFlexEnd
	case JustifyBetween:
		return flex.JustifySpaceBetween
	default:
		return flex.JustifyFlexStart
	}
}

func flexAlign(a Alignment) flex.Align {
	switch a {
	case AlignStart:
		return flex.AlignFlexStart
	case AlignCenter:
		return flex.AlignCenter
	case AlignEnd:
		return flex.AlignFlexEnd
	default:
		return flex.AlignStretch
	}
}

func resolveMain(u StyleUnit, avail, content float32) float32 {
	switch u.Kind {
	case UnitPx:
		return u.Value
	case UnitPercent:
		return avail * u.Value / 100
	case UnitFitContentPx:
		return fitContent(content, u.Value, avail)
	case UnitFitContentPercent:
		return fitContent(content, avail*u.Value/100, avail)
	default:
		return content
	}
}

func resolveCross(u StyleUnit, avail, content float32, stretch bool) float32 {
	if u.Kind == UnitAuto && stretch {
		return avail
	}
	if u.Kind == UnitFr {
		return avail
	}
	return resolveMain(u, avail, content)
}

// fitContent clamps content to limit, or to avail when no limit is given.
func fitContent(content, limit, avail float32) float32 {
	if limit <= 0 {
		limit = avail
	}
	return min(content, limit)
}
