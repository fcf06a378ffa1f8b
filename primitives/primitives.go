package primitives

import "fmt"

// Nodes per chunk edge
const BlockSize = 16

// Default half-width of the rendered window in world units
const DefaultRadius = 1500

type SectorPos struct {
	X, Z int
}

func (p SectorPos) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Z)
}

// ColumnPos is an absolute world (x, z) position of a single node column.
type ColumnPos struct {
	X, Z int
}

// BoundingBox is inclusive on both ends and measured in chunks.
type BoundingBox struct {
	XMin, XMax, ZMin, ZMax int
}

func DefaultBoundingBox() BoundingBox {
	r := DefaultRadius / BlockSize
	return BoundingBox{XMin: -r, XMax: r, ZMin: -r, ZMax: r}
}

func (b BoundingBox) Contains(x, z int) bool {
	return x >= b.XMin && x <= b.XMax && z >= b.ZMin && z <= b.ZMax
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%d..%d]x[%d..%d]", b.XMin, b.XMax, b.ZMin, b.ZMax)
}

type ImageLocation struct {
	World, Variant string
	Box            BoundingBox
	S              int
}

func (i ImageLocation) String() string {
	return fmt.Sprintf("{%s:%s at %ds %s}", i.World, i.Variant, i.S, i.Box.String())
}

// FloorDiv rounds towards negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	r := a % b
	if (r != 0) && ((r > 0) != (b > 0)) {
		q--
	}
	return q
}
