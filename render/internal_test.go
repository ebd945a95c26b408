package render

import (
	"errors"
	"io"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangleNormal(t *testing.T) {
	tri := Triangle3{V: [3]r3.Vec{{}, {X: 2}, {Y: 3}}}
	if got := tri.Normal(); got != (r3.Vec{Z: 1}) {
		t.Errorf("normal: got %v", got)
	}
	if tri.Degenerate(1e-12) {
		t.Error("triangle should not be degenerate")
	}
	flat := Triangle3{V: [3]r3.Vec{{}, {X: 1}, {X: 2}}}
	if !flat.Degenerate(1e-12) {
		t.Error("collinear triangle should be degenerate")
	}
	if got := flat.Normal(); got != (r3.Vec{}) {
		t.Errorf("degenerate normal: got %v", got)
	}
}

func TestSTLValidate(t *testing.T) {
	tri := fromTriangle3(Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}})
	if err := tri.validate(); err != nil {
		t.Fatal(err)
	}
	tri.Normal = [3]float32{1, 0, 0}
	if err := tri.validate(); !errors.Is(err, ErrNormalMismatch) {
		t.Errorf("expected normal mismatch, got %v", err)
	}
	tri.Vertex2[0] = float32(math.NaN())
	if err := tri.validate(); err == nil || errors.Is(err, ErrNormalMismatch) {
		t.Errorf("expected NaN vertex error, got %v", err)
	}
}

// chunkRenderer returns its last triangles together with io.EOF.
type chunkRenderer struct {
	left int
}

func (c *chunkRenderer) ReadTriangles(t []Triangle3) (int, error) {
	n := min(len(t), c.left, 3)
	for i := range t[:n] {
		t[i] = Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: float64(c.left)}}}
		c.left--
	}
	if c.left == 0 {
		return n, io.EOF
	}
	return n, nil
}

func TestRenderAllKeepsLastChunk(t *testing.T) {
	model, err := RenderAll(&chunkRenderer{left: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != 7 {
		t.Errorf("got %d triangles, want 7", len(model))
	}
}

func TestSTLReaderSmallBuffer(t *testing.T) {
	rd := &stlReader{r: &chunkRenderer{left: 5}}
	var b [120]byte
	n, err := rd.Read(b[:])
	if err != nil {
		t.Fatal(err)
	}
	if n != 100 {
		t.Errorf("encoded %d bytes, want 100", n)
	}
	if _, err := rd.Read(b[:40]); err == nil {
		t.Error("expected error for buffer smaller than a triangle")
	}
}
