package preview_test

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/muscle/helpers/preview"
	"github.com/soypat/muscle/nurbs"
	"github.com/soypat/muscle/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

// imgDelta a normalized imgDelta parameter to describe how close the matching
// should be performed (imgDelta=0: perfect match, imgDelta=1, loose match)
const imgDelta = 0

func tube(t testing.TB) []render.Triangle3 {
	ring := []r3.Vec{
		{X: -0.424779, Y: -1.025506}, {X: 0.424779, Y: -1.025506},
		{X: 1.025506, Y: -0.424779}, {X: 1.025506, Y: 0.424779},
		{X: 0.424779, Y: 1.025506}, {X: -0.424779, Y: 1.025506},
		{X: -1.025506, Y: 0.424779}, {X: -1.025506, Y: -0.424779},
	}
	ring = append(ring, ring[0], ring[1], ring[2])
	cvs := make([][]r3.Vec, 4)
	for i := range cvs {
		cvs[i] = make([]r3.Vec, len(ring))
		for j, p := range ring {
			cvs[i][j] = r3.Add(r3.Scale(0.5, p), r3.Vec{Z: float64(i)})
		}
	}
	s, err := nurbs.NewSurface(cvs, []float64{0, 0, 0, 1, 1, 1},
		[]float64{-2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 3, 3, nurbs.Open, nurbs.Periodic)
	if err != nil {
		t.Fatal(err)
	}
	r, err := render.NewSurfaceRenderer(s, 12, 16, true)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return model
}

func encode(t *testing.T, opts preview.Options, model []render.Triangle3) []byte {
	img, err := preview.Render(model, opts)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		t.Fatalf("image size %dx%d, want %dx%d", b.Dx(), b.Dy(), opts.Width, opts.Height)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderDeterministic(t *testing.T) {
	model := tube(t)
	opts := preview.DefaultOptions()
	opts.Width, opts.Height = 160, 120
	opts.Label = preview.LengthLabel(3)
	b1 := encode(t, opts, model)
	b2 := encode(t, opts, model)
	equal, err := cmpimg.EqualApprox("png", b1, b2, imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("renders of the same mesh differ")
	}
	opts.Label = ""
	b3 := encode(t, opts, model)
	equal, err = cmpimg.EqualApprox("png", b1, b3, imgDelta)
	if err != nil {
		t.Fatal(err)
	}
	if equal {
		t.Error("label did not change the image")
	}
}

func TestSave(t *testing.T) {
	opts := preview.DefaultOptions()
	opts.Width, opts.Height, opts.Supersample = 64, 48, 1
	img, err := preview.Render(tube(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "tube.png")
	if err := preview.Save(pngPath, img); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	if _, err := png.Decode(fp); err != nil {
		t.Errorf("decoding saved png: %v", err)
	}
	webpPath := filepath.Join(dir, "tube.webp")
	if err := preview.Save(webpPath, img); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(webpPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 12 || string(b[:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Error("saved webp lacks RIFF/WEBP header")
	}
	if err := preview.Save(filepath.Join(dir, "tube.gif"), img); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRenderInvalid(t *testing.T) {
	if _, err := preview.Render(nil, preview.DefaultOptions()); err == nil {
		t.Error("expected error for empty model")
	}
	opts := preview.DefaultOptions()
	opts.Width = 0
	if _, err := preview.Render(tube(t), opts); err == nil {
		t.Error("expected error for zero width")
	}
}
