// Package preview rasterizes triangle meshes into shaded images with an
// optional text label, for quick inspection of generated muscles.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/muscle/render"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r3"
)

// View describes the camera. The mesh is fit in a bi-unit cube centered at
// the origin before rendering.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye is located (point)
	Eye       r3.Vec
	Near, Far float64
	// Vertical field of view in degrees.
	FOVY float64
}

// Options configures Render.
type Options struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples
	// for antialiasing. Values below 1 are treated as 1.
	Supersample int
	View        View
	// Hex colors.
	Color, Background string
	// Label is drawn in the lower left corner when not empty.
	Label string
}

// DefaultOptions returns a 640x480 view looking at the origin from (3,3,3)
// with Z up.
func DefaultOptions() Options {
	return Options{
		Width:       640,
		Height:      480,
		Supersample: 2,
		View: View{
			Up:   r3.Vec{Z: 1},
			Eye:  r3.Vec{X: 3, Y: 3, Z: 3},
			Near: 1,
			Far:  10,
			FOVY: 30,
		},
		Color:      "#A63C3C",
		Background: "#FFF8E3",
	}
}

// LengthLabel formats a muscle length for use as a label.
func LengthLabel(length float64) string {
	return fmt.Sprintf("length %.4g", length)
}

// Render draws model with a Phong shader and returns the image.
func Render(model []render.Triangle3, opts Options) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("preview: empty triangle slice")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid image size %dx%d", opts.Width, opts.Height)
	}
	scale := max(opts.Supersample, 1)
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if t.Degenerate(0) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2])))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	v := opts.View
	var (
		eye    = vec(v.Eye)
		center = vec(v.LookAt)
		up     = vec(v.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(opts.Width*scale, opts.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(opts.Background))
	aspect := float64(opts.Width) / float64(opts.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(v.FOVY, aspect, v.Near, v.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(opts.Color)
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	if opts.Label == "" {
		return img, nil
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Copy(dst, image.Point{}, img, img.Bounds(), draw.Src, nil)
	if err := drawLabel(dst, opts.Label); err != nil {
		return nil, err
	}
	return dst, nil
}

func drawLabel(dst *image.RGBA, label string) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("preview: parsing font: %w", err)
	}
	h := dst.Bounds().Dy()
	size := max(float64(h)/32, 8)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("preview: creating font face: %w", err)
	}
	defer face.Close()
	margin := int(size / 2)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(dst.Bounds().Min.X+margin, dst.Bounds().Max.Y-margin),
	}
	drawer.DrawString(label)
	return nil
}

// Save writes img to path as PNG or WebP depending on the file extension.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".webp" {
		return fmt.Errorf("preview: unsupported image extension %q", ext)
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	switch ext {
	case ".png":
		err = png.Encode(fp, img)
	case ".webp":
		err = nativewebp.Encode(fp, img, nil)
	}
	if err != nil {
		return fmt.Errorf("preview: encoding %s: %w", path, err)
	}
	return fp.Close()
}

func vec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
