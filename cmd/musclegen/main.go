// musclegen builds procedural muscle meshes from a YAML rig description and
// snaps meshes onto driver meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/soypat/muscle"
	"github.com/soypat/muscle/helpers/preview"
	"github.com/soypat/muscle/internal/config"
	"github.com/soypat/muscle/internal/logger"
	"github.com/soypat/muscle/render"
	"github.com/soypat/muscle/snap"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

var errUsage = errors.New("usage: musclegen <build|length|snap|config> [options]")

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage(stdout)
		return errUsage
	}
	command, args := args[0], args[1:]
	switch command {
	case "build":
		return cmdBuild(args)
	case "length":
		return cmdLength(args, stdout)
	case "snap":
		return cmdSnap(args)
	case "config":
		return cmdConfig(args)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	}
	printUsage(stdout)
	return fmt.Errorf("unknown command %q", command)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `musclegen - procedural muscle surfaces

Usage:
  musclegen <command> [options]

Commands:
  build   [-config rig.yaml] [-o out.stl] [-preview out.png]  Write the muscle mesh
  length  [-config rig.yaml]                                  Print the backbone length and volume
  snap    -driven in.stl -driver drv.stl -o out.stl           Snap a mesh onto a driver mesh
  config  -o rig.yaml                                         Write the default rig

Examples:
  musclegen build -config biceps.yaml -volume -rest 12 -preview biceps.webp
  musclegen length -config biceps.yaml
  musclegen snap -driven skin.stl -driver muscle.stl -o snapped.stl -kd`)
}

// setup parses rig flags, loads the config and initializes logging.
func setup(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.ConfigPath(), f)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// evaluate runs the rig through a Node. In volume mode without a stored rest
// length the live length of the unscaled muscle becomes the rest length.
func evaluate(cfg *config.Config) (*muscle.Result, error) {
	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	node := muscle.NewNode(muscle.WithLogger(logger.Log), muscle.WithRestLength(cfg.Muscle.RestLength))
	if p.CalculateVolume && cfg.Muscle.RestLength == 0 {
		rest := p
		rest.CalculateVolume = false
		if _, err := node.Evaluate(rest); err != nil {
			return nil, err
		}
	}
	return node.Evaluate(p)
}

func cmdBuild(args []string) error {
	cfg, err := setup("build", args)
	if err != nil {
		return err
	}
	res, err := evaluate(cfg)
	if err != nil {
		return err
	}
	out := cfg.Output
	r, err := render.NewSurfaceRenderer(res.Surface, out.DivsU, out.DivsV, out.Caps)
	if err != nil {
		return err
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return err
	}
	if err := writeSTL(out.STL, model); err != nil {
		return err
	}
	logger.Log.Info("wrote muscle mesh",
		zap.String("path", out.STL),
		zap.Int("triangles", len(model)),
		zap.Float64("length", res.Length),
		zap.Float64("scale", res.Scale),
	)
	if out.Preview == "" {
		return nil
	}
	opts := preview.DefaultOptions()
	opts.Width, opts.Height = out.Width, out.Height
	opts.Label = preview.LengthLabel(res.Length)
	img, err := preview.Render(model, opts)
	if err != nil {
		return err
	}
	if err := preview.Save(out.Preview, img); err != nil {
		return err
	}
	logger.Log.Info("wrote preview", zap.String("path", out.Preview))
	return nil
}

func cmdLength(args []string, stdout io.Writer) error {
	cfg, err := setup("length", args)
	if err != nil {
		return err
	}
	res, err := evaluate(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "length:      %.6f\n", res.Length)
	fmt.Fprintf(stdout, "rest length: %.6f\n", res.RestLength)
	fmt.Fprintf(stdout, "scale:       %.6f\n", res.Scale)
	r, err := render.NewSurfaceRenderer(res.Surface, cfg.Output.DivsU, cfg.Output.DivsV, true)
	if err != nil {
		return err
	}
	model, err := render.RenderAll(r)
	if err != nil {
		return err
	}
	m, err := render.Weld(model, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "volume:      %.6f\n", math.Abs(m.Volume()))
	return nil
}

func cmdSnap(args []string) error {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	driven := fs.String("driven", "", "STL mesh to deform")
	driver := fs.String("driver", "", "STL mesh providing target vertices")
	output := fs.String("o", "snapped.stl", "Output STL path")
	weight := fs.Float64("weight", 1, "Deformer envelope")
	kd := fs.Bool("kd", false, "Use k-d tree nearest vertex search")
	level := fs.String("log", "info", "Log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *driven == "" || *driver == "" {
		return errors.New("snap: -driven and -driver are required")
	}
	if err := logger.Init(*level, ""); err != nil {
		return err
	}
	drivenMesh, err := readMesh(*driven)
	if err != nil {
		return err
	}
	driverMesh, err := readMesh(*driver)
	if err != nil {
		return err
	}
	d := snap.New(logger.Log)
	d.Envelope = *weight
	if *kd {
		d.Search = snap.KDTree
	}
	if err := d.Deform(drivenMesh.Vertices, nil, nil, driverMesh.Vertices); err != nil {
		return err
	}
	if err := writeSTL(*output, drivenMesh.Triangles()); err != nil {
		return err
	}
	logger.Log.Info("wrote snapped mesh",
		zap.String("path", *output),
		zap.Int("vertices", len(drivenMesh.Vertices)),
		zap.Int("snapped", d.Mapped()),
	)
	return nil
}

func writeSTL(path string, model []render.Triangle3) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := render.WriteSTL(fp, model); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fp.Close()
}

func readMesh(path string) (*render.Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	if err != nil && !errors.Is(err, render.ErrNormalMismatch) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return render.Weld(model, 0)
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", config.DefaultPath, "Output YAML path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return config.Default().SaveTo(*output)
}
