// Package config handles musclegen rig configuration loading and management.
package config

// Config describes a muscle rig and what to produce from it.
type Config struct {
	Muscle      MuscleConfig       `yaml:"muscle"`
	Surfaces    []SurfaceConfig    `yaml:"surfaces"`
	Attachments []AttachmentConfig `yaml:"attachments"`
	Output      OutputConfig       `yaml:"output"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// Vec3 is a point or direction written as [x, y, z].
type Vec3 [3]float64

// MuscleConfig holds the muscle shape parameters.
type MuscleConfig struct {
	CalculateVolume bool    `yaml:"calculate_volume"`
	OriginOffset    Vec3    `yaml:"origin_offset,flow"`
	InsertionOffset Vec3    `yaml:"insertion_offset,flow"`
	OriginLock      bool    `yaml:"origin_lock"`
	InsertionLock   bool    `yaml:"insertion_lock"`
	RestHeightO     float64 `yaml:"rest_height_o"`
	RestHeightOv    float64 `yaml:"rest_height_ov"`
	RestHeightIv    float64 `yaml:"rest_height_iv"`
	RestHeightI     float64 `yaml:"rest_height_i"`
	RestWidthOv     float64 `yaml:"rest_width_ov"`
	RestWidthIv     float64 `yaml:"rest_width_iv"`
	// RestLength is used in volume mode. Zero takes the live length of the
	// first evaluation.
	RestLength float64 `yaml:"rest_length"`
}

// Surface types.
const (
	SurfacePlane = "plane"
	SurfaceNURBS = "nurbs"
)

// SurfaceConfig describes a named driving surface. Planes use Origin, UAxis
// and VAxis; NURBS patches use the remaining fields with host style knot
// vectors.
type SurfaceConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	Origin Vec3 `yaml:"origin,flow,omitempty"`
	UAxis  Vec3 `yaml:"u_axis,flow,omitempty"`
	VAxis  Vec3 `yaml:"v_axis,flow,omitempty"`

	CVs       [][]Vec3  `yaml:"cvs,omitempty"`
	KnotsU    []float64 `yaml:"knots_u,flow,omitempty"`
	KnotsV    []float64 `yaml:"knots_v,flow,omitempty"`
	DegreeU   int       `yaml:"degree_u,omitempty"`
	DegreeV   int       `yaml:"degree_v,omitempty"`
	PeriodicU bool      `yaml:"periodic_u,omitempty"`
	PeriodicV bool      `yaml:"periodic_v,omitempty"`
}

// AttachmentConfig pins a muscle end to a surface. Up is one of normal,
// tangentU or tangentV.
type AttachmentConfig struct {
	Surface string  `yaml:"surface"`
	U       float64 `yaml:"u"`
	V       float64 `yaml:"v"`
	Up      string  `yaml:"up"`
	Flip    bool    `yaml:"flip"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	STL     string `yaml:"stl"`
	Preview string `yaml:"preview"` // .png or .webp, empty to skip
	DivsU   int    `yaml:"divs_u"`
	DivsV   int    `yaml:"divs_v"`
	Caps    bool   `yaml:"caps"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a straight muscle of length 5 attached to a single plane.
func Default() *Config {
	return &Config{
		Muscle: MuscleConfig{
			RestHeightO:  1,
			RestHeightOv: 1,
			RestHeightIv: 1,
			RestHeightI:  1,
			RestWidthOv:  1,
			RestWidthIv:  1,
		},
		Surfaces: []SurfaceConfig{
			{Name: "plane", Type: SurfacePlane, UAxis: Vec3{0, 0, 5}, VAxis: Vec3{1, 0, 0}},
		},
		Attachments: []AttachmentConfig{
			{Surface: "plane", U: 0, V: 0, Up: "normal"},
			{Surface: "plane", U: 0, V: 1, Up: "normal"},
			{Surface: "plane", U: 1, V: 0, Up: "normal"},
			{Surface: "plane", U: 1, V: 1, Up: "normal"},
		},
		Output: OutputConfig{
			STL:    "muscle.stl",
			DivsU:  24,
			DivsV:  32,
			Caps:   true,
			Width:  640,
			Height: 480,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
