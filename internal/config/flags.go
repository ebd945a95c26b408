package config

import "flag"

// Flags are command line overrides applied on top of the config file.
type Flags struct {
	Config     *string
	Debug      *bool
	STL        *string
	Preview    *string
	Volume     *bool
	RestLength *float64
	DivsU      *int
	DivsV      *int
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:     fs.String("config", "", "Path to rig config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		STL:        fs.String("o", "", "Output STL path"),
		Preview:    fs.String("preview", "", "Output preview image path (.png or .webp)"),
		Volume:     fs.Bool("volume", false, "Preserve volume"),
		RestLength: fs.Float64("rest", 0, "Rest length for volume preservation"),
		DivsU:      fs.Int("divsu", 0, "Tessellation divisions along the muscle"),
		DivsV:      fs.Int("divsv", 0, "Tessellation divisions around the muscle"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.Config
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if *f.STL != "" {
		cfg.Output.STL = *f.STL
	}
	if *f.Preview != "" {
		cfg.Output.Preview = *f.Preview
	}
	if *f.Volume {
		cfg.Muscle.CalculateVolume = true
	}
	if *f.RestLength > 0 {
		cfg.Muscle.RestLength = *f.RestLength
	}
	if *f.DivsU > 0 {
		cfg.Output.DivsU = *f.DivsU
	}
	if *f.DivsV > 0 {
		cfg.Output.DivsV = *f.DivsV
	}
}
