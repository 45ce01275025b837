// Package config implements the project configuration tree (spec.md §6's
// model.* key table), grounded directly on the teacher's inmaputil/cmd.go:
// a Cfg struct wrapping *viper.Viper, bound to pflag flag sets and read
// from a project file via viper's multi-format support (JSON/YAML/TOML).
package config

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/pflag"
)

// Cfg wraps a *viper.Viper tree holding every model.* configuration key
// (spec.md §6), plus the input/output file paths the CLI resolved.
type Cfg struct {
	V *viper.Viper

	ProjectFile string
	OutputDir   string
}

// option declares one configuration key: its viper path, usage string and
// default value — the same declarative shape as the teacher's `options` table
// in inmaputil/cmd.go.
type option struct {
	name       string
	usage      string
	defaultVal interface{}
}

// options is the full model.* key table (spec.md §6), bound to viper
// defaults at New and to CLI flags by BindFlags.
var options = []option{
	{"model.world.extent.xmin", "landscape extent minimum X, m", 0.0},
	{"model.world.extent.ymin", "landscape extent minimum Y, m", 0.0},
	{"model.world.extent.xmax", "landscape extent maximum X, m", 1000.0},
	{"model.world.extent.ymax", "landscape extent maximum Y, m", 1000.0},
	{"model.world.cellsize.lif", "light-influence-field cell size, m", 2.0},
	{"model.world.cellsize.height", "height grid cell size, m", 10.0},
	{"model.world.cellsize.ru", "resource-unit grid cell size, m", 100.0},
	{"model.world.torus", "wrap the light-influence field as a torus", false},
	{"model.world.latitude", "site latitude, degrees, for phenology", 47.0},
	{"model.settings.randomSeed", "global RNG seed", int64(1)},
	{"model.settings.expressionLinearizationEnabled", "cache expensive expression evaluations", true},
	{"model.climate.file", "path to the climate input table", ""},
	{"model.species.file", "path to the species parameter table", ""},
	{"model.output.directory", "directory for tabular output files", "./output"},
	{"model.output.flushInterval", "years between output table flushes", 10},
}

// New returns a Cfg with every model.* key set to its declared default.
func New() *Cfg {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.name, o.defaultVal)
	}
	v.SetEnvPrefix("FOREST")
	v.AutomaticEnv()
	return &Cfg{V: v}
}

// BindFlags registers every option on fs and binds it back into the viper
// tree, matching the teacher's cfg.BindPFlag calls in inmaputil/cmd.go.
func (c *Cfg) BindFlags(fs *pflag.FlagSet) error {
	for _, o := range options {
		switch d := o.defaultVal.(type) {
		case float64:
			fs.Float64(o.name, d, o.usage)
		case int:
			fs.Int(o.name, d, o.usage)
		case int64:
			fs.Int64(o.name, d, o.usage)
		case bool:
			fs.Bool(o.name, d, o.usage)
		case string:
			fs.String(o.name, d, o.usage)
		default:
			return fmt.Errorf("config: option %q has unsupported default type %T", o.name, d)
		}
		if err := c.V.BindPFlag(o.name, fs.Lookup(o.name)); err != nil {
			return fmt.Errorf("config: bind flag %q: %w", o.name, err)
		}
	}
	return nil
}

// ReadProjectFile loads path (JSON, YAML or TOML, detected by extension via
// viper) and merges it over the defaults/flags already set.
func (c *Cfg) ReadProjectFile(path string) error {
	c.V.SetConfigFile(path)
	if err := c.V.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read project file %q: %w", path, err)
	}
	c.ProjectFile = path
	return nil
}
