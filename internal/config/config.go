package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is picked up from the working directory when no --config is given.
const DefaultFile = "ctrlgen.yaml"

const (
	TargetControllers = "controllers"
	TargetSpec        = "spec"
	TargetAll         = "all"
)

type Config struct {
	Spec      string         `koanf:"spec"`
	Templates TemplateConfig `koanf:"templates"`
	Go        GoConfig       `koanf:"go"`
}

type GoConfig struct {
	OutputDir       string        `koanf:"output-dir"`
	Package         string        `koanf:"package"`
	RuntimeImport   string        `koanf:"runtime-import"`
	ParameterOrder  string        `koanf:"parameter-order"`
	OnCollision     string        `koanf:"on-collision"`
	SchemasRegistry string        `koanf:"schemas-registry"`
	Types           TypesConfig   `koanf:"types"`
	OutputOptions   OutputOptions `koanf:"output-options"`
	Targets         []string      `koanf:"targets"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

// TypesConfig points the generated controllers at component types declared
// in another package. Both fields are empty when the types are emitted
// alongside the controllers.
type TypesConfig struct {
	Package string `koanf:"package"`
	Import  string `koanf:"import"`
}

type OutputOptions struct {
	AdditionalInitialisms []string `koanf:"additional-initialisms"`
}

// BindCommonFlags binds language-agnostic flags to the generate command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.String("templates", "", "Custom templates directory")
	flags.Bool("dry-run", false, "Print output without writing files")
	flags.BoolP("verbose", "v", false, "Log every generated controller")
}

// BindGoFlags binds the Go generator flags to cmd.
func BindGoFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("output-dir", "o", "", "Output directory for generated Go code")
	flags.StringP("package", "p", "", "Go package name (default: "+controller.DefaultPackage+")")
	flags.String("runtime-import", "", "Import path of the router runtime")
	flags.String("parameter-order", "", "Parameter merge order: source, path-first")
	flags.String("on-collision", "", "Identifier collisions: error, overwrite")
	flags.String("schemas-registry", "", "Variable name of the compiled schema registry")
	flags.String("types-package", "", "Package name of externally declared component types")
	flags.String("types-import", "", "Import path of externally declared component types")
	flags.StringSlice("additional-initialisms", nil, "Additional initialisms")
}

func Load(cmd *cobra.Command, targets []string) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// CLI targets override config file targets
	if len(targets) > 0 {
		cfg.Go.Targets = targets
	}
	cfg.Go.Targets = expandTargets(cfg.Go.Targets)

	if cfg.Go.Package == "" {
		cfg.Go.Package = controller.DefaultPackage
	}
	if cfg.Go.RuntimeImport == "" {
		cfg.Go.RuntimeImport = controller.DefaultRuntimeImport
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func expandTargets(targets []string) []string {
	var result []string
	for _, t := range targets {
		if t == TargetAll {
			result = append(result, TargetControllers, TargetSpec)
		} else {
			result = append(result, t)
		}
	}
	return result
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("templates"); v != "" {
		m["templates.dir"] = v
	}

	keys := map[string]string{
		"output-dir":       "go.output-dir",
		"package":          "go.package",
		"runtime-import":   "go.runtime-import",
		"parameter-order":  "go.parameter-order",
		"on-collision":     "go.on-collision",
		"schemas-registry": "go.schemas-registry",
		"types-package":    "go.types.package",
		"types-import":     "go.types.import",
	}
	for flag, key := range keys {
		if v := getString(flag); v != "" {
			m[key] = v
		}
	}
	if v := getStringSlice("additional-initialisms"); len(v) > 0 {
		m["go.output-options.additional-initialisms"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.Go.Package == "" {
		return fmt.Errorf("package name is required")
	}
	if c.Go.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if (c.Go.Types.Package == "") != (c.Go.Types.Import == "") {
		return fmt.Errorf("types package and types import must be set together")
	}

	if err := c.BuilderOptions().Validate(); err != nil {
		return err
	}

	validTargets := map[string]bool{TargetControllers: true, TargetSpec: true}
	for _, t := range c.Go.Targets {
		if !validTargets[t] {
			return fmt.Errorf("invalid target: %s (valid: %s, %s, %s)", t, TargetControllers, TargetSpec, TargetAll)
		}
	}

	return nil
}

// BuilderOptions maps the Go settings onto the controller builder options.
func (c *Config) BuilderOptions() controller.Options {
	return controller.Options{
		Package:            c.Go.Package,
		RuntimeImport:      c.Go.RuntimeImport,
		ParameterOrder:     controller.ParameterOrder(c.Go.ParameterOrder),
		OnCollision:        controller.CollisionMode(c.Go.OnCollision),
		TypesRegistry:      c.Go.Types.Package,
		ValidatorsRegistry: c.Go.SchemasRegistry,
	}
}

// HasTarget checks if a specific target should be generated
func (c *Config) HasTarget(target string) bool {
	return slices.Contains(c.Go.Targets, target)
}
