package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolah/ctrlgen/internal/codegen"
	"github.com/kolah/ctrlgen/internal/config"
	"github.com/kolah/ctrlgen/internal/loader"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewGoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go",
		Short: "Generate Go code from OpenAPI spec",
	}

	config.BindGoFlags(cmd)

	cmd.AddCommand(
		newGoControllersCmd(),
		newGoSpecCmd(),
		newGoAllCmd(),
	)

	return cmd
}

func newGoControllersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "controllers",
		Short: "Generate request shapes, controller interfaces and routers",
		RunE:  runGoGenerate(config.TargetControllers),
	}
}

func newGoSpecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spec",
		Short: "Generate embedded OpenAPI spec",
		RunE:  runGoGenerate(config.TargetSpec),
	}
}

func newGoAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Generate all Go targets (controllers, spec)",
		RunE:  runGoGenerate(config.TargetAll),
	}
}

func runGoGenerate(target string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)

		cfg, err := config.Load(cmd, []string{target})
		if err != nil {
			return err
		}

		result, err := loader.LoadFile(cfg.Spec)
		if err != nil {
			return fmt.Errorf("loading spec: %w", err)
		}

		doc, err := loader.Transform(result)
		if err != nil {
			return fmt.Errorf("transforming spec: %w", err)
		}

		for _, w := range result.Warnings {
			logger.Warn(w)
		}

		logger.WithFields(logrus.Fields{
			"openapi":    result.Version,
			"title":      doc.Info.Title,
			"version":    doc.Info.Version,
			"paths":      len(doc.Paths),
			"operations": doc.OperationCount(),
			"schemas":    len(doc.Schemas),
		}).Info("loaded document")

		gen, err := codegen.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		outputs, err := gen.Generate(doc, result.RawData)
		if err != nil {
			return fmt.Errorf("generating code: %w", err)
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if dryRun {
			for _, out := range outputs {
				cmd.Printf("// %s\n%s\n", out.Filename, out.Content)
			}
			return nil
		}

		if err := os.MkdirAll(cfg.Go.OutputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		for _, out := range outputs {
			path := filepath.Join(cfg.Go.OutputDir, out.Filename)
			if err := os.WriteFile(path, []byte(out.Content), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			logger.WithField("file", path).Info("written")
		}

		return nil
	}
}
