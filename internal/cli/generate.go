package cli

import (
	"github.com/kolah/ctrlgen/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate code from OpenAPI specification",
	}

	config.BindCommonFlags(cmd)
	cmd.AddCommand(NewGoCmd())

	return cmd
}

// newLogger writes to the command's stderr. --verbose enables debug entries.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
