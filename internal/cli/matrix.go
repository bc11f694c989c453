package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"collection-sessions/internal/app"
)

type matrixOptions struct {
	SessionsFile string
	MinCore      string
	MaxCore      string
	JSONOutput   string
}

func newMatrixCommand() *cobra.Command {
	opts := matrixOptions{}
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Generate a session job matrix for CI systems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatrix(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SessionsFile, "sessions", "sessions.json", "Registered sessions JSON file")
	cmd.Flags().StringVar(&opts.MinCore, "min-core", "", "Minimum ansible-core version")
	cmd.Flags().StringVar(&opts.MaxCore, "max-core", "", "Maximum ansible-core version")
	cmd.Flags().StringVar(&opts.JSONOutput, "json-output", "", "Write filtered matrix JSON to this path")

	return cmd
}

func runMatrix(cmd *cobra.Command, opts matrixOptions) error {
	service := newAppService()
	registry, err := service.Matrix(cmd.Context(), app.MatrixRequest{
		SessionsFile: opts.SessionsFile,
		MinCore:      opts.MinCore,
		MaxCore:      opts.MaxCore,
		JSONOutput:   opts.JSONOutput,
		GithubOutput: os.Getenv("GITHUB_OUTPUT"),
	})
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(registry)
}
