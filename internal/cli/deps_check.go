package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
)

type depsCheckOptions struct {
	GlobalCacheDir string
}

func newDepsCheckCommand() *cobra.Command {
	opts := depsCheckOptions{}
	cmd := &cobra.Command{
		Use:   "deps-check",
		Short: "Check declared dependency constraints against found collection versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDepsCheck(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.GlobalCacheDir, "global-cache-dir", "", "Global collection cache directory")
	return cmd
}

func runDepsCheck(cmd *cobra.Command, opts depsCheckOptions) error {
	service := newAppService()
	violations, err := service.CheckDependencyConstraints(cmd.Context(), opts.GlobalCacheDir)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		fmt.Println("all dependency constraints satisfied")
		return nil
	}
	for _, violation := range violations {
		fmt.Printf(
			"%s requires %s %s, found %s\n",
			violation.Collection, violation.Dependency, violation.Constraint, violation.Found,
		)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%d dependency constraint violation(s)", len(violations)))
}
