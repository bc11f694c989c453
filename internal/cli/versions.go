package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"collection-sessions/internal/app"
)

type versionsOptions struct {
	Min              string
	Max              string
	Except           []string
	IncludeDevel     bool
	IncludeMilestone bool
	Source           string
	JSON             bool
}

func newVersionsCommand() *cobra.Command {
	opts := versionsOptions{}
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List supported ansible-core versions and their install locators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersions(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Min, "min", "", "Minimum ansible-core version (inclusive)")
	cmd.Flags().StringVar(&opts.Max, "max", "", "Maximum ansible-core version (inclusive)")
	cmd.Flags().StringSliceVar(&opts.Except, "except", nil, "Version(s) to exclude")
	cmd.Flags().BoolVar(&opts.IncludeDevel, "include-devel", false, "Include the devel tip")
	cmd.Flags().BoolVar(&opts.IncludeMilestone, "include-milestone", false, "Include the milestone tip")
	cmd.Flags().StringVar(&opts.Source, "source", "git", "Package source (git or pypi)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit JSON")

	return cmd
}

func runVersions(cmd *cobra.Command, opts versionsOptions) error {
	service := newAppService()
	reports, err := service.SupportedVersions(cmd.Context(), app.VersionsRequest{
		Min:              opts.Min,
		Max:              opts.Max,
		Except:           opts.Except,
		IncludeDevel:     opts.IncludeDevel,
		IncludeMilestone: opts.IncludeMilestone,
		Source:           opts.Source,
	})
	if err != nil {
		return err
	}
	if opts.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	}
	for _, report := range reports {
		marker := ""
		if report.EOL {
			marker = " (EOL)"
		}
		if report.Resolved != "" {
			fmt.Printf("%s -> %s%s: %s\n", report.Version, report.Resolved, marker, report.Package)
			continue
		}
		fmt.Printf("%s%s: %s\n", report.Version, marker, report.Package)
	}
	return nil
}
