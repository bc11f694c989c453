package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"collection-sessions/internal/app"
)

type setupOptions struct {
	Destination      string
	GlobalCacheDir   string
	ExtraCollections []string
	ExtraDepsFiles   []string
	NoCurrent        bool
	Snapshot         bool
}

func newSetupCommand() *cobra.Command {
	opts := setupOptions{}
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Assemble an isolated collection tree for the current collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Destination, "dest", ".collection-sessions", "Destination directory")
	cmd.Flags().StringVar(&opts.GlobalCacheDir, "global-cache-dir", "", "Global collection cache directory")
	cmd.Flags().StringSliceVar(&opts.ExtraCollections, "extra-collection", nil, "Additional required collection(s)")
	cmd.Flags().StringSliceVar(&opts.ExtraDepsFiles, "extra-deps-file", nil, "Additional dependency file(s)")
	cmd.Flags().BoolVar(&opts.NoCurrent, "no-current", false, "Do not install the current collection")
	cmd.Flags().BoolVar(&opts.Snapshot, "snapshot", false, "Deep-copy the current collection only")

	_ = viper.BindPFlag("dest", cmd.Flags().Lookup("dest"))
	_ = viper.BindPFlag("global_cache_dir", cmd.Flags().Lookup("global-cache-dir"))

	return cmd
}

func runSetup(cmd *cobra.Command, opts setupOptions) error {
	ctx := cmd.Context()
	service := newAppService()
	dest := resolveString(cmd, opts.Destination, "dest", "dest")
	cacheDir := resolveString(cmd, opts.GlobalCacheDir, "global_cache_dir", "global-cache-dir")

	if opts.Snapshot {
		result, err := service.SetupCurrentTree(ctx, dest, cacheDir)
		if err != nil {
			return err
		}
		fmt.Printf("root: %s\ncurrent: %s\n", result.Root, result.CurrentPath)
		return nil
	}

	result, err := service.SetupTree(ctx, app.SetupTreeRequest{
		Destination:      dest,
		GlobalCacheDir:   cacheDir,
		ExtraCollections: opts.ExtraCollections,
		ExtraDepsFiles:   opts.ExtraDepsFiles,
		WithCurrent:      !opts.NoCurrent,
	})
	if err != nil {
		return err
	}
	fmt.Printf("root: %s\n", result.Root)
	if result.CurrentPath != "" {
		fmt.Printf("current: %s\n", result.CurrentPath)
	}
	return nil
}

// resolveString prefers an explicitly set flag, then the viper key,
// then the flag value (its default).
func resolveString(cmd *cobra.Command, value string, viperKey string, flagName string) string {
	if cmd.Flags().Changed(flagName) {
		return value
	}
	if viper.IsSet(viperKey) {
		return viper.GetString(viperKey)
	}
	return value
}
