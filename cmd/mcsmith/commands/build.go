package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mcsmith/internal/app"
	"go.trai.ch/mcsmith/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build the server directory",
		Long: "Build resolves every declared dependency, fetches what changed since the last build " +
			"and rewrites the lockfile of the output directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			rawSkip, _ := cmd.Flags().GetStringSlice("skip")
			jobs, _ := cmd.Flags().GetInt("jobs")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			quiet, _ := cmd.Flags().GetBool("quiet")

			skip, err := domain.ParseStageNames(rawSkip)
			if err != nil {
				return err
			}

			_, err = c.app.Build(cmd.Context(), pathArg(args, 0), app.BuildOptions{
				OutputDir:   output,
				Force:       force,
				Skip:        skip,
				Parallelism: jobs,
				MetricsFile: metricsFile,
				Quiet:       quiet,
			})
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output directory (default \"<server dir>/server\")")
	cmd.Flags().BoolP("force", "f", false, "Refetch every artifact and rewrite every generated file")
	cmd.Flags().StringSlice("skip", nil, "Stages to skip: jar, plugins, mods, worlds, config, launcher")
	cmd.Flags().IntP("jobs", "j", 0, "Concurrent downloads per stage (default one per CPU)")
	cmd.Flags().String("metrics-file", "", "Write build metrics in the Prometheus text format to this file")
	cmd.Flags().BoolP("quiet", "q", false, "Only print warnings and errors")
	return cmd
}
