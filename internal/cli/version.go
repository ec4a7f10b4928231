package cli

import (
	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/version"
)

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the fargift version and build metadata.

With --check, also query GitHub for the latest release.

Example:
  fargift version
  fargift version --check`,
	RunE: runVersion,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var versionCheck bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if !versionCheck {
		if formatter.IsJSON() {
			return writeJSON(w, struct {
				Version string `json:"version"`
				Commit  string `json:"commit"`
				Date    string `json:"date"`
			}{version.Version, version.Commit, version.Date})
		}
		outln(w, version.String())
		return nil
	}

	info, err := version.NewClient().Check(cmd.Context())
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return writeJSON(w, info)
	}

	outln(w, version.String())
	out(w, "Latest release: %s\n", info.Latest)
	if info.IsNewer {
		outln(w, "A newer release is available.")
	} else {
		outln(w, "You are up to date.")
	}

	return nil
}
