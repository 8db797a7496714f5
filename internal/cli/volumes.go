package cli

import (
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/logging"
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/ui"
)

var volumeOutputs = []string{"widget", "table", "json"}

// getVolumes is replaced in tests
var getVolumes = model.GetVolumes

func newVolumesCmd(global *globalOptions) *cobra.Command {
	var (
		size        string
		output      string
		percentFree bool
	)

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List mounted volumes with their capacity",
		Long: heredoc.Doc(`
			List the volumes a user would browse, in the order the OS reports
			them. Hidden and network volumes are left out.

			--size caps the list like a desktop widget would:
			small shows 1 volume, medium 4, large 8, all shows every volume.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := config.ParseSizeClass(size)
			if err != nil {
				return err
			}
			if !slices.Contains(volumeOutputs, output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", output, volumeOutputs)
			}

			var percentFull bool
			if cmd.Flags().Changed("percent-free") {
				percentFull = !percentFree
			} else {
				settings := global.loadSettings(cmd)
				percentFull = settings.Settings().ShowPercentFull
			}

			// An unreadable mount table still yields what was read
			vols, err := getVolumes()
			if err != nil {
				if len(vols) == 0 {
					return fmt.Errorf("listing volumes: %w", err)
				}
				logging.App.Debug().Err(err).Int("volumes", len(vols)).Msg("volume list incomplete")
			}
			vols = ui.LimitVolumes(vols, class)

			switch output {
			case "json":
				return PrintVolumesJSON(vols, cmd.OutOrStdout())
			case "table":
				return PrintVolumesTable(vols, percentFull, cmd.OutOrStdout())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(vols, class, percentFull))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&size, "size", string(config.SizeAll), "How many volumes to show: small, medium, large or all")
	f.StringVarP(&output, "output", "o", "widget", "Output format: widget, table or json")
	f.BoolVar(&percentFree, "percent-free", false, "Show percent free instead of percent full")
	return cmd
}
