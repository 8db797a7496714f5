package cli

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/storagespace/internal/config"
	"github.com/lumipallolabs/storagespace/internal/core"
	"github.com/lumipallolabs/storagespace/internal/logging"
	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
	"github.com/lumipallolabs/storagespace/internal/ui"
)

// globalOptions are shared by every command
type globalOptions struct {
	configPath    string
	excludes      []string
	oneFileSystem bool
	workers       int
}

// scannerOptions builds walker options: the OS denylist plus extra excludes
func (o globalOptions) scannerOptions() scanner.Options {
	return scanner.Options{
		Excludes:      append(scanner.DefaultExcludes(), o.excludes...),
		OneFileSystem: o.oneFileSystem,
		Workers:       o.workers,
	}
}

// loadSettings reads the settings file. A broken file is reported and
// the defaults are used.
func (o globalOptions) loadSettings(cmd *cobra.Command) *config.Manager {
	mgr := config.NewManager(o.configPath)
	if err := mgr.Load(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return mgr
}

// NewRootCmd creates the storagespace command tree
func NewRootCmd(version string) *cobra.Command {
	var (
		opts        globalOptions
		sortFlag    string
		percentFree bool
	)

	cmd := &cobra.Command{
		Use:   "storagespace [path]",
		Short: "See what takes up space on your disks",
		Long: heredoc.Doc(`
			storagespace scans a folder, adds up the size of everything below it,
			and shows the result as a navigable tree and treemap next to a gauge
			for every mounted volume.

			Without a path the last scanned folder is opened again.
		`),
		Example: heredoc.Doc(`
			storagespace ~/Downloads
			storagespace --sort size-desc --exclude ~/Library/Caches ~
			storagespace scan --depth 2 --min-size 100MB /var
			storagespace volumes --size medium
		`),
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := opts.loadSettings(cmd)
			defer settings.Close()
			s := settings.Settings()

			path := s.LastFolder
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				path = "."
			}

			order := s.SortOrder
			if cmd.Flags().Changed("sort") {
				o, err := model.ParseSortOrder(sortFlag)
				if err != nil {
					return err
				}
				order = o
			}
			percentFull := s.ShowPercentFull
			if cmd.Flags().Changed("percent-free") {
				percentFull = !percentFree
			}

			logging.App.Debug().Str("path", path).Str("sort", string(order)).Msg("starting interactive view")

			ctrl := core.NewController(scanner.NewWalker(opts.scannerOptions()))
			app := ui.NewApp(ctrl, settings, ui.AppOptions{
				Path:        path,
				SortOrder:   order,
				PercentFull: percentFull,
				ShowVolumes: s.ShowVolumesPanel,
			})

			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running interface: %w", err)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Settings file (default "+config.DefaultPath()+")")
	pf.StringArrayVar(&opts.excludes, "exclude", nil, "Extra path to skip while scanning (repeatable)")
	pf.BoolVarP(&opts.oneFileSystem, "one-file-system", "x", false, "Don't descend into other mounted filesystems")
	pf.IntVar(&opts.workers, "workers", 0, "Number of parallel directory readers (default max(4, CPUs))")

	cmd.Flags().StringVar(&sortFlag, "sort", string(model.SortNameAsc), "Sibling order: name-asc, name-desc, size-asc or size-desc")
	cmd.Flags().BoolVar(&percentFree, "percent-free", false, "Show volume gauges as percent free instead of percent full")

	cmd.AddCommand(newScanCmd(&opts), newVolumesCmd(&opts))
	return cmd
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
