package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/storagespace/internal/model"
	"github.com/lumipallolabs/storagespace/internal/scanner"
	"github.com/lumipallolabs/storagespace/internal/ui"
)

var allowedOutputs = []string{"table", "json"}

// scanOptions holds flags for the scan command
type scanOptions struct {
	depth   int
	minSize string
	sort    string
	output  string
}

func newScanCmd(global *globalOptions) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Print the size tree of a folder",
		Long: heredoc.Doc(`
			Scan a folder and print the size of every entry below it.

			Folders report the sum of everything inside them. Entries that
			can't be read count as zero bytes and the scan carries on.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			if !slices.Contains(allowedOutputs, opts.output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", opts.output, allowedOutputs)
			}
			if opts.depth < 0 {
				return errors.New("depth cannot be negative")
			}
			order, err := model.ParseSortOrder(opts.sort)
			if err != nil {
				return err
			}
			minSize, err := humanize.ParseBytes(opts.minSize)
			if err != nil {
				return fmt.Errorf("invalid min-size: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			root, err := runScan(ctx, scanner.NewWalker(global.scannerOptions()), path, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if root == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is excluded from scanning\n", path)
				return nil
			}

			tree := pruneTree(root, order, opts.depth, int64(minSize))
			if opts.output == "json" {
				return PrintTreeJSON(tree, cmd.OutOrStdout())
			}
			return PrintTreeTable(tree, root.TotalSize(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.depth, "depth", "d", 1, "Levels below the root to print (0=unlimited)")
	f.StringVar(&opts.minSize, "min-size", "0B", "Hide entries smaller than this (e.g. 10MB)")
	f.StringVar(&opts.sort, "sort", string(model.SortSizeDesc), "Sibling order: name-asc, name-desc, size-asc or size-desc")
	f.StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")
	return cmd
}

// runScan scans path, drawing a progress line on errOut when it is a terminal
func runScan(ctx context.Context, s scanner.Scanner, path string, errOut io.Writer) (*model.Node, error) {
	f, ok := errOut.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return s.Scan(ctx, path, nil)
	}

	progress := make(chan scanner.Progress, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for p := range progress {
			if p.InProgress {
				fmt.Fprintf(f, "\r\033[KScanning %s", ui.StatusLine(p))
			}
		}
		fmt.Fprint(f, "\r\033[K")
	}()

	root, err := s.Scan(ctx, path, progress)
	close(progress)
	wg.Wait()
	return root, err
}
