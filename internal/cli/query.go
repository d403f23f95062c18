package cli

import (
	"fmt"
	"time"

	"github.com/HendryAvila/clipvault/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// defaultCLILimit keeps terminal listings short; --limit 0 uses the
// configured list_limit.
const defaultCLILimit = 20

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent clips, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.ListRecent(limit)
			if err != nil {
				return WrapExitError(ExitFailure, "listing clips", err)
			}
			return rootOpts.formatter(cmd).Records(recs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultCLILimit, "max clips (0 = list_limit from config)")
	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		source string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "search [TERM]",
		Short: "Search clips by case-insensitive substring",
		Long: `Search clips whose text contains TERM, ignoring case. --source keeps
only clips copied from that application. With neither, lists recent clips.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}

			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.Search(term, history.SearchOptions{Source: source, Limit: limit})
			if err != nil {
				return WrapExitError(ExitFailure, "searching clips", err)
			}
			return rootOpts.formatter(cmd).Records(recs)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "only clips copied from this application")
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultCLILimit, "max clips (0 = list_limit from config)")
	return cmd
}

// NewSourcesCommand creates the sources command.
func NewSourcesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the applications clips were copied from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := store.DistinctSources()
			if err != nil {
				return WrapExitError(ExitFailure, "listing sources", err)
			}

			f := rootOpts.formatter(cmd)
			if f.JSON() {
				if sources == nil {
					sources = []string{}
				}
				return f.Success(map[string]any{"sources": sources})
			}
			for _, s := range sources {
				fmt.Fprintln(f.Writer, s)
			}
			return nil
		},
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rootOpts.openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return WrapExitError(ExitFailure, "reading stats", err)
			}

			f := rootOpts.formatter(cmd)
			if f.JSON() {
				return f.Success(stats)
			}
			w := f.Writer
			fmt.Fprintf(w, "Database: %s\n", store.Path())
			fmt.Fprintf(w, "Clips:    %s\n", humanize.Comma(int64(stats.TotalClips)))
			fmt.Fprintf(w, "Text:     %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
			if stats.TotalClips > 0 {
				fmt.Fprintf(w, "Oldest:   %s\n", humanize.Time(time.UnixMilli(stats.Oldest)))
				fmt.Fprintf(w, "Newest:   %s\n", humanize.Time(time.UnixMilli(stats.Newest)))
			}
			for _, sc := range stats.Sources {
				fmt.Fprintf(w, "  %-24s %d\n", sourceLabel(sc.Source), sc.Clips)
			}
			return nil
		},
	}
}
