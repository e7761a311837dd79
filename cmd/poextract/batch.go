package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/ingest"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
	"github.com/joseph-ayodele/po-extract/internal/repository"
)

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var (
		dir        string
		dsn        string
		force      bool
		dryRun     bool
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "batch --dir DIR",
		Short: "Process every purchase order under a directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return common.NewAppError("INVALID_INPUT", "--dir is required", common.ErrInvalidInput)
			}
			w := cmd.OutOrStdout()

			if dryRun {
				paths, err := ingest.Walk(dir, skipHidden)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(w, p)
				}
				return nil
			}

			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			if dsn != "" {
				opts.cfg.Database.DSN = dsn
			}
			ctx := cmd.Context()

			var runs repository.ParseRunRepository
			if opts.cfg.Database.DSN != "" {
				db, err := repository.Open(ctx, repository.ConfigFrom(opts.cfg.Database), opts.logger)
				if err != nil {
					return err
				}
				defer db.Close(opts.logger)
				if err := db.Migrate(ctx); err != nil {
					return err
				}
				runs = repository.NewParseRunRepository(db, opts.logger)
			}

			proc, err := pipeline.FromConfig(opts.cfg, runs, opts.logger)
			if err != nil {
				return err
			}
			results, stats, err := ingest.ProcessDirectory(ctx, proc, dir, skipHidden, force, opts.logger)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tITEMS\tREVIEW\tREUSED\tERROR")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%d\t%t\t%t\t%s\n", r.Path, r.Items, r.NeedsReview, r.Reused, r.Err)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nscanned=%d matched=%d succeeded=%d reused=%d needs_review=%d failed=%d\n",
				stats.Scanned, stats.Matched, stats.Succeeded, stats.Reused, stats.NeedsReview, stats.Failed)
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Matched)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to process (required)")
	cmd.Flags().StringVar(&dsn, "db", "", "database DSN for parse runs (default DB_URL; none keeps results in memory)")
	cmd.Flags().BoolVar(&force, "force", false, "reparse files whose content already has a stored run")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list the files that would be processed")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dot files and directories")
	return cmd
}
