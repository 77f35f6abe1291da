package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage the campaign database schema",
	}
	schema.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create any missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			if err := reg.Campaign().InitSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema initialized")
			return nil
		},
	})
	return schema
}

func newPopulateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Load synthetic campaigns for demos and dashboards",
		Long: `Load synthetic campaigns with creative features and predicted outcomes.

The same seed always produces the same campaigns. Campaigns already in the
database are skipped.

Examples:
  crtv populate
  crtv populate --count 20 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			if err := reg.Campaign().InitSchema(ctx); err != nil {
				return err
			}
			n, err := reg.Campaign().Populate(ctx, count, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d of %d campaigns\n", n, count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 163, "number of campaigns to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-campaign file counts and confidence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			summaries, err := reg.Campaign().Summaries(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), summaries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CAMPAIGN\tCLIENT\tFILES\tVIDEO\tIMAGE\tPRESENTATION\tCONFIDENCE")
			for _, s := range summaries {
				conf := "-"
				if s.AvgConfidence != nil {
					conf = fmt.Sprintf("%.2f", *s.AvgConfidence)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					s.CampaignName, s.ClientName, s.TotalFiles,
					s.VideoCount, s.ImageCount, s.PresentationCount, conf)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
