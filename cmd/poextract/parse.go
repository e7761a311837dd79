package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/pipeline"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON  bool
		backend string
	)
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse one purchase order and print its header and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend != "" {
				opts.cfg.Extract.PDFBackend = strings.ToLower(backend)
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			proc, err := pipeline.FromConfig(opts.cfg, nil, opts.logger)
			if err != nil {
				return err
			}

			out, err := proc.ProcessFile(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			if len(out.ReviewReasons) > 0 {
				printErr("needs review: %s\n", strings.Join(out.ReviewReasons, ", "))
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out.Result)
			}
			return writeTable(cmd.OutOrStdout(), out.Result)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&backend, "backend", "", "PDF text backend: pdftotext, native or auto (default from PDF_BACKEND)")
	return cmd
}

func writeJSON(w io.Writer, res entity.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func writeTable(w io.Writer, res entity.ParseResult) error {
	h := res.Header
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, kv := range [][2]string{
		{"Company", h.CompanyCode},
		{"Company name", h.CompanyName},
		{"PO number", h.PONumber},
		{"PO date", h.PODate},
		{"GSTIN", h.CustomerGSTIN},
		{"Payment terms", h.PaymentTerms},
		{"Delivery terms", h.DeliveryTerms},
		{"Currency", h.Currency},
	} {
		if kv[1] != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "#\tDRAWING\tDESCRIPTION\tQTY\tUNIT\tRATE\tDELIVERY")
	for i, it := range res.Items {
		delivery := ""
		if it.DeliveryDate != nil {
			delivery = *it.DeliveryDate
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, it.DrawingNo, it.Description, it.Quantity.String(), it.Unit, it.Rate.StringFixed(2), delivery)
	}
	return tw.Flush()
}
