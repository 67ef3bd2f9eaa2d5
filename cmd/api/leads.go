package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newLeadsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List and add leads",
	}
	cmd.AddCommand(newLeadsListCmd(opts), newLeadsAddCmd(opts))
	return cmd
}

func newLeadsListCmd(opts *rootOptions) *cobra.Command {
	var (
		search, status, match string
		asJSON                bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads from the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			view := usecase.NewLeadListView(ctx, a.sources(), a.store)
			if cmd.Flags().Changed("status") || cmd.Flags().Changed("match") {
				f := view.Filters()
				if cmd.Flags().Changed("status") {
					if f.Status, err = entity.ParseStatusFilter(status); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("match") {
					if f.Match, err = entity.ParseMatchMode(strings.ToUpper(match)); err != nil {
						return err
					}
				}
				if err := view.SetFilters(ctx, f); err != nil {
					return err
				}
			}
			view.SetSearch(search)

			leads, err := view.Activate(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(leads)
			}
			return printLeads(cmd.OutOrStdout(), leads)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive name search")
	cmd.Flags().StringVar(&status, "status", "", "Status filter (All, "+entity.StatusNames()+"); persisted")
	cmd.Flags().StringVar(&match, "match", "", "Combine search and status with AND or OR; persisted")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printLeads(out io.Writer, leads []entity.Lead) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCONTACT\tSTATUS\tASSIGNED TO\tUPDATED")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Name, l.Contact, l.Status, l.AssignedTo, l.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(tw, "\n%d lead(s)\n", len(leads))
	return tw.Flush()
}

// Flags de "leads add" têm o mesmo nome dos campos JSON do rascunho.
var draftFields = []struct{ name, usage string }{
	{"name", "Lead name (required)"},
	{"phone", "Phone number"},
	{"altPhone", "Alternate phone"},
	{"email", "Email"},
	{"altEmail", "Alternate email"},
	{"status", "Status (default New)"},
	{"qualification", "Qualification (default High School)"},
	{"interestField", "Interest (default Web Development)"},
	{"source", "Source (default Website)"},
	{"assignedTo", "Assignee (default John Doe)"},
	{"jobInterest", "Job interest"},
	{"state", "State"},
	{"city", "City"},
	{"passoutYear", "Passout year (YYYY)"},
	{"heardFrom", "How the lead heard about us"},
}

func newLeadsAddCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lead through the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			form := usecase.NewLeadForm(a.writer(), a.events())
			for _, f := range draftFields {
				if !cmd.Flags().Changed(f.name) {
					continue
				}
				value, _ := cmd.Flags().GetString(f.name)
				if err := form.Set(f.name, value); err != nil {
					return err
				}
			}

			out, err := form.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Lead %q salvo\n", out.Lead.Name)
			return nil
		},
	}

	for _, f := range draftFields {
		cmd.Flags().String(f.name, "", f.usage)
	}
	return cmd
}
