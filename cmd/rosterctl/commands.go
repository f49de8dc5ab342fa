package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/types"
)

func (c *cli) newAddCmd() *cobra.Command {
	var req types.CreateRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a server",
		Long: `Add a server to the roster. Text fields are stored upper-cased and the
start timestamp is the current time. A server with the same name
(case-insensitive) is replaced.`,
		Example: `  rosterctl add --name "Ana Souza" --role analista --compensation 5000 \
    --city natal --education superior --specialty ti \
    --absenteeism 2.5 --performance 90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := c.svc.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			if c.output == "json" {
				return c.writeJSON(srv)
			}
			_, err = fmt.Fprintf(c.out, "stored %s (start %s)\n", srv.Name, srv.StartTimestamp)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "server name")
	f.StringVar(&req.Role, "role", "", "role")
	f.Float64Var(&req.Compensation, "compensation", 0, "monthly compensation")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.Education, "education", "", "education level")
	f.StringVar(&req.Specialty, "specialty", "", "specialty")
	f.Float64Var(&req.AbsenteeismRate, "absenteeism", 0, "absenteeism rate in percent [0, 100]")
	f.Float64Var(&req.PerformanceScore, "performance", 0, "performance score [0, 100]")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (c *cli) newAlphabeticalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabetical",
		Short: "List names in alphabetical order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := c.svc.Alphabetical(cmd.Context())
			if err != nil {
				return err
			}
			if c.output == "json" {
				return c.writeJSON(rows)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "#\tNAME")
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\n", r.Position, r.Name)
				}
			})
		},
	}
}

func (c *cli) newServiceTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "service-time",
		Short: "List servers by time in service, longest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := c.svc.ServiceTime(cmd.Context())
			if err != nil {
				return err
			}
			if c.output == "json" {
				return c.writeJSON(rows)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "#\tNAME\tDAYS\tCOMPENSATION")
				for _, r := range rows {
					fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", r.Position, r.Name, r.ElapsedDays, r.Compensation)
				}
			})
		},
	}
}

func (c *cli) newCompensationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compensation",
		Short: "List name, role and compensation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := c.svc.Compensation(cmd.Context())
			if err != nil {
				return err
			}
			if c.output == "json" {
				return c.writeJSON(rows)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "NAME\tROLE\tCOMPENSATION")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%.2f\n", r.Name, r.Role, r.Compensation)
				}
			})
		},
	}
}

func (c *cli) newSimilarCmd() *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "similar NAME",
		Short: "Find the servers closest to NAME",
		Long: `Find the k servers closest to NAME by Euclidean distance over
absenteeism rate, performance score and compensation. NAME itself is
never listed.`,
		Example: `  rosterctl similar "ana souza" -k 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("k") && k < 1 {
				return fmt.Errorf("%w: k must be a positive integer, got %d", model.ErrValidation, k)
			}
			resp, err := c.svc.Similar(cmd.Context(), args[0], k)
			if err != nil {
				return err
			}
			if c.output == "json" {
				return c.writeJSON(resp)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "nearest to %s (k=%d)\n", resp.Target, resp.K)
				fmt.Fprintln(w, "#\tNAME\tDISTANCE\tPERFORMANCE\tABSENTEEISM\tCOMPENSATION")
				for _, n := range resp.Neighbors {
					fmt.Fprintf(w, "%d\t%s\t%.4f\t%.2f\t%.2f\t%.2f\n",
						n.Rank, n.Name, n.Distance, n.PerformanceScore, n.AbsenteeismRate, n.Compensation)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of neighbours (default from config)")
	return cmd
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) table(fill func(w *tabwriter.Writer)) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fill(w)
	return w.Flush()
}
