package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/calculator"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/money"
)

func newClubsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "List clubs and their ledgers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all clubs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clubs, err := a.store.ListClubs(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMANAGER\tBALANCE\tSTADIUM")
			for _, c := range clubs {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", c.ID, c.Name, c.OwnerID, money.Format(c.Balance), a.policy.NameOf(c.Tier))
			}
			return w.Flush()
		},
	})

	var filter string
	ledger := &cobra.Command{
		Use:   "ledger <club-id>",
		Short: "Show the newest ledger entries of a club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clubID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("club id %q is not a number", args[0])
			}
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			entries, err := a.store.ListTransactions(cmd.Context(), clubID, f)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tAMOUNT\tREASON")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.OccurredAt.Format("2006-01-02 15:04:05"), money.FormatSigned(e.Amount), e.Reason)
			}
			sum := calculator.Summarize(entries)
			fmt.Fprintf(w, "\t\t\nNET\t%s\t%d entries\n", money.FormatSigned(sum.Net), sum.Count)
			return w.Flush()
		},
	}
	ledger.Flags().StringVar(&filter, "filter", "all", "all, income or expense")

	post := &cobra.Command{
		Use:   "post <club-id> <amount> <reason>",
		Short: "Post a signed amount to a club's ledger",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clubID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("club id %q is not a number", args[0])
			}
			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}
			if amount.IsZero() {
				return fmt.Errorf("amount must not be zero")
			}
			balance, err := a.store.AppendTransaction(cmd.Context(), clubID, amount, strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balance: %s\n", money.Format(balance))
			return nil
		},
	}

	cmd.AddCommand(ledger, post)
	return cmd
}

func parseFilter(s string) (models.EntryFilter, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return models.FilterAll, nil
	case "income":
		return models.FilterIncome, nil
	case "expense":
		return models.FilterExpense, nil
	default:
		return models.FilterAll, fmt.Errorf("unknown filter %q", s)
	}
}
