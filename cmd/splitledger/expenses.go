package main

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

type expenseAddCmd struct {
	group       string
	payer       string
	amount      float64
	description string
	tag         string
	split       splitFlags
}

func (*expenseAddCmd) Name() string     { return "expense-add" }
func (*expenseAddCmd) Synopsis() string { return "record a new expense" }
func (*expenseAddCmd) Usage() string {
	return `expense-add -group <id> -payer <id> -amount <amount> (-shares <user=amount,...> | -split <policy> -participants <id,...> [-params <p,...>]) [-description <text>] [-tag <tag>]

  Records an expense paid by -payer and prints the new expense ID.

  The shares are either given explicitly with -shares, or computed by a
  split policy:
  - equal:        no parameters
  - unequal:      one amount per participant
  - percentages:  one percentage per participant, summing to 100
  - shares:       one weight per participant

Usage Examples:
$ splitledger expense-add -group G -payer P -amount 90 -split equal -participants P,A,B
$ splitledger expense-add -group G -payer P -amount 100 -shares P=0,A=60,B=40 -tag food
`
}

func (c *expenseAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group ID (required)")
	f.StringVar(&c.payer, "payer", "", "User ID of the payer (required)")
	f.Float64Var(&c.amount, "amount", 0, "Total amount (required)")
	f.StringVar(&c.description, "description", "", "Optional description")
	f.StringVar(&c.tag, "tag", "", "Optional tag")
	c.split.register(f)
}

func (c *expenseAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.group == "" || c.payer == "" {
		a.errorf("-group and -payer are required")
		return subcommands.ExitUsageError
	}
	shares, split, err := c.split.parse()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}

	expense, err := a.ledger.CreateExpense(ctx, ledger.CreateExpenseInput{
		GroupID:     c.group,
		PayerID:     c.payer,
		Amount:      c.amount,
		Shares:      shares,
		Split:       split,
		Description: c.description,
		Tag:         c.tag,
	})
	if err != nil {
		a.errorf("could not create expense: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.out, expense.ID)
	return subcommands.ExitSuccess
}

type expenseEditCmd struct {
	amount      float64
	payer       string
	description string
	tag         string
	split       splitFlags
}

func (*expenseEditCmd) Name() string     { return "expense-edit" }
func (*expenseEditCmd) Synopsis() string { return "change an existing expense" }
func (*expenseEditCmd) Usage() string {
	return `expense-edit [-amount <amount>] [-payer <id>] [-description <text>] [-tag <tag>] [-shares ... | -split ...] <expense-id>

  Changes the given fields of an expense. Only the flags that are set are
  applied. A new amount or payer needs a new split; amounts already paid
  carry over to the new shares.
`
}

func (c *expenseEditCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "New total amount")
	f.StringVar(&c.payer, "payer", "", "New payer user ID")
	f.StringVar(&c.description, "description", "", "New description")
	f.StringVar(&c.tag, "tag", "", "New tag")
	c.split.register(f)
}

func (c *expenseEditCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one expense ID")
		return subcommands.ExitUsageError
	}
	shares, split, err := c.split.parse()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}

	in := ledger.EditExpenseInput{Shares: shares, Split: split}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "amount":
			in.Amount = &c.amount
		case "payer":
			in.PayerID = &c.payer
		case "description":
			in.Description = &c.description
		case "tag":
			in.Tag = &c.tag
		}
	})

	expense, err := a.ledger.EditExpense(ctx, f.Arg(0), in)
	if err != nil {
		a.errorf("could not edit expense: %v", err)
		return subcommands.ExitFailure
	}
	a.printExpense(expense)
	return subcommands.ExitSuccess
}

type expenseDeleteCmd struct{}

func (*expenseDeleteCmd) Name() string     { return "expense-delete" }
func (*expenseDeleteCmd) Synopsis() string { return "delete an expense and its payments" }
func (*expenseDeleteCmd) Usage() string {
	return `expense-delete <expense-id>

  Deletes the expense together with its shares and every payment recorded
  against it.
`
}

func (*expenseDeleteCmd) SetFlags(*flag.FlagSet) {}

func (*expenseDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one expense ID")
		return subcommands.ExitUsageError
	}
	if err := a.ledger.DeleteExpense(ctx, f.Arg(0)); err != nil {
		a.errorf("could not delete expense: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "deleted %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type expenseShowCmd struct{}

func (*expenseShowCmd) Name() string     { return "expense-show" }
func (*expenseShowCmd) Synopsis() string { return "show an expense with its shares" }
func (*expenseShowCmd) Usage() string {
	return `expense-show <expense-id>
`
}

func (*expenseShowCmd) SetFlags(*flag.FlagSet) {}

func (*expenseShowCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one expense ID")
		return subcommands.ExitUsageError
	}
	expense, err := a.ledger.GetExpense(ctx, f.Arg(0))
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	a.printExpense(expense)
	return subcommands.ExitSuccess
}

type expensesCmd struct {
	group string
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list the expenses of a group" }
func (*expensesCmd) Usage() string {
	return `expenses -group <id>

  Lists the expenses of a group, newest first.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "Group ID (required)")
}

func (c *expensesCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.group == "" {
		a.errorf("-group is required")
		return subcommands.ExitUsageError
	}
	expenses, err := a.ledger.ListGroupExpenses(ctx, c.group)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPAYER\tAMOUNT\tTAG\tSETTLED\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			e.ID, formatTime(e.CreatedAt), e.PayerID, a.amount(e.Amount), e.Tag, e.Settled(), e.Description)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type splitCmd struct {
	amount float64
	split  splitFlags
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "preview a split without recording it" }
func (*splitCmd) Usage() string {
	return `split -amount <amount> -split <policy> -participants <id,...> [-params <p,...>]

  Prints the share of each participant under the given policy.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 0, "Total amount (required)")
	c.split.register(f)
}

func (c *splitCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	_, split, err := c.split.parse()
	if err != nil || split == nil {
		a.errorf("-split with -participants is required")
		return subcommands.ExitUsageError
	}

	shares, err := calculator.Split(c.amount, split.Policy, split.Participants, split.Params)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	for _, p := range split.Participants {
		fmt.Fprintf(a.out, "%s\t%s\n", p, a.amount(shares[p]))
	}
	return subcommands.ExitSuccess
}

func (a *app) printExpense(e *models.Expense) {
	fmt.Fprintf(a.out, "Expense %s (group %s)\n", e.ID, e.GroupID)
	fmt.Fprintf(a.out, "  paid by %s: %s on %s\n", e.PayerID, a.amount(e.Amount), formatTime(e.CreatedAt))
	if e.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", e.Description)
	}
	if e.Tag != "" {
		fmt.Fprintf(a.out, "  tag: %s\n", e.Tag)
	}

	shares := slices.Clone(e.Shares)
	slices.SortFunc(shares, func(x, y models.Share) int {
		switch {
		case x.UserID < y.UserID:
			return -1
		case x.UserID > y.UserID:
			return 1
		}
		return 0
	})
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  USER\tSHARE\tOWED\tSTATUS")
	for _, s := range shares {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", s.UserID, a.amount(s.Amount), a.amount(s.Owed), s.Status)
	}
	w.Flush()
}
