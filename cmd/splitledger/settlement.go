package main

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

type payCmd struct {
	expense string
	from    string
	to      string
	amount  float64
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record a payment against a share" }
func (*payCmd) Usage() string {
	return `pay -expense <id> -from <user-id> -amount <amount> [-to <user-id>]

  Records a payment from a participant to the expense payer and prints the
  transaction ID. -to defaults to the expense payer. Paying more than is
  owed is rejected.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expense, "expense", "", "Expense ID (required)")
	f.StringVar(&c.from, "from", "", "Paying participant (required)")
	f.StringVar(&c.to, "to", "", "Receiving user, the expense payer")
	f.Float64Var(&c.amount, "amount", 0, "Payment amount (required)")
}

func (c *payCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.expense == "" || c.from == "" {
		a.errorf("-expense and -from are required")
		return subcommands.ExitUsageError
	}

	txn, err := a.ledger.RecordPayment(ctx, ledger.RecordPaymentInput{
		ExpenseID: c.expense,
		PayerID:   c.from,
		PayeeID:   c.to,
		Amount:    c.amount,
	})
	if err != nil {
		a.errorf("could not record payment: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(a.out, txn.ID)
	return subcommands.ExitSuccess
}

type reverseCmd struct{}

func (*reverseCmd) Name() string     { return "reverse" }
func (*reverseCmd) Synopsis() string { return "reverse a recorded payment" }
func (*reverseCmd) Usage() string {
	return `reverse <transaction-id>

  Deletes the payment and gives its amount back to the participant's owed
  balance.
`
}

func (*reverseCmd) SetFlags(*flag.FlagSet) {}

func (*reverseCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one transaction ID")
		return subcommands.ExitUsageError
	}
	share, err := a.ledger.ReversePayment(ctx, f.Arg(0))
	if err != nil {
		a.errorf("could not reverse payment: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.out, "%s now owes %s on %s (%s)\n", share.UserID, a.amount(share.Owed), share.ExpenseID, share.Status)
	return subcommands.ExitSuccess
}

type transactionsCmd struct {
	expense string
	user    string
	from    string
	to      string
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list payments of an expense or a user" }
func (*transactionsCmd) Usage() string {
	return `transactions (-expense <id> | -user <id> [-from <time>] [-to <time>])

  Lists the payments recorded against an expense, oldest first, or the
  payments a user made or received, newest first. Times are RFC 3339 or
  YYYY-MM-DD.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expense, "expense", "", "Expense ID")
	f.StringVar(&c.user, "user", "", "User ID")
	f.StringVar(&c.from, "from", "", "Earliest payment time (user only)")
	f.StringVar(&c.to, "to", "", "Latest payment time (user only)")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if (c.expense == "") == (c.user == "") {
		a.errorf("exactly one of -expense and -user is required")
		return subcommands.ExitUsageError
	}

	var (
		txns []*models.Transaction
		err  error
	)
	if c.expense != "" {
		txns, err = a.ledger.ListExpenseTransactions(ctx, c.expense)
	} else {
		var from, to int64
		if from, err = parseTime(c.from); err != nil {
			a.errorf("%v", err)
			return subcommands.ExitUsageError
		}
		if to, err = parseTime(c.to); err != nil {
			a.errorf("%v", err)
			return subcommands.ExitUsageError
		}
		txns, err = a.ledger.ListUserTransactions(ctx, c.user, from, to)
	}
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tEXPENSE\tFROM\tTO\tAMOUNT")
	for _, t := range txns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, formatTime(t.CreatedAt), t.ExpenseID, t.PayerID, t.PayeeID, a.amount(t.Amount))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type duesCmd struct{}

func (*duesCmd) Name() string     { return "dues" }
func (*duesCmd) Synopsis() string { return "show what a user owes and is owed" }
func (*duesCmd) Usage() string {
	return `dues <user-id>

  Prints the net balance with each counterparty across all expenses.
  Positive amounts are owed to the user, negative amounts are owed by the
  user.
`
}

func (*duesCmd) SetFlags(*flag.FlagSet) {}

func (*duesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one user ID")
		return subcommands.ExitUsageError
	}
	dues, err := a.ledger.UserDues(ctx, f.Arg(0))
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	if len(dues) == 0 {
		fmt.Fprintln(a.out, "all settled")
		return subcommands.ExitSuccess
	}
	for _, counterparty := range slices.Sorted(maps.Keys(dues)) {
		fmt.Fprintf(a.out, "%s\t%s\n", counterparty, a.amount(dues[counterparty]))
	}
	return subcommands.ExitSuccess
}

type balancesCmd struct{}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "show group balances and suggested payments" }
func (*balancesCmd) Usage() string {
	return `balances <group-id>

  Prints each member's outstanding net balance in the group and a short
  list of payments that would clear them.
`
}

func (*balancesCmd) SetFlags(*flag.FlagSet) {}

func (*balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if f.NArg() != 1 {
		a.errorf("expected exactly one group ID")
		return subcommands.ExitUsageError
	}
	balances, edges, err := a.ledger.GroupBalances(ctx, f.Arg(0))
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tNET\tRECEIVABLE\tPAYABLE")
	for _, b := range balances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.UserID, a.amount(b.NetBalance), a.amount(b.Receivable), a.amount(b.Payable))
	}
	w.Flush()

	for _, e := range edges {
		fmt.Fprintf(a.out, "%s pays %s %s\n", e.From, e.To, a.amount(e.Amount))
	}
	return subcommands.ExitSuccess
}
