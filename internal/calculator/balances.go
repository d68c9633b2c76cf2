package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// MemberBalance represents the outstanding balance of one group member.
type MemberBalance struct {
	UserID     string
	NetBalance float64 // Positive = owed money, Negative = owes money
	Receivable float64 // What others still owe this member
	Payable    float64 // What this member still owes others
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// CalculateUserDues nets outstanding debts into one signed amount per counterparty.
//
// owedToUser are the debts on expenses paid by userID, owedByUser the debts
// of userID on expenses paid by others. Positive values mean the
// counterparty owes userID; negative values mean userID owes the
// counterparty. Counterparties that net to zero are omitted.
//
// Algorithm (two passes, merged into one balance map):
//   - pass 1: every other participant's owed amount on expenses userID paid
//     adds to "counterparty owes user"
//   - pass 2: userID's owed amount on expenses others paid adds to
//     "user owes payer"
func CalculateUserDues(userID string, owedToUser, owedByUser []models.Debt) map[string]float64 {
	net := make(map[string]decimal.Decimal)

	for _, d := range owedToUser {
		if d.CreditorID != userID || d.DebtorID == userID {
			continue
		}
		net[d.DebtorID] = net[d.DebtorID].Add(decimal.NewFromFloat(d.Owed))
	}

	for _, d := range owedByUser {
		if d.DebtorID != userID || d.CreditorID == userID {
			continue
		}
		net[d.CreditorID] = net[d.CreditorID].Sub(decimal.NewFromFloat(d.Owed))
	}

	dues := make(map[string]float64, len(net))
	epsilon := decimal.NewFromFloat(models.Epsilon)
	for counterparty, amount := range net {
		if amount.Abs().LessThanOrEqual(epsilon) {
			continue
		}
		dues[counterparty] = amount.InexactFloat64()
	}
	return dues
}

// CalculateGroupBalances computes member balances from the outstanding debts
// of a group, and a simplified set of debts that clears them.
//
// Algorithm:
//   - For each debt: creditor's receivable and debtor's payable grow by the owed amount
//   - Aggregate: net_balance = receivable - payable
//   - Debt matrix: simplified using greedy matching, largest amounts first
func CalculateGroupBalances(debts []models.Debt) ([]MemberBalance, []DebtEdge) {
	type acc struct {
		receivable decimal.Decimal
		payable    decimal.Decimal
	}
	balances := make(map[string]*acc)
	get := func(id string) *acc {
		if _, exists := balances[id]; !exists {
			balances[id] = &acc{}
		}
		return balances[id]
	}

	for _, d := range debts {
		if d.DebtorID == d.CreditorID {
			continue
		}
		owed := decimal.NewFromFloat(d.Owed)
		get(d.CreditorID).receivable = get(d.CreditorID).receivable.Add(owed)
		get(d.DebtorID).payable = get(d.DebtorID).payable.Add(owed)
	}

	type entry struct {
		id  string
		net decimal.Decimal
	}
	var memberBalances []MemberBalance
	var creditors, debtors []entry
	for id, a := range balances {
		net := a.receivable.Sub(a.payable)
		memberBalances = append(memberBalances, MemberBalance{
			UserID:     id,
			NetBalance: net.InexactFloat64(),
			Receivable: a.receivable.InexactFloat64(),
			Payable:    a.payable.InexactFloat64(),
		})
		if net.IsPositive() {
			creditors = append(creditors, entry{id, net})
		} else if net.IsNegative() {
			debtors = append(debtors, entry{id, net.Neg()})
		}
	}
	sort.Slice(memberBalances, func(i, j int) bool { return memberBalances[i].UserID < memberBalances[j].UserID })

	// Largest first; ties broken by ID so the result is deterministic.
	byAmount := func(s []entry) func(i, j int) bool {
		return func(i, j int) bool {
			if c := s[i].net.Cmp(s[j].net); c != 0 {
				return c > 0
			}
			return s[i].id < s[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var debtEdges []DebtEdge
	threshold := decimal.NewFromFloat(0.01) // Avoid floating point noise
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].net, creditors[j].net)

		if amount.GreaterThanOrEqual(threshold) {
			debtEdges = append(debtEdges, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount.InexactFloat64(),
			})
		}

		debtors[i].net = debtors[i].net.Sub(amount)
		creditors[j].net = creditors[j].net.Sub(amount)

		// Move to next debtor/creditor if fully settled
		if debtors[i].net.LessThan(threshold) {
			i++
		}
		if creditors[j].net.LessThan(threshold) {
			j++
		}
	}

	return memberBalances, debtEdges
}
