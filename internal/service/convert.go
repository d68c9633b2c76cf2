package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

func toExpense(e *models.Expense) *Expense {
	shares := make([]*Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = toShare(s)
	}
	return &Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Description: e.Description,
		Tag:         e.Tag,
		CreatedAt:   e.CreatedAt,
		Shares:      shares,
		Settled:     e.Settled(),
	}
}

func toShare(s models.Share) *Share {
	return &Share{
		UserID: s.UserID,
		Amount: s.Amount,
		Owed:   s.Owed,
		Status: string(s.Status),
	}
}

func toTransaction(t *models.Transaction) *Transaction {
	return &Transaction{
		ID:        t.ID,
		ExpenseID: t.ExpenseID,
		PayerID:   t.PayerID,
		PayeeID:   t.PayeeID,
		Amount:    t.Amount,
		CreatedAt: t.CreatedAt,
	}
}

func toTransactions(txns []*models.Transaction) []*Transaction {
	out := make([]*Transaction, len(txns))
	for i, t := range txns {
		out[i] = toTransaction(t)
	}
	return out
}

func toUser(u *models.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toGroup(g *models.Group) *Group {
	return &Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
	}
}

// toSplitInput parses the policy name of a split spec.
func toSplitInput(spec *SplitSpec) (*ledger.SplitInput, error) {
	if spec == nil {
		return nil, nil
	}
	policy, err := calculator.ParsePolicy(spec.Policy)
	if err != nil {
		return nil, err
	}
	return &ledger.SplitInput{
		Policy:       policy,
		Participants: spec.Participants,
		Params:       spec.Params,
	}, nil
}
