package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Policy selects the algorithm used to turn an expense total into shares.
type Policy string

const (
	// PolicyEqual divides the total evenly; no parameters.
	PolicyEqual Policy = "equal"
	// PolicyUnequal takes one explicit amount per participant.
	PolicyUnequal Policy = "unequal"
	// PolicyPercentages takes one percentage per participant.
	PolicyPercentages Policy = "percentages"
	// PolicyShares takes one weight per participant.
	PolicyShares Policy = "shares"
)

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyEqual, PolicyUnequal, PolicyPercentages, PolicyShares:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown split policy %q", models.ErrInvalidSplitParameters, s)
}

// Split computes the participant→share mapping of total under the given policy.
// params are positional: params[i] belongs to participants[i]. PolicyEqual
// takes no parameters.
//
// Split has no side effects; it is safe to call for previews.
func Split(total float64, policy Policy, participants []string, params []float64) (map[string]float64, error) {
	switch policy {
	case PolicyEqual:
		if len(params) != 0 {
			return nil, fmt.Errorf("%w: equal split takes no parameters, got %d", models.ErrInvalidSplitParameters, len(params))
		}
		return SplitEqual(total, participants)
	case PolicyUnequal:
		return SplitUnequal(total, participants, params)
	case PolicyPercentages:
		return SplitPercentages(total, participants, params)
	case PolicyShares:
		return SplitShares(total, participants, params)
	}
	return nil, fmt.Errorf("%w: unknown split policy %q", models.ErrInvalidSplitParameters, policy)
}

// SplitEqual divides total evenly among participants.
//
// The total is divided in whole cents. Leftover cents go one each to the
// first participants in the given order, and any sub-cent residue goes to
// the first participant, so the shares always sum to total exactly.
// Example: 100 among [A, B, C] gives A=33.34, B=33.33, C=33.33.
func SplitEqual(total float64, participants []string) (map[string]float64, error) {
	if err := checkParticipants(total, participants); err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(total)
	cents := amount.Shift(2).Floor()
	residue := amount.Sub(cents.Shift(-2))

	n := int64(len(participants))
	base := cents.IntPart() / n
	remainder := cents.IntPart() % n

	shares := make(map[string]float64, len(participants))
	for i, p := range participants {
		c := base
		if int64(i) < remainder {
			c++
		}
		share := decimal.New(c, -2)
		if i == 0 {
			share = share.Add(residue)
		}
		shares[p] = share.InexactFloat64()
	}
	return shares, nil
}

// SplitUnequal assigns one explicit amount per participant.
// The amounts must sum to total exactly (compared as decimals), otherwise
// ErrSplitMismatch is returned.
func SplitUnequal(total float64, participants []string, amounts []float64) (map[string]float64, error) {
	if err := checkParams(total, participants, amounts); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	shares := make(map[string]float64, len(participants))
	for i, p := range participants {
		sum = sum.Add(decimal.NewFromFloat(amounts[i]))
		shares[p] = amounts[i]
	}
	if !sum.Equal(decimal.NewFromFloat(total)) {
		return nil, fmt.Errorf("%w: amounts sum to %s, expense is %s",
			models.ErrSplitMismatch, sum.String(), decimal.NewFromFloat(total).String())
	}
	return shares, nil
}

// SplitPercentages assigns total × percentage / 100 to each participant.
//
// Percentages are not required to add up to 100; that is the caller's
// responsibility. The ledger rejects the resulting expense with
// ErrSplitMismatch if they do not.
func SplitPercentages(total float64, participants []string, percentages []float64) (map[string]float64, error) {
	if err := checkParams(total, participants, percentages); err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(total)
	hundred := decimal.NewFromInt(100)
	shares := make(map[string]float64, len(participants))
	for i, p := range participants {
		if percentages[i] < 0 {
			return nil, fmt.Errorf("%w: negative percentage for %s", models.ErrInvalidSplitParameters, p)
		}
		shares[p] = amount.Mul(decimal.NewFromFloat(percentages[i])).Div(hundred).InexactFloat64()
	}
	return shares, nil
}

// SplitShares assigns total × weight / sum(weights) to each participant.
// The last participant absorbs the rounding residue so the shares sum to total.
func SplitShares(total float64, participants []string, weights []float64) (map[string]float64, error) {
	if err := checkParams(total, participants, weights); err != nil {
		return nil, err
	}

	sumWeights := decimal.Zero
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight for %s", models.ErrInvalidSplitParameters, participants[i])
		}
		sumWeights = sumWeights.Add(decimal.NewFromFloat(w))
	}
	if !sumWeights.IsPositive() {
		return nil, fmt.Errorf("%w: weights must sum to a positive value", models.ErrInvalidSplitParameters)
	}

	amount := decimal.NewFromFloat(total)
	allocated := decimal.Zero
	shares := make(map[string]float64, len(participants))
	last := len(participants) - 1
	for i, p := range participants {
		var share decimal.Decimal
		if i == last {
			share = amount.Sub(allocated)
		} else {
			share = amount.Mul(decimal.NewFromFloat(weights[i])).Div(sumWeights)
			allocated = allocated.Add(share)
		}
		shares[p] = share.InexactFloat64()
	}
	return shares, nil
}

// Sum adds the shares as decimals.
func Sum(shares map[string]float64) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range shares {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum
}

// SumMatches reports whether the shares add up to total within models.Epsilon.
func SumMatches(shares map[string]float64, total float64) bool {
	diff := Sum(shares).Sub(decimal.NewFromFloat(total)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(models.Epsilon))
}

func checkParticipants(total float64, participants []string) error {
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return fmt.Errorf("%w: amount must be a positive number, got %v", models.ErrValidation, total)
	}
	if len(participants) == 0 {
		return models.ErrEmptyParticipants
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return fmt.Errorf("%w: empty participant ID", models.ErrInvalidSplitParameters)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %s", models.ErrInvalidSplitParameters, p)
		}
		seen[p] = true
	}
	return nil
}

func checkParams(total float64, participants []string, params []float64) error {
	if err := checkParticipants(total, participants); err != nil {
		return err
	}
	if len(params) != len(participants) {
		return fmt.Errorf("%w: expected %d values, got %d",
			models.ErrInvalidSplitParameters, len(participants), len(params))
	}
	for i, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value for %s is not a finite number", models.ErrInvalidSplitParameters, participants[i])
		}
	}
	return nil
}
