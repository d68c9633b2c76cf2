package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		policy       Policy
		participants []string
		params       []float64
		wantErr      error
		want         map[string]float64
	}{
		{
			name:         "equal split between two",
			total:        100,
			policy:       PolicyEqual,
			participants: []string{"A", "B"},
			want:         map[string]float64{"A": 50, "B": 50},
		},
		{
			name:         "equal split remainder goes to first participants",
			total:        100,
			policy:       PolicyEqual,
			participants: []string{"A", "B", "C"},
			want:         map[string]float64{"A": 33.34, "B": 33.33, "C": 33.33},
		},
		{
			name:         "equal split two leftover cents",
			total:        0.05,
			policy:       PolicyEqual,
			participants: []string{"A", "B", "C"},
			want:         map[string]float64{"A": 0.02, "B": 0.02, "C": 0.01},
		},
		{
			name:         "equal split sub-cent residue goes to first",
			total:        10.005,
			policy:       PolicyEqual,
			participants: []string{"A", "B"},
			want:         map[string]float64{"A": 5.005, "B": 5.00},
		},
		{
			name:         "equal split rejects parameters",
			total:        10,
			policy:       PolicyEqual,
			participants: []string{"A", "B"},
			params:       []float64{5, 5},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "unequal split",
			total:        100,
			policy:       PolicyUnequal,
			participants: []string{"P", "A", "B"},
			params:       []float64{0, 60, 40},
			want:         map[string]float64{"P": 0, "A": 60, "B": 40},
		},
		{
			name:         "unequal split exact decimal sum",
			total:        0.3,
			policy:       PolicyUnequal,
			participants: []string{"A", "B"},
			params:       []float64{0.1, 0.2},
			want:         map[string]float64{"A": 0.1, "B": 0.2},
		},
		{
			name:         "unequal split mismatch",
			total:        100,
			policy:       PolicyUnequal,
			participants: []string{"A", "B"},
			params:       []float64{60, 39.99},
			wantErr:      models.ErrSplitMismatch,
		},
		{
			name:         "unequal split wrong parameter count",
			total:        100,
			policy:       PolicyUnequal,
			participants: []string{"A", "B"},
			params:       []float64{100},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "percentages",
			total:        200,
			policy:       PolicyPercentages,
			participants: []string{"A", "B", "C"},
			params:       []float64{50, 30, 20},
			want:         map[string]float64{"A": 100, "B": 60, "C": 40},
		},
		{
			name:         "percentages not summing to 100 are passed through",
			total:        100,
			policy:       PolicyPercentages,
			participants: []string{"A", "B"},
			params:       []float64{50, 40},
			want:         map[string]float64{"A": 50, "B": 40},
		},
		{
			name:         "negative percentage",
			total:        100,
			policy:       PolicyPercentages,
			participants: []string{"A", "B"},
			params:       []float64{110, -10},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "shares",
			total:        90,
			policy:       PolicyShares,
			participants: []string{"A", "B"},
			params:       []float64{2, 1},
			want:         map[string]float64{"A": 60, "B": 30},
		},
		{
			name:         "zero weights",
			total:        90,
			policy:       PolicyShares,
			participants: []string{"A", "B"},
			params:       []float64{0, 0},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "no participants",
			total:        100,
			policy:       PolicyEqual,
			participants: []string{},
			wantErr:      models.ErrEmptyParticipants,
		},
		{
			name:         "duplicate participant",
			total:        100,
			policy:       PolicyEqual,
			participants: []string{"A", "A"},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "non-positive amount",
			total:        0,
			policy:       PolicyEqual,
			participants: []string{"A"},
			wantErr:      models.ErrValidation,
		},
		{
			name:         "unknown policy",
			total:        10,
			policy:       Policy("adjustments"),
			participants: []string{"A"},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "NaN total",
			total:        math.NaN(),
			policy:       PolicyEqual,
			participants: []string{"A", "B"},
			wantErr:      models.ErrValidation,
		},
		{
			name:         "infinite total",
			total:        math.Inf(1),
			policy:       PolicyEqual,
			participants: []string{"A", "B"},
			wantErr:      models.ErrValidation,
		},
		{
			name:         "NaN percentage",
			total:        100,
			policy:       PolicyPercentages,
			participants: []string{"A", "B"},
			params:       []float64{math.NaN(), 50},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "infinite weight",
			total:        100,
			policy:       PolicyShares,
			participants: []string{"A", "B"},
			params:       []float64{1, math.Inf(1)},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "NaN unequal amount",
			total:        100,
			policy:       PolicyUnequal,
			participants: []string{"A", "B"},
			params:       []float64{50, math.NaN()},
			wantErr:      models.ErrInvalidSplitParameters,
		},
		{
			name:         "negative infinite unequal amount",
			total:        100,
			policy:       PolicyUnequal,
			participants: []string{"A", "B"},
			params:       []float64{math.Inf(-1), 50},
			wantErr:      models.ErrInvalidSplitParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Split(tt.total, tt.policy, tt.participants, tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if len(shares) != len(tt.want) {
				t.Fatalf("Split() returned %d shares, want %d", len(shares), len(tt.want))
			}
			for p, want := range tt.want {
				if math.Abs(shares[p]-want) > 1e-9 {
					t.Errorf("%s share = %v, want %v", p, shares[p], want)
				}
			}
		})
	}
}

func TestSplitEqual_SumsExactly(t *testing.T) {
	totals := []float64{100, 0.01, 1, 10, 99.99, 1234.56, 7, 0.07, 333.33, 1e6 + 0.01}
	for _, total := range totals {
		for n := 1; n <= 9; n++ {
			participants := make([]string, n)
			for i := range participants {
				participants[i] = string(rune('A' + i))
			}
			shares, err := SplitEqual(total, participants)
			if err != nil {
				t.Fatalf("SplitEqual(%v, %d) error: %v", total, n, err)
			}
			if len(shares) != n {
				t.Fatalf("SplitEqual(%v, %d) returned %d shares", total, n, len(shares))
			}
			if got := Sum(shares); !got.Equal(decimal.NewFromFloat(total)) {
				t.Errorf("SplitEqual(%v, %d) sums to %s", total, n, got)
			}
		}
	}
}

func TestSplitEqual_Deterministic(t *testing.T) {
	participants := []string{"Carol", "Alice", "Bob"}
	first, err := SplitEqual(10, participants)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := SplitEqual(10, participants)
		for p := range first {
			if first[p] != again[p] {
				t.Fatalf("SplitEqual not deterministic for %s: %v vs %v", p, first[p], again[p])
			}
		}
	}
	// Iteration order, not name order, decides who gets the extra cent.
	if first["Carol"] != 3.34 {
		t.Errorf("Carol share = %v, want 3.34", first["Carol"])
	}
}

func TestSplitPercentagesAndShares_SumWithinTolerance(t *testing.T) {
	participants := []string{"A", "B", "C"}

	pct, err := SplitPercentages(100, participants, []float64{33.3333, 33.3333, 33.3334})
	if err != nil {
		t.Fatal(err)
	}
	if !SumMatches(pct, 100) {
		t.Errorf("percentages sum to %s, want 100", Sum(pct))
	}

	shares, err := SplitShares(100, participants, []float64{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !SumMatches(shares, 100) {
		t.Errorf("shares sum to %s, want 100", Sum(shares))
	}
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"equal", "Unequal", " percentages ", "SHARES"} {
		if _, err := ParsePolicy(s); err != nil {
			t.Errorf("ParsePolicy(%q) error: %v", s, err)
		}
	}
	if _, err := ParsePolicy("adjustment"); !errors.Is(err, models.ErrInvalidSplitParameters) {
		t.Errorf("ParsePolicy(adjustment) error = %v, want ErrInvalidSplitParameters", err)
	}
}
