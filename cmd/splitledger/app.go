package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
)

// app is passed to every command through Commander.Execute.
type app struct {
	ledger   *ledger.Ledger
	currency string
	out      io.Writer
	errOut   io.Writer
}

func appFrom(args []interface{}) *app {
	if len(args) == 0 {
		panic("splitledger: command executed without app")
	}
	return args[0].(*app)
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintf(a.errOut, "Error: "+format+"\n", args...)
}

// amount formats v in the configured currency, e.g. "$12.50".
func (a *app) amount(v float64) string {
	cur := money.GetCurrency(a.currency)
	if cur == nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	minor := decimal.NewFromFloat(v).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// list splits a comma-separated flag value, dropping empty items.
func list(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func floats(s string) ([]float64, error) {
	items := list(s)
	out := make([]float64, len(items))
	for i, item := range items {
		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", item)
		}
		out[i] = v
	}
	return out, nil
}

// shareMap parses "user=amount,user=amount".
func shareMap(s string) (map[string]float64, error) {
	items := list(s)
	if len(items) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(items))
	for _, item := range items {
		user, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid share %q, want user=amount", item)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid share amount %q", value)
		}
		out[strings.TrimSpace(user)] = v
	}
	return out, nil
}

// splitFlags are the flags shared by the commands that take a split.
type splitFlags struct {
	policy       string
	participants string
	params       string
	shares       string
}

func (s *splitFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.policy, "split", "", "Split policy: equal, unequal, percentages or shares")
	f.StringVar(&s.participants, "participants", "", "Comma-separated participant IDs for -split")
	f.StringVar(&s.params, "params", "", "Comma-separated split parameters, one per participant")
	f.StringVar(&s.shares, "shares", "", "Explicit shares as user=amount,user=amount")
}

// parse returns the explicit shares or the split request. Both are nil when
// neither flag was given.
func (s *splitFlags) parse() (map[string]float64, *ledger.SplitInput, error) {
	if s.shares != "" && s.policy != "" {
		return nil, nil, fmt.Errorf("-shares and -split are mutually exclusive")
	}
	if s.shares != "" {
		shares, err := shareMap(s.shares)
		return shares, nil, err
	}
	if s.policy == "" {
		return nil, nil, nil
	}
	policy, err := calculator.ParsePolicy(s.policy)
	if err != nil {
		return nil, nil, err
	}
	params, err := floats(s.params)
	if err != nil {
		return nil, nil, err
	}
	return nil, &ledger.SplitInput{
		Policy:       policy,
		Participants: list(s.participants),
		Params:       params,
	}, nil
}

// parseTime accepts RFC 3339 timestamps or dates; empty is zero.
func parseTime(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, want RFC 3339 or YYYY-MM-DD", s)
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.DateTime)
}
