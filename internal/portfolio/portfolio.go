package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Stakeholder is one investor in the shared position.
type Stakeholder struct {
	Name   string
	Amount decimal.Decimal
}

// Book describes the shared position: how many shares are held, the average
// purchase price, and who paid what.
type Book struct {
	TotalShares  int
	AvgPrice     decimal.Decimal
	Stakeholders []Stakeholder
}

// NewBook builds a Book from plain config values.
func NewBook(totalShares int, avgPrice float64, stakeholders []Stakeholder) Book {
	return Book{
		TotalShares:  totalShares,
		AvgPrice:     decimal.NewFromFloat(avgPrice),
		Stakeholders: stakeholders,
	}
}

// TotalInvestment is the sum of all stakeholder contributions.
func (b Book) TotalInvestment() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Stakeholders {
		total = total.Add(s.Amount)
	}
	return total
}

// Position is one stakeholder's slice of a valuation.
type Position struct {
	Name          string          `json:"name"`
	Invested      decimal.Decimal `json:"invested"`
	SharePercent  decimal.Decimal `json:"share_percent"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	ProfitLoss    decimal.Decimal `json:"profit_loss"`
	ReturnPercent decimal.Decimal `json:"return_percent"`
}

// Valuation is the whole book marked at one price.
type Valuation struct {
	Price           decimal.Decimal `json:"price"`
	MarketValue     decimal.Decimal `json:"market_value"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	ProfitLoss      decimal.Decimal `json:"profit_loss"`
	Positions       []Position      `json:"positions"`
}

// Valuate marks the book at the given price. Percentages are rounded to two
// decimal places, money values to two decimal places.
func (b Book) Valuate(price float64) Valuation {
	p := decimal.NewFromFloat(price)
	shares := decimal.NewFromInt(int64(b.TotalShares))
	invested := b.TotalInvestment()

	marketValue := p.Mul(shares)

	v := Valuation{
		Price:           p,
		MarketValue:     marketValue.Round(2),
		TotalInvestment: invested,
		ProfitLoss:      marketValue.Sub(invested).Round(2),
		Positions:       make([]Position, 0, len(b.Stakeholders)),
	}

	for _, s := range b.Stakeholders {
		sharePct := decimal.Zero
		if !invested.IsZero() {
			sharePct = s.Amount.Mul(hundred).Div(invested).Round(2)
		}

		currentValue := decimal.Zero
		if !invested.IsZero() {
			currentValue = marketValue.Mul(s.Amount).Div(invested).Round(2)
		}
		profit := currentValue.Sub(s.Amount).Round(2)

		returnPct := decimal.Zero
		if !s.Amount.IsZero() {
			returnPct = profit.Mul(hundred).Div(s.Amount).Round(2)
		}

		v.Positions = append(v.Positions, Position{
			Name:          s.Name,
			Invested:      s.Amount,
			SharePercent:  sharePct,
			CurrentValue:  currentValue,
			ProfitLoss:    profit,
			ReturnPercent: returnPct,
		})
	}

	return v
}

// ParseStakeholders parses a "Name:Amount,Name:Amount" list. Names must be
// non-empty and amounts positive.
func ParseStakeholders(raw string) ([]Stakeholder, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("stakeholder list is empty")
	}

	parts := strings.Split(raw, ",")
	stakeholders := make([]Stakeholder, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		name, amountStr, found := strings.Cut(strings.TrimSpace(part), ":")
		if !found {
			return nil, fmt.Errorf("entry %q is not in name:amount form", part)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("entry %q has an empty name", part)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("stakeholder %q appears twice", name)
		}
		seen[name] = struct{}{}

		amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
		if err != nil {
			return nil, fmt.Errorf("amount for %q is not a number: %w", name, err)
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("amount for %q must be positive", name)
		}

		stakeholders = append(stakeholders, Stakeholder{Name: name, Amount: amount})
	}

	return stakeholders, nil
}
