// Package stats computes aggregate views over a user's expense set. All
// functions are pure: they read an already-fetched expense slice and never
// touch storage. Money is summed through decimal arithmetic so totals do
// not drift with the size of the input.
package stats

import (
	"errors"
	"sort"
	"time"

	"expensetracker/models"

	"github.com/shopspring/decimal"
)

// Uncategorized labels expenses that have no category.
const Uncategorized = "Uncategorized"

// ErrInvalidPeriod is returned for an unrecognized period token.
var ErrInvalidPeriod = errors.New("invalid period")

// CategoryTotal is a category's summed amount.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// DateTotal is one calendar day's summed amount.
type DateTotal struct {
	Date  string // YYYY-MM-DD
	Total decimal.Decimal
}

// MonthTotal is one month's summed amount within a year.
type MonthTotal struct {
	Month int // 1-12
	Total decimal.Decimal
}

// Period is a lookback window selected by a period token.
type Period struct {
	Token string
	Label string
	Start time.Time
	End   time.Time
}

// ByCategory sums amounts per category name. The result keeps the order
// categories first appear in the input, which is what chart slice ordering
// relies on.
func ByCategory(expenses []models.Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, e := range expenses {
		name := e.CategoryName()
		if name == "" {
			name = Uncategorized
		}
		amount := decimal.NewFromFloat(e.Amount)
		if i, ok := index[name]; ok {
			totals[i].Total = totals[i].Total.Add(amount)
		} else {
			index[name] = len(totals)
			totals = append(totals, CategoryTotal{Category: name, Total: amount})
		}
	}
	return totals
}

// ByDate sums amounts per calendar day, ascending by date.
func ByDate(expenses []models.Expense) []DateTotal {
	byDay := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.Date.Format("2006-01-02")
		byDay[key] = byDay[key].Add(decimal.NewFromFloat(e.Amount))
	}

	totals := make([]DateTotal, 0, len(byDay))
	for day, total := range byDay {
		totals = append(totals, DateTotal{Date: day, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})
	return totals
}

// ByMonth sums amounts per month for expenses dated in year. Months with
// no expenses are omitted.
func ByMonth(expenses []models.Expense, year int) []MonthTotal {
	byMonth := make(map[int]decimal.Decimal)
	for _, e := range expenses {
		if e.Date.Year() != year {
			continue
		}
		month := int(e.Date.Month())
		byMonth[month] = byMonth[month].Add(decimal.NewFromFloat(e.Amount))
	}

	totals := make([]MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// Sum adds up all amounts in the set.
func Sum(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

// PeriodWindow maps a period token to its lookback window ending at now.
// Offsets are fixed day counts, not calendar month arithmetic.
func PeriodWindow(token string, now time.Time) (Period, error) {
	var days int
	var label string
	switch token {
	case "30days":
		days, label = 30, "Last 30 Days"
	case "3months":
		days, label = 90, "Last 3 Months"
	case "6months":
		days, label = 180, "Last 6 Months"
	case "1year":
		days, label = 365, "Last 1 Year"
	default:
		return Period{}, ErrInvalidPeriod
	}

	return Period{
		Token: token,
		Label: label,
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}, nil
}
