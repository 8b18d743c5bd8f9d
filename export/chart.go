package export

import (
	"bytes"
	"fmt"

	"expensetracker/stats"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
)

// categoryPie renders a PNG pie chart of the per-category totals. Slice
// order follows the input (first-seen category order); labels carry the
// share of the grand total to one decimal.
func categoryPie(totals []stats.CategoryTotal) ([]byte, error) {
	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		pct := 0.0
		if !grand.IsZero() {
			pct = t.Total.Div(grand).InexactFloat64() * 100
		}
		values = append(values, chart.Value{
			Value: t.Total.InexactFloat64(),
			Label: fmt.Sprintf("%s %.1f%%", t.Category, pct),
		})
	}

	// go-chart has no start-angle control, so slice order alone fixes
	// where each category lands on the wheel.
	pie := chart.PieChart{
		Title:  "Expenses by Category",
		Width:  600,
		Height: 450,
		Values: values,
	}

	buf := new(bytes.Buffer)
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
