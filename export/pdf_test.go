package export

import (
	"testing"

	"expensetracker/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDF(t *testing.T) {
	data, err := PDF(sampleExpenses(), "Last 30 Days")
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
	// Chart PNG plus table makes this comfortably larger than a bare page.
	assert.Greater(t, len(data), 2000)
}

// An empty set renders the document without the chart.
func TestPDFEmpty(t *testing.T) {
	data, err := PDF(nil, "Last 1 Year")
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestCategoryPie(t *testing.T) {
	expenses := sampleExpenses()

	png, err := categoryPie(stats.ByCategory(expenses))
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
