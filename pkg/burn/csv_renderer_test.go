package burn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRendererImpl_RenderSeries(t *testing.T) {
	t.Run("should leave weekend values empty", func(t *testing.T) {
		// given
		days, err := ComputeBurnSeries([]WorkItem{done(3, day(1, 5)), {StoryPoints: 2}}, day(1, 5), day(1, 8))
		require.NoError(t, err)

		// when
		csv, err := NewCsvRenderer().RenderSeries(days)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Date,Weekend,Ideal,Done,Total done,Debt,Burndown\n"+
			"05/01/2024,false,3,3,3,0,2\n"+
			"06/01/2024,true,,,,,\n"+
			"07/01/2024,true,,,,,\n"+
			"08/01/2024,false,5,0,3,2,2\n", csv)
	})

	t.Run("should render only the header for an empty series", func(t *testing.T) {
		// when
		csv, err := NewCsvRenderer().RenderSeries([]DayRecord{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Date,Weekend,Ideal,Done,Total done,Debt,Burndown\n", csv)
	})

	t.Run("should keep fractional points", func(t *testing.T) {
		// given
		days := []DayRecord{{Date: day(1, 1), Ideal: ptr(1), DailyCompleted: ptr(0.5), CumulativeCompleted: ptr(0.5), Debt: ptr(0.5), Burndown: ptr(1.5)}}

		// when
		csv, err := NewCsvRenderer().RenderSeries(days)

		// then
		require.NoError(t, err)
		assert.Contains(t, csv, "01/01/2024,false,1,0.5,0.5,0.5,1.5\n")
	})
}
