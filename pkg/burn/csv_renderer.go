package burn

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type SeriesRenderer interface {
	RenderSeries(days []DayRecord) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

var csvHeader = []string{"Date", "Weekend", "Ideal", "Done", "Total done", "Debt", "Burndown"}

// RenderSeries writes one row per day, dates as dd/mm/yyyy. Values a day
// does not carry are left empty.
func (r *CsvRendererImpl) RenderSeries(days []DayRecord) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	rows := make([][]string, 0, len(days)+1)
	rows = append(rows, csvHeader)
	for _, day := range days {
		rows = append(rows, []string{
			day.Date.Time().Format("02/01/2006"),
			strconv.FormatBool(day.IsWeekend),
			formatValue(day.Ideal),
			formatValue(day.DailyCompleted),
			formatValue(day.CumulativeCompleted),
			formatValue(day.Debt),
			formatValue(day.Burndown),
		})
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
