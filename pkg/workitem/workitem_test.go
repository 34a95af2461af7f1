package workitem

import (
	"testing"
	"time"

	"github.com/klokku/burnup/pkg/burn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name    string
		input   string
		want    *burn.Date
		wantErr bool
	}{
		{name: "numeric with time", input: "16/09/2020 17:22:59", want: date(2020, 9, 16)},
		{name: "numeric without time", input: "16/09/2020", want: date(2020, 9, 16)},
		{name: "medium with single digit hour", input: "Sep 18, 2020, 1:14:38 PM", want: date(2020, 9, 18)},
		{name: "medium with padded hour", input: "Sep 18, 2020, 01:14:38 AM", want: date(2020, 9, 18)},
		{name: "medium single digit day", input: "Sep 8, 2020, 11:14:38 PM", want: date(2020, 9, 8)},
		{name: "iso timestamp converted to board zone", input: "2020-09-18T02:00:00.000Z", want: date(2020, 9, 17)},
		{name: "iso date", input: "2020-09-18", want: date(2020, 9, 18)},
		{name: "surrounding whitespace", input: "  16/09/2020 17:22:59\n", want: date(2020, 9, 16)},
		{name: "no date marker", input: "--"},
		{name: "empty", input: ""},
		{name: "unknown", input: "Unknown"},
		{name: "garbage", input: "yesterday-ish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input, brt)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparseableDate)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "8", want: 8},
		{input: " 13 ", want: 13},
		{input: "0.5", want: 0.5},
		{input: "1,5", want: 1.5},
		{input: "", want: 0},
		{input: "?", wantErr: true},
		{input: "-2", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "inf", wantErr: true},
		{input: "-Infinity", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePoints(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPoints)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	// given
	raw := []RawItem{
		{StoryPoints: "5", Status: "Pronto", ResolutionDate: "16/09/2020 17:22:59"},
		{StoryPoints: "3", Status: "Em andamento", ResolutionDate: "--"},
		{StoryPoints: "abc", Status: "", ResolutionDate: "not a date"},
		{StoryPoints: "NaN", Status: "Pronto", ResolutionDate: "17/09/2020"},
	}

	// when
	items := Normalize(raw, time.UTC)

	// then
	require.Len(t, items, 4)
	assert.Equal(t, burn.WorkItem{StoryPoints: 5, Status: burn.DoneStatus, ResolutionDate: date(2020, 9, 16)}, items[0])
	assert.Equal(t, burn.WorkItem{StoryPoints: 3, Status: "Em andamento"}, items[1])
	assert.Equal(t, burn.WorkItem{StoryPoints: 0, Status: "Unknown"}, items[2])
	assert.Equal(t, burn.WorkItem{StoryPoints: 0, Status: burn.DoneStatus, ResolutionDate: date(2020, 9, 17)}, items[3])
}

func TestNormalize_NonFinitePointsDoNotFailSeries(t *testing.T) {
	// given
	raw := []RawItem{
		{StoryPoints: "3", Status: "Em andamento"},
		{StoryPoints: "NaN", Status: "Pronto", ResolutionDate: "03/01/2024"},
		{StoryPoints: "inf", Status: "Pronto", ResolutionDate: "04/01/2024"},
	}

	// when
	days, err := burn.ComputeBurnSeries(Normalize(raw, time.UTC), burn.NewDate(2024, 1, 1), burn.NewDate(2024, 1, 5))

	// then
	require.NoError(t, err)
	require.Len(t, days, 5)
	require.NotNil(t, days[4].Burndown)
	assert.Equal(t, 3.0, *days[4].Burndown)
}

func date(year int, month time.Month, day int) *burn.Date {
	d := burn.NewDate(year, month, day)
	return &d
}
