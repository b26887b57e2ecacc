// Package testutil provides shared fixtures for cooccur tests: a small
// hourly power-load dataset and a helper that stores records in SQLite.
package testutil

import (
	"github.com/Veraticus/cooccur/internal/model"
)

// PowerColumns is the column order of the power-load fixture.
var PowerColumns = []string{"timestamp", "temp_c", "wind_mps", "is_holiday", "load_mw"}

// PowerCSV is the power-load fixture in CSV form.
//
// Load is split at its median of 675, so every cold hour is a high-load hour.
const PowerCSV = `timestamp,temp_c,wind_mps,is_holiday,load_mw
2024-01-01T00:00,-5,2,0,950
2024-01-01T01:00,-3,1,0,900
2024-01-01T02:00,-1,5,1,880
2024-01-01T03:00,4,2,0,700
2024-01-01T04:00,12,8,0,500
2024-01-01T05:00,15,4,1,450
2024-01-01T06:00,18,2,0,480
2024-01-01T07:00,8,9,0,650
`

// PowerRecords returns the power-load fixture as records.
func PowerRecords() []model.Record {
	rows := [][]float64{
		{-5, 2, 0, 950},
		{-3, 1, 0, 900},
		{-1, 5, 1, 880},
		{4, 2, 0, 700},
		{12, 8, 0, 500},
		{15, 4, 1, 450},
		{18, 2, 0, 480},
		{8, 9, 0, 650},
	}
	stamps := []string{
		"2024-01-01T00:00", "2024-01-01T01:00", "2024-01-01T02:00", "2024-01-01T03:00",
		"2024-01-01T04:00", "2024-01-01T05:00", "2024-01-01T06:00", "2024-01-01T07:00",
	}

	records := make([]model.Record, len(rows))
	for i, row := range rows {
		records[i] = model.Record{
			"timestamp":  model.Text(stamps[i]),
			"temp_c":     model.Number(row[0]),
			"wind_mps":   model.Number(row[1]),
			"is_holiday": model.Number(row[2]),
			"load_mw":    model.Number(row[3]),
		}
	}
	return records
}
