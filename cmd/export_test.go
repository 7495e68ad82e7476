package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/pomo/internal/domain"
)

func exportRecords() []domain.CompletedRecord {
	return []domain.CompletedRecord{
		{Duration: 25, FinishedAt: time.Date(2023, 7, 6, 9, 30, 0, 0, time.Local)},
		{Duration: 50, FinishedAt: time.Date(2023, 7, 7, 14, 0, 0, 0, time.Local)},
	}
}

func TestWriteExport(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"finishedAt": "2023-07-06T09:30:00"`, `"duration": 50`}},
		{"yaml", []string{"- duration: 25", "finishedAt:", "2023-07-07T14:00:00"}},
		{"csv", []string{"date,finished_at,duration_min", "2023-07-06,2023-07-06T09:30:00,25", "2023-07-07,2023-07-07T14:00:00,50"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeExport(&buf, tt.format, exportRecords()))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	err := writeExport(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestSinceDays(t *testing.T) {
	now := time.Date(2023, 7, 7, 15, 0, 0, 0, time.Local)
	assert.True(t, sinceDays(now, 0).IsZero())
	assert.True(t, sinceDays(now, 1).Equal(time.Date(2023, 7, 7, 0, 0, 0, 0, time.Local)))
	assert.True(t, sinceDays(now, 7).Equal(time.Date(2023, 7, 1, 0, 0, 0, 0, time.Local)))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, exportRecords())
	out := buf.String()

	newer := strings.Index(out, "2023-07-07")
	older := strings.Index(out, "2023-07-06")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older, "newest day first")
	assert.Contains(t, out, "09:30")
	assert.Contains(t, out, "total 50m")

	buf.Reset()
	printHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No completed sessions")
}
