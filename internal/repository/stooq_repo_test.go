package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStooqCSV(t *testing.T) {
	body := []byte(`Date,Open,High,Low,Close,Volume
2024-01-02,185.1,186.5,184.2,185.9,45000000
2024-01-03,185.0,185.8,183.9,184.2,38000000
`)

	bars, err := parseStooqCSV(body)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 185.1, first.Open, 1e-9)
	assert.InDelta(t, 186.5, first.High, 1e-9)
	assert.InDelta(t, 184.2, first.Low, 1e-9)
	assert.InDelta(t, 185.9, first.Close, 1e-9)
	assert.InDelta(t, 45000000, first.Volume, 1e-9)
}

func TestParseStooqCSV_SkipsMalformedRows(t *testing.T) {
	body := []byte(`Date,Open,High,Low,Close,Volume
2024-01-02,185.1,186.5,184.2,185.9,45000000
not-a-date,1,2,3,4,5
2024-01-03,185.0,bad,183.9,184.2,38000000
2024-01-04,184.5,185.2,184.0,185.0,30000000
`)

	bars, err := parseStooqCSV(body)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), bars[1].Date)
}

func TestParseStooqCSV_NoDataRows(t *testing.T) {
	_, err := parseStooqCSV([]byte("Date,Open,High,Low,Close,Volume\n"))
	assert.Error(t, err)
}
