package fieldlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergedColumns(t *testing.T) {
	cols := MergedColumns()

	// Join keys once, every other header twice, plus the delta column.
	assert.Len(t, cols, 2+2*(len(Header)-2)+1)
	assert.Equal(t, "ID", cols[0])
	assert.Equal(t, "Site", cols[1])
	assert.Equal(t, "Entry Type_Start", cols[2])
	assert.Equal(t, "Elapsed Time Diff (min)", cols[len(cols)-1])
	assert.NotContains(t, cols[2:], "ID_Start")
}

func TestMerge_PairsStartAndStop(t *testing.T) {
	entries := []Entry{
		{EntryType: EntryStart, ID: "S-01", Site: "Tema", ElapsedMin: 10},
		{EntryType: EntryStop, ID: "S-01", Site: "Tema", ElapsedMin: 1450},
		{EntryType: EntryStart, ID: "S-02", Site: "Achimota", ElapsedMin: 0},
		// Stop for another site never pairs with S-02's start.
		{EntryType: EntryStop, ID: "S-02", Site: "Tema", ElapsedMin: 99},
	}

	rows := Merge(entries)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "S-01", row[0])
	assert.Equal(t, "Tema", row[1])
	assert.Len(t, row, len(MergedColumns()))
	// 1450 − 10 minutes on the sampler clock.
	assert.Equal(t, 1440.0, row[len(row)-1])
}

func TestMerge_CrossProduct(t *testing.T) {
	entries := []Entry{
		{EntryType: EntryStart, ID: "S-01", Site: "Tema"},
		{EntryType: EntryStart, ID: "S-01", Site: "Tema"},
		{EntryType: EntryStop, ID: "S-01", Site: "Tema"},
	}

	// Duplicate starts each pair with the stop.
	assert.Len(t, Merge(entries), 2)
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{EntryType: EntryStart, ID: "S-01", Site: "Tema", Officer: "A. Mensah", Driver: "K. Owusu"}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.EntryType = "Pause"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Site = ""
	assert.Error(t, bad.Validate())
}

func TestEntryRowRoundTrip(t *testing.T) {
	e := Entry{
		EntryType: EntryStop, ID: "S-01", Site: "Tema",
		Officer: "A. Mensah", Driver: "K. Owusu",
		Date: "2023-01-05", Time: "08:30:00",
		Temperature: 31.5, RH: 64, Pressure: 1009,
		Weather: "Hazy", Wind: "Calm",
		ElapsedMin: 1440, FlowRate: 16.7,
		Observation: "filter intact", SubmittedAt: "2023-01-05 09:00:00",
	}

	got := entryFromRow(e.row())
	assert.Equal(t, e, got)
}
