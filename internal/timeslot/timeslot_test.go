package timeslot

import (
	"encoding/json"
	"testing"

	"arena/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(t *testing.T, start, end string) Interval {
	t.Helper()
	v, err := New(start, end)
	require.NoError(t, err)
	return v
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(390), got)

	got, err = ParseTimeOfDay("7:05")
	require.NoError(t, err)
	assert.Equal(t, Clock(7, 5), got)

	for _, bad := range []string{"", "24:00", "12:60", "12", "ab:cd", "12:5"} {
		_, err := ParseTimeOfDay(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInterval, bad)
	}
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name    string
		iv      Interval
		wantErr bool
	}{
		{name: "valid", iv: Interval{Start: Clock(8, 0), End: Clock(9, 0)}},
		{name: "last minute", iv: Interval{Start: Clock(23, 0), End: 1439}},
		{name: "equal bounds", iv: Interval{Start: Clock(8, 0), End: Clock(8, 0)}, wantErr: true},
		{name: "reversed", iv: Interval{Start: Clock(9, 0), End: Clock(8, 0)}, wantErr: true},
		{name: "end at midnight", iv: Interval{Start: Clock(23, 0), End: MinutesPerDay}, wantErr: true},
		{name: "negative start", iv: Interval{Start: -1, End: Clock(1, 0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.iv.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInterval)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := iv(t, "10:00", "14:00")

	assert.False(t, Overlaps(base, iv(t, "08:00", "10:00")), "touching before")
	assert.False(t, Overlaps(base, iv(t, "14:00", "16:00")), "touching after")
	assert.True(t, Overlaps(base, iv(t, "12:00", "16:00")), "starts during")
	assert.True(t, Overlaps(base, iv(t, "11:00", "13:00")), "contained")
	assert.True(t, Overlaps(iv(t, "11:00", "13:00"), base), "symmetric")
}

func TestInterval_Contains(t *testing.T) {
	base := iv(t, "10:00", "14:00")

	assert.True(t, base.Contains(Clock(10, 0)))
	assert.True(t, base.Contains(Clock(13, 59)))
	assert.False(t, base.Contains(Clock(14, 0)))
	assert.False(t, base.Contains(Clock(9, 59)))
}

func TestCovered(t *testing.T) {
	slots := []Interval{
		iv(t, "07:00", "08:00"),
		iv(t, "06:00", "07:00"),
		iv(t, "18:00", "22:00"),
	}

	assert.True(t, Covered(iv(t, "06:30", "07:30"), slots), "spans adjacent slots")
	assert.True(t, Covered(iv(t, "18:00", "22:00"), slots))
	assert.False(t, Covered(iv(t, "07:30", "08:30"), slots))
	assert.False(t, Covered(iv(t, "10:00", "11:00"), slots))
	assert.False(t, Covered(iv(t, "10:00", "11:00"), nil))
}

func TestUnion(t *testing.T) {
	got := Union([]Interval{
		iv(t, "10:00", "11:00"),
		iv(t, "06:00", "07:00"),
		iv(t, "07:00", "08:00"),
		iv(t, "10:30", "12:00"),
	})
	assert.Equal(t, []Interval{iv(t, "06:00", "08:00"), iv(t, "10:00", "12:00")}, got)
	assert.Nil(t, Union(nil))
}

func TestGrid(t *testing.T) {
	cells := Grid(iv(t, "06:00", "08:15"), 30)
	require.Len(t, cells, 4)
	assert.Equal(t, iv(t, "06:00", "06:30"), cells[0])
	assert.Equal(t, iv(t, "07:30", "08:00"), cells[3])
}

func TestInterval_JSON(t *testing.T) {
	data, err := json.Marshal(iv(t, "08:00", "09:30"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"08:00","end":"09:30"}`, string(data))

	var back Interval
	require.NoError(t, json.Unmarshal([]byte(`{"start":"6:00","end":"23:00"}`), &back))
	assert.Equal(t, iv(t, "06:00", "23:00"), back)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00","end":"23:00"}`), &back))
}
