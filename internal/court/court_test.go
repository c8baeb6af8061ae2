package court

import (
	"testing"
	"time"

	"arena/internal/domain"
	"arena/internal/pricing"
	"arena/internal/recurring"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(t *testing.T, start, end string) timeslot.Interval {
	t.Helper()
	out, err := timeslot.New(start, end)
	require.NoError(t, err)
	return out
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		court   string
		sport   string
		price   string
		wantErr error
	}{
		{"valid", "Court A", "padel", "100", nil},
		{"short name", "AB", "padel", "100", domain.ErrInvalidName},
		{"missing sport", "Court A", " ", "100", domain.ErrInvalidName},
		{"zero price", "Court A", "padel", "0", domain.ErrInvalidPrice},
		{"negative price", "Court A", "padel", "-10", domain.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.court, tt.sport, decimal.RequireFromString(tt.price))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultAddons(t *testing.T) {
	assert.Len(t, DefaultAddons("society football"), 2)

	addons := DefaultAddons("Beach_Tennis")
	require.Len(t, addons, 3)
	assert.Equal(t, "Rackets", addons[2].Name)
	assert.True(t, addons[2].Price.Equal(decimal.NewFromInt(20)))
	for _, a := range addons {
		assert.False(t, a.Enabled)
	}
}

func TestMergeAddons(t *testing.T) {
	defaults := DefaultAddons("padel")
	saved := []Addon{
		{Name: "Towel", Price: decimal.NewFromInt(5), Enabled: true},
		{Name: " ball ", Price: decimal.NewFromInt(12), Enabled: true},
		{Name: "Water", Price: decimal.NewFromInt(3)},
	}

	merged := MergeAddons(defaults, saved)
	names := make([]string, len(merged))
	for i, a := range merged {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"ball", "Bibs", "Rackets", "Towel", "Water"}, names)
	assert.True(t, merged[0].Price.Equal(decimal.NewFromInt(12)))
	assert.True(t, merged[0].Enabled)
}

func TestSetDetails_SportChangeAdjustsRackets(t *testing.T) {
	c, err := New("Court A", "padel", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, c.Addons, 3)

	require.NoError(t, c.SetDetails("Court A", "volleyball", decimal.NewFromInt(100)))
	assert.Len(t, c.Addons, 2)

	require.NoError(t, c.SetDetails("Court A", "tennis", decimal.NewFromInt(100)))
	require.Len(t, c.Addons, 3)

	// An enabled rackets add-on survives a move away from racket sports.
	c.Addons[2].Enabled = true
	require.NoError(t, c.SetDetails("Court A", "volleyball", decimal.NewFromInt(100)))
	assert.Len(t, c.Addons, 3)
}

func TestSetDetails_InvalidLeavesCourtUntouched(t *testing.T) {
	c, err := New("Court A", "padel", decimal.NewFromInt(100))
	require.NoError(t, err)

	err = c.SetDetails("X", "tennis", decimal.NewFromInt(50))
	require.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Equal(t, "Court A", c.Name)
	assert.True(t, c.BasePrice.Equal(decimal.NewFromInt(100)))
}

func TestSetAddons_RejectsNegativePrice(t *testing.T) {
	c, err := New("Court A", "padel", decimal.NewFromInt(100))
	require.NoError(t, err)

	err = c.SetAddons([]Addon{{Name: "Ball", Price: decimal.NewFromInt(-1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.Len(t, c.Addons, 3)
}

func TestDuplicate(t *testing.T) {
	c, err := New("Court A", "padel", decimal.NewFromInt(100))
	require.NoError(t, err)
	c.ID = 7
	c.Version = 4

	slot, err := c.Week.AddSlot(time.Monday, iv(t, "08:00", "12:00"))
	require.NoError(t, err)
	require.NoError(t, c.Week.SetOpen(time.Monday, true))
	block, err := c.Recurring.Add(recurring.Block{Weekday: time.Monday, Slot: iv(t, "08:00", "09:00"), Customer: "Ana"})
	require.NoError(t, err)
	sp, err := c.Pricing.AddSpecialPrice(pricing.SpecialPrice{Weekday: time.Monday, Slot: iv(t, "08:00", "09:00"), Kind: pricing.KindFixed, Value: decimal.NewFromInt(80)})
	require.NoError(t, err)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	c.Block, err = c.Block.Block(now, nil, "maintenance")
	require.NoError(t, err)

	dup := c.Duplicate()
	assert.Equal(t, int64(0), dup.ID)
	assert.Equal(t, int64(0), dup.Version)
	assert.Equal(t, "Court A (copy)", dup.Name)
	assert.False(t, dup.Status(now).Blocked())

	day, err := dup.Week.Day(time.Monday)
	require.NoError(t, err)
	require.Len(t, day.Slots, 1)
	assert.NotEqual(t, slot.ID, day.Slots[0].ID)
	assert.Equal(t, slot.Interval, day.Slots[0].Interval)
	assert.NotEqual(t, block.ID, dup.Recurring.Blocks[0].ID)
	assert.Equal(t, "Ana", dup.Recurring.Blocks[0].Customer)
	assert.NotEqual(t, sp.ID, dup.Pricing.SpecialPrices[0].ID)

	// The source is untouched.
	assert.Equal(t, block.ID, c.Recurring.Blocks[0].ID)
	assert.True(t, c.Status(now).Blocked())
}

func TestSelect(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	mk := func(id int64, name, sport string, price int64) Court {
		c, err := New(name, sport, decimal.NewFromInt(price))
		require.NoError(t, err)
		c.ID = id
		return c
	}
	a := mk(1, "Arena Padel", "padel", 150)
	b := mk(2, "Beach One", "beach tennis", 90)
	c := mk(3, "Central", "padel", 120)
	var err error
	c.Block, err = c.Block.Block(now.Add(-time.Hour), nil, "")
	require.NoError(t, err)
	courts := []Court{c, b, a}

	names := func(cs []Court) []string {
		var out []string
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Arena Padel", "Beach One", "Central"}, names(Select(courts, Filter{}, now)))
	assert.Equal(t, []string{"Beach One", "Central", "Arena Padel"}, names(Select(courts, Filter{Sort: SortPriceAsc}, now)))
	assert.Equal(t, []string{"Arena Padel", "Central", "Beach One"}, names(Select(courts, Filter{Sort: SortPriceDesc}, now)))
	assert.Equal(t, []string{"Arena Padel", "Central"}, names(Select(courts, Filter{Sport: "Padel"}, now)))
	assert.Equal(t, []string{"Central"}, names(Select(courts, Filter{Status: StatusBlocked}, now)))
	assert.Equal(t, []string{"Arena Padel", "Beach One"}, names(Select(courts, Filter{Status: StatusAvailable}, now)))
	assert.Equal(t, []string{"Beach One"}, names(Select(courts, Filter{Search: "BEACH"}, now)))
}
