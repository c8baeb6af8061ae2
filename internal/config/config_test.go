package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"arena/internal/domain"
	"arena/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARENA_TEST_API_KEY", "secret")
	path := writeFile(t, dir, "config.yaml", `
http:
  api_key: ${ARENA_TEST_API_KEY}
database:
  path: `+filepath.Join(dir, "data", "arena.db")+`
redis:
  cache_ttl_seconds: 15
timezone: America/Sao_Paulo
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.HTTP.APIKey)
	assert.Equal(t, 8080, cfg.HTTPPort())
	assert.Equal(t, 8090, cfg.HealthCheckPort())
	assert.Equal(t, 9090, cfg.PrometheusPort())
	assert.Equal(t, 15*time.Second, cfg.CacheTTL())
	assert.Equal(t, 30*time.Second, cfg.SeedWatchInterval())
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval())
	assert.Equal(t, filepath.Join(dir, "data", "backups"), cfg.Backup.Path)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())

	_, err = os.Stat(filepath.Join(dir, "data"))
	assert.NoError(t, err)
}

const courtsYAML = `
defaults:
  week:
    monday:
      open: true
      slots:
        - {start: "06:00", end: "23:00"}
courts:
  - name: Central Court
    sport: padel
    base_price: 100
    recurring:
      - {customer: Ana, weekday: monday, start: "08:00", end: "09:00", valid_from: "2025-01-10", valid_to: "2025-01-20"}
    special_prices:
      - {weekday: friday, start: "19:00", end: "20:00", kind: fixed, value: 150}
    promotions:
      - name: Weekend half
        kind: percent
        value: 50
        start_date: "2025-01-01"
        end_date: "2025-12-31"
        weekdays: [saturday, sun]
        slots:
          - {start: "08:00", end: "22:00"}
        active: true
    addons:
      - {name: Ball, price: 12, enabled: true}
  - name: Beach Arena
    sport: beach tennis
    base_price: "80.50"
    week:
      saturday:
        open: true
        slots:
          - {start: "08:00", end: "12:00"}
          - {start: "14:00", end: "18:00"}
`

func TestLoadCourtsConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "courts.yaml", courtsYAML)

	cfg, err := LoadCourtsConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Courts, 2)

	cc, ok := cfg.Find("central court")
	require.True(t, ok)
	c, err := cc.Build(time.UTC)
	require.NoError(t, err)

	day, err := c.Week.Day(time.Monday)
	require.NoError(t, err)
	assert.True(t, day.Open)
	require.Len(t, day.Slots, 1)
	require.Len(t, c.Recurring.Blocks, 1)
	assert.Equal(t, "2025-01-20", c.Recurring.Blocks[0].ValidTo.Format(domain.DateLayout))
	require.Len(t, c.Pricing.SpecialPrices, 1)
	assert.Equal(t, pricing.KindFixed, c.Pricing.SpecialPrices[0].Kind)
	require.Len(t, c.Pricing.Promotions, 1)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, c.Pricing.Promotions[0].Weekdays)
	assert.True(t, c.Addons[0].Enabled)
	assert.Equal(t, "12", c.Addons[0].Price.String())

	beach, ok := cfg.Find("Beach Arena")
	require.True(t, ok)
	b, err := beach.Build(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "80.5", b.BasePrice.String())
	sat, err := b.Week.Day(time.Saturday)
	require.NoError(t, err)
	assert.Len(t, sat.Slots, 2)
	mon, err := b.Week.Day(time.Monday)
	require.NoError(t, err)
	assert.False(t, mon.Open)
}

func TestLoadCourtsConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty",
			yaml:    "courts: []",
			wantMsg: "no courts defined",
		},
		{
			name: "overlapping slots",
			yaml: `
courts:
  - name: Court A
    sport: padel
    base_price: 100
    week:
      monday:
        open: true
        slots:
          - {start: "08:00", end: "10:00"}
          - {start: "09:00", end: "11:00"}
`,
			wantErr: domain.ErrOverlap,
			wantMsg: "courts[0]: week.monday.slots[1]",
		},
		{
			name: "bad percent",
			yaml: `
courts:
  - name: Court A
    sport: padel
    base_price: 100
    special_prices:
      - {weekday: friday, start: "19:00", end: "20:00", kind: percent, value: 150}
`,
			wantErr: domain.ErrInvalidDiscountValue,
		},
		{
			name: "duplicate name",
			yaml: `
courts:
  - {name: Court A, sport: padel, base_price: 100}
  - {name: court a, sport: padel, base_price: 100}
`,
			wantMsg: "duplicate name",
		},
		{
			name: "recurring range reversed",
			yaml: `
courts:
  - name: Court A
    sport: padel
    base_price: 100
    recurring:
      - {weekday: monday, start: "08:00", end: "09:00", valid_from: "2025-02-01", valid_to: "2025-01-01"}
`,
			wantErr: domain.ErrInvalidDateRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "courts.yaml", tt.yaml)
			_, err := LoadCourtsConfig(path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestWatchCourts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "courts.yaml", courtsYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	var last atomic.Int32
	err := WatchCourts(ctx, path, 10*time.Millisecond, func(cfg *CourtsConfig) {
		calls.Add(1)
		last.Store(int32(len(cfg.Courts)))
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	updated := courtsYAML + `
  - {name: Third Court, sport: volleyball, base_price: 60}
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool { return last.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
}
