package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arena/internal/clock"
	"arena/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `
courts:
  - name: Court A
    sport: padel
    base_price: 100
    week:
      monday:
        open: true
        slots:
          - {start: "06:00", end: "12:00"}
    recurring:
      - {customer: Ana, weekday: monday, start: "08:00", end: "09:00"}
      - {customer: Bia, weekday: tuesday, start: "08:00", end: "09:00"}
`

func setupContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "courts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	out := &bytes.Buffer{}
	return &Context{
		CourtsPath: path,
		Location:   time.UTC,
		Clock:      clock.Fixed(time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)),
		Out:        out,
	}, out
}

func TestValidateCmd(t *testing.T) {
	ctx, out := setupContext(t)
	require.NoError(t, (&ValidateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "1 courts OK")
	assert.Contains(t, out.String(), "Court A (padel) 100.00")
}

func TestQueryCmd(t *testing.T) {
	ctx, out := setupContext(t)

	require.NoError(t, (&QueryCmd{Court: "court a", Date: "2025-06-02", Start: "08:00", End: "09:00"}).Run(ctx))
	assert.Contains(t, out.String(), "recurring_reservation (Ana)")

	out.Reset()
	require.NoError(t, (&QueryCmd{Court: "Court A", Date: "today", Start: "10:00", End: "11:00"}).Run(ctx))
	assert.Contains(t, out.String(), "available, price 100.00 (base)")

	err := (&QueryCmd{Court: "Nope", Date: "today", Start: "10:00", End: "11:00"}).Run(ctx)
	assert.ErrorIs(t, err, domain.ErrUnknownCourt)

	err = (&QueryCmd{Court: "Court A", Date: "02/06/2025", Start: "10:00", End: "11:00"}).Run(ctx)
	assert.Error(t, err)
}

func TestGridCmd(t *testing.T) {
	ctx, out := setupContext(t)

	require.NoError(t, (&GridCmd{Court: "Court A", Date: "2025-06-02"}).Run(ctx))
	assert.Contains(t, out.String(), "06:00-06:30")
	assert.Contains(t, out.String(), "11:30-12:00")

	out.Reset()
	require.NoError(t, (&GridCmd{Court: "Court A", Date: "2025-06-03"}).Run(ctx))
	assert.Contains(t, out.String(), "closed")
}

func TestConflictsCmd(t *testing.T) {
	ctx, out := setupContext(t)
	require.NoError(t, (&ConflictsCmd{Court: "Court A"}).Run(ctx))
	assert.Contains(t, out.String(), "tuesday 08:00-09:00 Bia")
	assert.NotContains(t, out.String(), "Ana")
}

func TestExportCmd(t *testing.T) {
	ctx, out := setupContext(t)
	path := filepath.Join(t.TempDir(), "court.xlsx")

	require.NoError(t, (&ExportCmd{Court: "Court A", Date: "2025-06-02", Out: path}).Run(ctx))
	assert.Contains(t, out.String(), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
