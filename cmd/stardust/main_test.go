package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stardust/internal/config"
	"stardust/internal/defs"
	"stardust/internal/domain"
	"stardust/internal/engine"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestExportImportThroughDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "save.db")
	t.Setenv("STARDUST_STORAGE_SAVE_KEY", "cli-test")

	save := `{"stardust": 750, "totalEarned": 750, "ship": {"id": "x", "level": 3, "hp": 5, "maxHp": 10, "reward": 4}, "zone": 0}`
	out := run(t, save, "--db", db, "import")
	assert.Contains(t, out, "Stardust:     750 (lifetime 750)")

	exportPath := filepath.Join(dir, "export.json")
	run(t, "", "--db", db, "export", "--out", exportPath)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ship"`)

	status := run(t, "", "--db", db, "status")
	assert.Contains(t, status, "Zone 0, level 3")
	assert.Contains(t, status, "* laser")
	assert.Contains(t, status, "next 10\n")

	saves := run(t, "", "--db", db, "saves")
	assert.Equal(t, "* cli-test\n", saves)
}

func TestImportRejectsInvalidSave(t *testing.T) {
	db := filepath.Join(t.TempDir(), "save.db")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--db", db, "import"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"stardust": "lots"}`))
	require.Error(t, cmd.Execute())
}

func TestStatusLine(t *testing.T) {
	s := domain.Snapshot{Zone: 2, Stardust: 1234567.9, DPS: 12.5, ComboCount: 4, Ship: domain.Ship{Level: 21}}
	assert.Equal(t, "zone 2 level 21 | 1,234,567 stardust | 12 dps | combo 4", statusLine(s))
}

func TestWriteShopMarksAffordable(t *testing.T) {
	eng := engine.New(config.Default(), defs.Default())
	s := domain.Snapshot{Stardust: 30, Upgrades: map[string]domain.UpgradeState{"laser": {ID: "laser", Level: 1}}}
	var buf bytes.Buffer
	writeShop(&buf, eng, s)
	out := buf.String()
	assert.Contains(t, out, " * laser           lv 1    next 11\n")
	assert.Contains(t, out, "   drone_bay       lv 0    next 200\n")
}

func TestWriteStatusBoss(t *testing.T) {
	s := domain.Snapshot{Ship: domain.Ship{Level: 10, IsBoss: true, HP: 100, MaxHP: 100,
		Generators: []domain.ShieldGenerator{{ID: "a", HP: 0, MaxHP: 5}, {ID: "b", HP: 5, MaxHP: 5}}}}
	var buf bytes.Buffer
	writeStatus(&buf, s)
	assert.Contains(t, buf.String(), "boss (1/2 generators up)")
}
