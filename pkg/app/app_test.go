package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/relayctl/pkg/device"
)

func TestOpen_FallsBackToNullController(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := Open(ctx, Options{
		DBPath:     filepath.Join(dir, "relayctl.db"),
		SerialPort: filepath.Join(dir, "no-such-port"),
	})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Panel.Board().IsConnected())
	assert.Equal(t, filepath.Join(dir, "no-such-port"), a.Config.SerialPort())
	assert.Len(t, a.Panel.Scheduler().Definitions(), 4)

	_, err = a.Panel.AllOn(ctx)
	assert.ErrorIs(t, err, device.ErrNotConnected)
}

func TestOpen_PersistsSerialPort(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "relayctl.db")
	ctx := context.Background()

	a, err := Open(ctx, Options{DBPath: dbPath, SerialPort: "/dev/ttyTEST9"})
	require.NoError(t, err)
	a.Close()

	a, err = Open(ctx, Options{DBPath: dbPath})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "/dev/ttyTEST9", a.Config.SerialPort())
}

func TestOpen_RequireBoard(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(context.Background(), Options{
		DBPath:       filepath.Join(dir, "relayctl.db"),
		SerialPort:   filepath.Join(dir, "no-such-port"),
		RequireBoard: true,
	})
	require.Error(t, err)
	assert.True(t, IsBoardMissing(err))
}

func TestOpen_LoadsRoutineFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routines.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
routines:
  - name: chase
    cycles: 2
    steps:
      - label: left
        hex: "ffff0000"
        hold: 1
      - label: right
        hex: "0000ffff"
        hold: 1
`), 0o644))

	a, err := Open(context.Background(), Options{
		DBPath:       filepath.Join(dir, "relayctl.db"),
		SerialPort:   filepath.Join(dir, "no-such-port"),
		RoutinesFile: file,
	})
	require.NoError(t, err)
	defer a.Close()

	def, ok := a.Panel.Scheduler().Definition("chase")
	require.True(t, ok)
	assert.Equal(t, 2, def.Cycles)
	assert.Equal(t, 4, def.Units())
}

func TestSetupLogging(t *testing.T) {
	defer func(l zerolog.Logger, lvl zerolog.Level) {
		log.Logger = l
		zerolog.SetGlobalLevel(lvl)
	}(log.Logger, zerolog.GlobalLevel())

	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "relayctl.log")

	closer, err := SetupLogging(&console, LogOptions{Level: "debug", File: file})
	require.NoError(t, err)

	log.Debug().Str("port", "/dev/ttyACM0").Msg("probe")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "probe")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"probe"`)

	_, err = SetupLogging(&console, LogOptions{Level: "loud"})
	assert.Error(t, err)
}
