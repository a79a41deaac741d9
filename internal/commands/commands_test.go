package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scatter/internal/logger"
)

func TestParse(t *testing.T) {
	args, err := Parse(`cmd background "#336699"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"background", "#336699"}, args)

	args, err = Parse("cmd   count 42 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "42"}, args)

	args, err = Parse("cmd ")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = Parse("hello there")
	assert.ErrorIs(t, err, ErrNotCommand)

	_, err = Parse(`cmd count "42`)
	assert.Error(t, err)
}

func TestExecutePassesPositionalsAndFlags(t *testing.T) {
	r := NewRegistry(nil)
	fs := NewFlags("seed")
	respawn := fs.Bool("respawn", false, "re-place every instance")
	var got []string
	var gotRespawn bool
	r.Register("seed", "reseed placement", fs, func(args []string) error {
		got = args
		gotRespawn = *respawn
		return nil
	})

	require.NoError(t, r.Run("cmd seed 7 --respawn"))
	assert.Equal(t, []string{"7"}, got)
	assert.True(t, gotRespawn)

	require.NoError(t, r.Run("cmd seed 8"))
	assert.Equal(t, []string{"8"}, got)
	assert.False(t, gotRespawn, "flags reset between runs")
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("count", "set count", nil, func([]string) error {
		return errors.New("boom")
	})
	assert.EqualError(t, r.Execute(nil), "missing subcommand")
	assert.EqualError(t, r.Execute([]string{"nope"}), "unknown command: nope")
	assert.EqualError(t, r.Execute([]string{"count", "1"}), "boom")
	assert.Error(t, r.Execute([]string{"count", "--bogus"}))
	assert.ErrorIs(t, r.Run("count 1"), ErrNotCommand)
}

func TestHelpListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWriter(&buf)
	r := NewRegistry(log)
	fs := NewFlags("fps")
	fs.Bool("mem", false, "also show heap usage")
	r.Register("fps", "toggle the fps overlay", fs, func([]string) error { return nil })
	r.Register("count", "set the instance count", nil, func([]string) error { return nil })

	help := r.Help()
	require.GreaterOrEqual(t, len(help), 4)
	assert.Equal(t, "cmd count - set the instance count", help[0])
	assert.Equal(t, "cmd fps - toggle the fps overlay", help[1])
	assert.Contains(t, help[2], "--mem")
	assert.Equal(t, "cmd help - list commands", help[3])
	assert.True(t, r.Has("help"))

	require.NoError(t, r.Run("cmd help"))
	assert.Len(t, log.Lines(), len(help))
	assert.True(t, strings.Contains(buf.String(), "cmd count - set the instance count"))
}
