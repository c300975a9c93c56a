package hapticmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_ParseBPM(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	cmd, err := a.ParseBPM("140")
	require.NoError(t, err)
	assert.Equal(t, CommandSetBPM, cmd.Kind)
	assert.Equal(t, 140, cmd.BPM)

	_, err = a.ParseBPM("not-a-number")
	assert.Error(t, err)
}

func TestAdapter_ParseRun_StopTokens(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	for _, tok := range []string{"0", "false", "Off", "STOP", "no", "  stop  "} {
		cmd, err := a.ParseRun(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, CommandStop, cmd.Kind, tok)
	}
}

func TestAdapter_ParseRun_ScheduleStart(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	cmd, err := a.ParseRun("100000000001")
	require.NoError(t, err)
	assert.Equal(t, CommandScheduleStart, cmd.Kind)
	assert.EqualValues(t, 100000000001, cmd.ScheduleMS)
}

func TestAdapter_ParseRun_RejectsSmallTimestamp(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	_, err := a.ParseRun("12345")
	assert.ErrorContains(t, err, "invalid start timestamp")
}

func TestAdapter_ParseRun_RejectsGarbage(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	_, err := a.ParseRun("banana")
	assert.Error(t, err)
}

func TestAdapter_ParseTopic_Dispatch(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	cmd, err := a.ParseTopic(DefaultBPMTopic, "90")
	require.NoError(t, err)
	assert.Equal(t, CommandSetBPM, cmd.Kind)

	cmd, err = a.ParseTopic(DefaultRunTopic, "100000000001")
	require.NoError(t, err)
	assert.Equal(t, CommandScheduleStart, cmd.Kind)
}

func TestAdapter_ParseTopic_Unknown(t *testing.T) {
	a := NewAdapter(DefaultBPMTopic, DefaultRunTopic)

	_, err := a.ParseTopic("bhaptics/other", "1")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}
