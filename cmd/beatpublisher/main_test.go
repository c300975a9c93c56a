package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunPayload_Stop(t *testing.T) {
	cfg := config{run: 0, runSet: true}
	assert.Equal(t, "0", runPayload(cfg, fixedNow(time.Now())))
}

func TestRunPayload_NoDelayUsesNow(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456)
	cfg := config{run: 1, runSet: true}

	got := runPayload(cfg, fixedNow(now))
	assert.Equal(t, "1700000123456", got)
}

func TestRunPayload_DelayFloorsToSecond(t *testing.T) {
	now := time.UnixMilli(1_700_000_123_456) // .456 into the second
	cfg := config{run: 1, runSet: true, delaySet: true, delayS: 2.5}

	got := runPayload(cfg, fixedNow(now))

	// floor(1700000123456/1000)*1000 = 1700000123000, + round(2.5*1000) = 2500
	assert.Equal(t, "1700000125500", got)
}

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := parseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.broker)
	assert.Equal(t, defaultMQTTPort, cfg.port)
	assert.False(t, cfg.bpmSet)
	assert.False(t, cfg.runSet)
}

func TestParseArgs_SetBPM(t *testing.T) {
	cfg, err := parseArgs([]string{"-bpm", "140"})
	require.NoError(t, err)
	assert.True(t, cfg.bpmSet)
	assert.Equal(t, 140, cfg.bpm)
	assert.False(t, cfg.runSet)
}

func TestParseArgs_RejectsInvalidRunValue(t *testing.T) {
	_, err := parseArgs([]string{"-run", "2"})
	assert.Error(t, err)
}

func TestParseArgs_RunWithDelay(t *testing.T) {
	cfg, err := parseArgs([]string{"-run", "1", "-delay-s", "3.5"})
	require.NoError(t, err)
	assert.True(t, cfg.runSet)
	assert.True(t, cfg.delaySet)
	assert.InDelta(t, 3.5, cfg.delayS, 0.0001)
}
