package hapticmsg

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Default topic names, grounded on the original project's bhaptics/bpm and
// bhaptics/run topics.
const (
	DefaultBPMTopic = "bhaptics/bpm"
	DefaultRunTopic = "bhaptics/run"
)

// minScheduleTargetMS is the spec section 4.8 threshold (10^11) below which
// a numeric run-topic payload cannot be a plausible epoch-ms timestamp.
const minScheduleTargetMS = 100_000_000_000

var stopTokens = map[string]struct{}{
	"0":     {},
	"false": {},
	"off":   {},
	"stop":  {},
	"no":    {},
}

// ErrUnknownTopic is returned by ParseTopic for a topic neither Adapter was
// configured to recognize.
var ErrUnknownTopic = errors.New("unknown topic")

// Command is the result of parsing a broker message: exactly one of its
// fields is set, selected by Kind.
type Command struct {
	Kind       CommandKind
	BPM        int
	ScheduleMS int64
}

// CommandKind discriminates the parsed Command.
type CommandKind int

const (
	CommandSetBPM CommandKind = iota
	CommandStop
	CommandScheduleStart
)

// Adapter parses broker payloads into Commands for the two topics spec
// section 4.8 defines. Topic names are configurable so tests and
// alternate deployments are not pinned to the production topic strings.
type Adapter struct {
	bpmTopic string
	runTopic string
}

// NewAdapter builds an Adapter for the given bpm/run topic names.
func NewAdapter(bpmTopic, runTopic string) *Adapter {
	return &Adapter{bpmTopic: bpmTopic, runTopic: runTopic}
}

// ParseTopic dispatches payload to ParseBPM or ParseRun based on topic,
// returning ErrUnknownTopic for anything else (spec section 4.8: "messages
// on unknown topics are logged and dropped").
func (a *Adapter) ParseTopic(topic, payload string) (Command, error) {
	switch topic {
	case a.bpmTopic:
		return a.ParseBPM(payload)
	case a.runTopic:
		return a.ParseRun(payload)
	default:
		return Command{}, errors.Wrapf(ErrUnknownTopic, "topic %q", topic)
	}
}

// ParseBPM parses a bpm-topic payload: a UTF-8 integer.
func (a *Adapter) ParseBPM(payload string) (Command, error) {
	bpm, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return Command{}, errors.Wrapf(err, "invalid bpm payload %q", payload)
	}

	return Command{Kind: CommandSetBPM, BPM: bpm}, nil
}

// ParseRun parses a run-topic payload: a case-insensitive stop token, or an
// integer epoch-ms start target (spec section 4.8).
func (a *Adapter) ParseRun(payload string) (Command, error) {
	normalized := strings.ToLower(strings.TrimSpace(payload))

	if _, stop := stopTokens[normalized]; stop {
		return Command{Kind: CommandStop}, nil
	}

	target, err := strconv.ParseInt(normalized, 10, 64)
	if err != nil {
		return Command{}, errors.Wrapf(err, "invalid run payload %q", payload)
	}

	if target < minScheduleTargetMS {
		return Command{}, errors.Errorf("invalid start timestamp %q", payload)
	}

	return Command{Kind: CommandScheduleStart, ScheduleMS: target}, nil
}
