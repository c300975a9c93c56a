// Command beatpublisher publishes bpm/run control payloads to an MQTT
// broker for one or more beatsubscriber instances to consume (spec
// section 6). It has no GUI; it is a one-shot CLI.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/haptic-sync/beatctl/hapticbroker"
	"github.com/haptic-sync/beatctl/hapticlog"
	"github.com/haptic-sync/beatctl/hapticmsg"
)

const (
	exitOK    = 0
	exitError = 1

	defaultMQTTPort        = 1883
	defaultKeepalive       = 30
	defaultQoS             = 1
	publisherConnectWindow = 5 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:], time.Now))
}

type config struct {
	broker    string
	port      int
	keepalive int
	qos       int
	username  string
	password  string
	retain    bool
	bpmTopic  string
	runTopic  string

	bpm      int
	bpmSet   bool
	run      int
	runSet   bool
	delayS   float64
	delaySet bool
}

func run(args []string, now func() time.Time) int {
	logger := hapticlog.NewDefault("beatpublisher")

	cfg, err := parseArgs(args)
	if err != nil {
		logger.Error().Err(err).Msg("invalid arguments")
		return exitError
	}

	host, port, err := hapticbroker.ParseBrokerAddress(cfg.broker, cfg.port)
	if err != nil {
		logger.Error().Err(err).Msg("invalid broker address")
		return exitError
	}

	client := hapticbroker.NewClient(hapticbroker.Config{
		Host:      host,
		Port:      port,
		ClientID:  fmt.Sprintf("beatpublisher-%d", os.Getpid()),
		Keepalive: cfg.keepalive,
		QoS:       byte(cfg.qos),
		Username:  cfg.username,
		Password:  cfg.password,
	}, logger, nil)

	ctx, cancel := context.WithTimeout(context.Background(), publisherConnectWindow)
	defer cancel()

	result := client.Connect(ctx)
	if !result.Success {
		logger.Error().Str("reason", result.Message).Msg("broker connect failed")
		return exitError
	}
	defer client.Disconnect(250)

	if cfg.bpmSet {
		payload := fmt.Sprintf("%d", cfg.bpm)
		if err := client.Publish(cfg.bpmTopic, payload, byte(cfg.qos), cfg.retain); err != nil {
			logger.Error().Err(err).Msg("failed to publish bpm")
			return exitError
		}

		logger.Info().Int("bpm", cfg.bpm).Msg("published bpm")
	}

	if cfg.runSet || cfg.delaySet {
		payload := runPayload(cfg, now)

		if err := client.Publish(cfg.runTopic, payload, byte(cfg.qos), cfg.retain); err != nil {
			logger.Error().Err(err).Msg("failed to publish run")
			return exitError
		}

		logger.Info().Str("payload", payload).Msg("published run")
	}

	return exitOK
}

// runPayload implements spec section 6's publisher wire semantics:
// --run 0 publishes "0"; --run 1 or --delay-s X publishes a start
// timestamp, floor-to-second aligned when a delay is given so two
// independently-launched publishers can agree on the same target.
func runPayload(cfg config, now func() time.Time) string {
	if cfg.runSet && cfg.run == 0 {
		return "0"
	}

	nowMS := now().UnixMilli()

	if !cfg.delaySet {
		return fmt.Sprintf("%d", nowMS)
	}

	flooredSecondMS := (nowMS / 1000) * 1000
	targetMS := flooredSecondMS + int64(math.Round(cfg.delayS*1000))

	return fmt.Sprintf("%d", targetMS)
}

func parseArgs(args []string) (config, error) {
	cfg := config{
		broker:    "localhost",
		port:      defaultMQTTPort,
		keepalive: defaultKeepalive,
		qos:       defaultQoS,
		bpmTopic:  hapticmsg.DefaultBPMTopic,
		runTopic:  hapticmsg.DefaultRunTopic,
	}

	fs := newFlagSet(&cfg)

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	markSetFlags(fs, &cfg)

	if cfg.runSet && cfg.run != 0 && cfg.run != 1 {
		return config{}, fmt.Errorf("invalid --run value %d: must be 0 or 1", cfg.run)
	}

	return cfg, nil
}
