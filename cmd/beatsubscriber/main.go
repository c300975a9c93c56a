// Command beatsubscriber connects to an MQTT broker, drives a haptic
// device over the bHaptics Player bridge, and keeps it in sync with
// bpm/run control messages (spec section 6).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/haptic-sync/beatctl/hapticbroker"
	"github.com/haptic-sync/beatctl/hapticclock"
	"github.com/haptic-sync/beatctl/hapticcore"
	"github.com/haptic-sync/beatctl/hapticdevice"
	"github.com/haptic-sync/beatctl/hapticlog"
	"github.com/haptic-sync/beatctl/hapticmsg"
	"github.com/haptic-sync/beatctl/hapticphase"
	"github.com/haptic-sync/beatctl/hapticstore"
)

const (
	exitOK    = 0
	exitError = 1

	envAppID   = "BHAPTICS_APP_ID"
	envAPIKey  = "BHAPTICS_API_KEY"
	envAppName = "BHAPTICS_APP_NAME"

	defaultAppName   = "Hello, bHaptics!"
	defaultMQTTPort  = 1883
	defaultKeepalive = 30
	defaultQoS       = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	broker := flag.String("broker", "localhost", "MQTT broker host, host:port, or URL")
	port := flag.Int("port", defaultMQTTPort, "MQTT broker port (used when --broker has none)")
	keepalive := flag.Int("keepalive", defaultKeepalive, "MQTT keepalive in seconds")
	qos := flag.Int("qos", defaultQoS, "MQTT QoS (0, 1 or 2)")
	username := flag.String("username", "", "MQTT username")
	password := flag.String("password", "", "MQTT password")
	bpmTopic := flag.String("bpm-topic", hapticmsg.DefaultBPMTopic, "topic carrying BPM updates")
	runTopic := flag.String("run-topic", hapticmsg.DefaultRunTopic, "topic carrying run/stop/schedule commands")
	bridgeURL := flag.String("bridge-url", "", "bHaptics Player bridge base URL (empty uses the bridge default)")
	storePath := flag.String("store-path", "", "config store path (empty uses the OS default)")
	bridgeRate := flag.Float64("bridge-rate", 20, "max bridge requests per second")
	envFile := flag.String("env-file", ".env", "path to a .env file with BHAPTICS_* credentials")
	flag.Parse()

	logger := hapticlog.NewDefault("beatsubscriber")

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("file", *envFile).Msg("failed to load env file")
	}

	appID := os.Getenv(envAppID)
	apiKey := os.Getenv(envAPIKey)
	appName := os.Getenv(envAppName)

	if appID == "" || apiKey == "" {
		logger.Error().Msg("missing BHAPTICS_APP_ID or BHAPTICS_API_KEY")
		return exitError
	}

	if appName == "" {
		appName = defaultAppName
	}

	path := *storePath
	if path == "" {
		path = hapticstore.DefaultPath()
	}

	store, err := hapticstore.Open(path, hapticstore.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg("failed to open config store")
		return exitError
	}
	defer store.Close()

	phase := hapticphase.NewManager(store, hapticphase.WithLogger(logger))

	actuator := hapticdevice.NewHTTPActuator(*bridgeURL, appID, apiKey, appName, *bridgeRate, int(*bridgeRate), logger)

	clock := hapticclock.NewSystemClock()
	core := hapticcore.New(actuator, clock, phase, hapticcore.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host, resolvedPort, err := hapticbroker.ParseBrokerAddress(*broker, *port)
	if err != nil {
		logger.Error().Err(err).Msg("invalid broker address")
		return exitError
	}

	brokerClient := hapticbroker.NewClient(hapticbroker.Config{
		Host:      host,
		Port:      resolvedPort,
		ClientID:  fmt.Sprintf("beatsubscriber-%d", os.Getpid()),
		Keepalive: *keepalive,
		QoS:       byte(*qos),
		Username:  *username,
		Password:  *password,
	}, logger, func(err error) {
		logger.Warn().Err(err).Msg("broker disconnected, relying on auto-reconnect")
	})

	connectCtx, cancelConnect := context.WithTimeout(ctx, 5*time.Second)
	result := brokerClient.Connect(connectCtx)
	cancelConnect()

	if !result.Success {
		logger.Error().Str("reason", result.Message).Msg("broker connect failed")
		return exitError
	}

	adapter := hapticmsg.NewAdapter(*bpmTopic, *runTopic)

	handleMessage := func(topic, payload string) {
		cmd, err := adapter.ParseTopic(topic, payload)
		if err != nil {
			logger.Warn().Err(err).Str("topic", topic).Str("payload", payload).Msg("dropping invalid message")
			return
		}

		cmdCtx, cancel := context.WithTimeout(ctx, hapticcore.DefaultCommandTimeout)
		defer cancel()

		switch cmd.Kind {
		case hapticmsg.CommandSetBPM:
			err = core.SetBPM(cmdCtx, cmd.BPM)
		case hapticmsg.CommandStop:
			err = core.Stop(cmdCtx)
		case hapticmsg.CommandScheduleStart:
			err = core.ScheduleStart(cmdCtx, cmd.ScheduleMS)
		}

		if err != nil {
			logger.Warn().Err(err).Str("topic", topic).Msg("command failed")
		}
	}

	if err := brokerClient.Subscribe(*bpmTopic, byte(*qos), handleMessage); err != nil {
		logger.Error().Err(err).Msg("failed to subscribe to bpm topic")
		return exitError
	}

	if err := brokerClient.Subscribe(*runTopic, byte(*qos), handleMessage); err != nil {
		logger.Error().Err(err).Msg("failed to subscribe to run topic")
		return exitError
	}

	logger.Info().Str("bpm_topic", *bpmTopic).Str("run_topic", *runTopic).Msg("subscriber ready")

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	closeCtx, cancelClose := context.WithTimeout(context.Background(), hapticcore.DefaultCommandTimeout)
	defer cancelClose()

	if err := core.Close(closeCtx); err != nil {
		logger.Warn().Err(err).Msg("controller close failed")
	}

	brokerClient.Disconnect(250)

	return exitOK
}
