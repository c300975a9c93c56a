package main

import "flag"

func newFlagSet(cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet("beatpublisher", flag.ContinueOnError)

	fs.StringVar(&cfg.broker, "broker", cfg.broker, "MQTT broker host, host:port, or URL")
	fs.IntVar(&cfg.port, "port", cfg.port, "MQTT broker port (used when --broker has none)")
	fs.IntVar(&cfg.keepalive, "keepalive", cfg.keepalive, "MQTT keepalive in seconds")
	fs.IntVar(&cfg.qos, "qos", cfg.qos, "MQTT QoS (0, 1 or 2)")
	fs.StringVar(&cfg.username, "username", "", "MQTT username")
	fs.StringVar(&cfg.password, "password", "", "MQTT password")
	fs.BoolVar(&cfg.retain, "retain", false, "set the MQTT retain flag on published messages")
	fs.StringVar(&cfg.bpmTopic, "bpm-topic", cfg.bpmTopic, "topic to publish BPM updates to")
	fs.StringVar(&cfg.runTopic, "run-topic", cfg.runTopic, "topic to publish run/stop/schedule commands to")
	fs.IntVar(&cfg.bpm, "bpm", 0, "publish a new BPM value")
	fs.IntVar(&cfg.run, "run", 0, "0 stops the subscriber; 1 schedules a start (see --delay-s)")
	fs.Float64Var(&cfg.delayS, "delay-s", 0, "schedule the start this many seconds from now, floor-to-second aligned")

	return fs
}

func markSetFlags(fs *flag.FlagSet, cfg *config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bpm":
			cfg.bpmSet = true
		case "run":
			cfg.runSet = true
		case "delay-s":
			cfg.delaySet = true
		}
	})
}
