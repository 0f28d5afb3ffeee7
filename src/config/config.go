package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	NumFloors         = 4
	HwBasePort        = 15657
	BcastPort         = 16569
	SensorPollRate    = 25 * time.Millisecond
	DoorOpenDuration  = 3 * time.Second
	TravelDuration    = 2 * time.Second
	DirChangePenalty  = 2 * time.Second
	ObstructedPenalty = 100 * time.Second
	BroadcastPeriod   = 100 * time.Millisecond
	HeartbeatTimeout  = 1 * time.Second
	MotorTimeout      = 4 * TravelDuration
	MsgRepetitions    = 1
	MsgInterval       = 10 * time.Millisecond
	DedupWindow       = 64
)

type Config struct {
	NodeID    int    `yaml:"id"`
	HwAddr    string `yaml:"hardwareAddress"`
	NumFloors int    `yaml:"floors"`
	BcastPort int    `yaml:"broadcastPort"`
	LogLevel  string `yaml:"logLevel"`
	LogDir    string `yaml:"logDirectory"`

	SensorPollRate   time.Duration `yaml:"sensorPollRate"`
	DoorOpenDuration time.Duration `yaml:"doorOpenDuration"`
	TravelDuration   time.Duration `yaml:"travelDuration"`
	MotorTimeout     time.Duration `yaml:"motorTimeout"`
	BroadcastPeriod  time.Duration `yaml:"broadcastPeriod"`
	HeartbeatTimeout time.Duration `yaml:"heartbeatTimeout"`
	MsgRepetitions   int           `yaml:"msgRepetitions"`
}

func Default() Config {
	return Config{
		NodeID:           0,
		HwAddr:           fmt.Sprintf("localhost:%d", HwBasePort),
		NumFloors:        NumFloors,
		BcastPort:        BcastPort,
		LogLevel:         "debug",
		LogDir:           ".",
		SensorPollRate:   SensorPollRate,
		DoorOpenDuration: DoorOpenDuration,
		TravelDuration:   TravelDuration,
		MotorTimeout:     MotorTimeout,
		BroadcastPeriod:  BroadcastPeriod,
		HeartbeatTimeout: HeartbeatTimeout,
		MsgRepetitions:   MsgRepetitions,
	}
}

// Load layers the configuration: defaults, then the YAML file at path, then
// the dotenv file at envPath and the process environment. Empty paths are
// skipped, and so are files that do not exist.
func Load(path, envPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	env := make(map[string]string)
	if envPath != "" {
		values, err := godotenv.Read(envPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("cannot read %s: %w", envPath, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (cfg *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("cannot decode yaml data: %w", err)
	}

	return nil
}

func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"ELEV_ID", &cfg.NodeID},
		{"ELEV_NUM_FLOORS", &cfg.NumFloors},
		{"ELEV_BCAST_PORT", &cfg.BcastPort},
	}
	for _, e := range ints {
		v, ok := lookup(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}

	if v, ok := lookup("ELEV_HW_ADDR"); ok && v != "" {
		cfg.HwAddr = v
	}
	if v, ok := lookup("ELEV_LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}

	return nil
}

func (cfg Config) Validate() error {
	switch {
	case cfg.NodeID < 0:
		return fmt.Errorf("invalid node id %d", cfg.NodeID)
	case cfg.NumFloors < 2:
		return fmt.Errorf("invalid floor count %d", cfg.NumFloors)
	case cfg.HwAddr == "":
		return errors.New("missing or empty hardware address")
	case cfg.BcastPort <= 0 || cfg.BcastPort > 65535:
		return fmt.Errorf("invalid broadcast port %d", cfg.BcastPort)
	case cfg.BroadcastPeriod <= 0:
		return fmt.Errorf("invalid broadcast period %v", cfg.BroadcastPeriod)
	case cfg.HeartbeatTimeout < 3*cfg.BroadcastPeriod:
		return fmt.Errorf("heartbeat timeout %v must be at least three broadcast periods",
			cfg.HeartbeatTimeout)
	case cfg.DoorOpenDuration <= 0 || cfg.TravelDuration <= 0 || cfg.MotorTimeout <= 0:
		return errors.New("durations must be positive")
	case cfg.SensorPollRate <= 0:
		return fmt.Errorf("invalid sensor poll rate %v", cfg.SensorPollRate)
	case cfg.MsgRepetitions < 1:
		return fmt.Errorf("invalid message repetition count %d", cfg.MsgRepetitions)
	}
	return nil
}
