package config

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/c-m3-codin/gcollect/constants"
)

// EnvPrefix prefixes environment overrides, e.g. GCOLLECT_TASK_TOPIC.
const EnvPrefix = "GCOLLECT"

type AppConfig struct {
	BootstrapServers string
	TaskTopic        string
	SourceTopic      string
	ConsumerGroupID  string
	OutputCodec      string
	PublishWorkers   int
	MetricsAddr      string

	Collect   CollectConfig
	Generator GeneratorConfig
	API       APIConfig
	Log       LogConfig
}

// CollectConfig controls how the processor invokes its sources.
type CollectConfig struct {
	// Concurrency > 1 invokes up to that many sources at once.
	Concurrency int
	// SourceTimeout bounds each source call; zero means no deadline.
	SourceTimeout time.Duration
}

type GeneratorConfig struct {
	Count  int
	Prefix string
}

type APIConfig struct {
	Endpoint string
	Latency  time.Duration
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string
	// Format: json or text
	Format string
	// Output: stdout, stderr, or a file path
	Output   string
	Rotation RotationConfig
}

// RotationConfig controls rotation when Output is a file.
type RotationConfig struct {
	Enabled    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// loadProperties reads a properties file (key=value format) and returns a map.
// Full-line and trailing '#' comments are dropped.
func loadProperties(filePath string) (map[string]string, error) {
	props := make(map[string]string)
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.SplitN(scanner.Text(), "#", 2)[0]
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if key != "" {
				props[key] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return props, nil
}

// newViper builds a viper instance over the cleaned properties with
// environment overrides enabled.
func newViper(props map[string]string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("properties")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var buf bytes.Buffer
	for key, value := range props {
		fmt.Fprintf(&buf, "%s=%s\n", key, value)
	}
	if err := v.ReadConfig(&buf); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadConfig reads the properties file at filePath, applies GCOLLECT_*
// environment overrides and fills every missing or invalid key with its
// default. It never fails: problems are logged and defaults are used.
func LoadConfig(filePath string) AppConfig {
	props, err := loadProperties(filePath)
	if err != nil {
		slog.Warn("Failed to load config file, using default settings", "path", filePath, "error", err)
		props = map[string]string{}
	}

	v, err := newViper(props)
	if err != nil {
		slog.Warn("Failed to parse config file, using default settings", "path", filePath, "error", err)
		v, _ = newViper(nil)
	}

	l := loader{v: v}
	return AppConfig{
		BootstrapServers: l.str("bootstrap.servers", constants.DefaultKafkaBootstrapServers),
		TaskTopic:        l.str("task.topic", constants.DefaultTaskTopic),
		SourceTopic:      l.str("source.topic", constants.DefaultSourceTopic),
		ConsumerGroupID:  l.str("consumer.group.id", constants.DefaultConsumerGroupID),
		OutputCodec:      l.str("output.codec", constants.DefaultOutputCodec),
		PublishWorkers:   l.integer("publish.workers", constants.PublishWorkerCount),
		MetricsAddr:      l.str("metrics.addr", constants.DefaultMetricsAddr),
		Collect: CollectConfig{
			Concurrency:   l.integer("collect.concurrency", constants.DefaultCollectConcurrency),
			SourceTimeout: l.duration("collect.source.timeout", constants.DefaultSourceTimeout),
		},
		Generator: GeneratorConfig{
			Count:  l.integer("generator.count", constants.DefaultGeneratorCount),
			Prefix: l.str("generator.prefix", constants.DefaultGeneratorPrefix),
		},
		API: APIConfig{
			Endpoint: l.str("api.endpoint", constants.DefaultAPIEndpoint),
			Latency:  l.duration("api.latency", constants.DefaultAPILatency),
		},
		Log: LogConfig{
			Level:  l.str("log.level", constants.DefaultLogLevel),
			Format: l.str("log.format", constants.DefaultLogFormat),
			Output: l.str("log.output", constants.DefaultLogOutput),
			Rotation: RotationConfig{
				Enabled:    l.boolean("log.rotation.enabled", false),
				MaxSizeMB:  l.integer("log.rotation.max.size.mb", constants.DefaultLogRotationMaxSizeMB),
				MaxBackups: l.integer("log.rotation.max.backups", constants.DefaultLogRotationMaxBackups),
				MaxAgeDays: l.integer("log.rotation.max.age.days", constants.DefaultLogRotationMaxAgeDays),
				Compress:   l.boolean("log.rotation.compress", true),
			},
		},
	}
}

type loader struct{ v *viper.Viper }

// lookup returns the trimmed value for key, or false when it is missing or
// empty, logging the fallback.
func (l loader) lookup(key string, defaultValue any) (string, bool) {
	if val := strings.TrimSpace(l.v.GetString(key)); val != "" {
		return val, true
	}
	slog.Debug("Config key not found or empty, using default", "key", key, "default_value", defaultValue)
	return "", false
}

func (l loader) str(key string, defaultValue string) string {
	if val, ok := l.lookup(key, defaultValue); ok {
		return val
	}
	return defaultValue
}

func (l loader) integer(key string, defaultValue int) int {
	raw, ok := l.lookup(key, defaultValue)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid config value, using default", "key", key, "value", raw, "default_value", defaultValue, "error", err)
		return defaultValue
	}
	return n
}

func (l loader) duration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := l.lookup(key, defaultValue.String())
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid config value, using default", "key", key, "value", raw, "default_value", defaultValue.String(), "error", err)
		return defaultValue
	}
	return d
}

func (l loader) boolean(key string, defaultValue bool) bool {
	raw, ok := l.lookup(key, defaultValue)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Invalid config value, using default", "key", key, "value", raw, "default_value", defaultValue, "error", err)
		return defaultValue
	}
	return b
}
