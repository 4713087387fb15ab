package constants

import "time"

const (
	PublishWorkerCount           = 5
	DefaultKafkaBootstrapServers = "localhost:29092"
	DefaultTaskTopic             = "TaskQueue"
	DefaultSourceTopic           = "IncomingTasks"
	DefaultConsumerGroupID       = "gcollect-default-group"
	DefaultOutputCodec           = "application/json"

	DefaultCollectConcurrency = 1
	DefaultSourceTimeout      = 0 * time.Second

	DefaultGeneratorCount  = 10
	DefaultGeneratorPrefix = "gen"

	DefaultAPIEndpoint = "http://stub-api.example.com/tasks"
	DefaultAPILatency  = 500 * time.Millisecond

	DefaultKafkaMaxMessages = 100
	DefaultKafkaPollTimeout = 500 * time.Millisecond

	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultLogOutput             = "stderr"
	DefaultLogRotationMaxSizeMB  = 50
	DefaultLogRotationMaxBackups = 3
	DefaultLogRotationMaxAgeDays = 28

	DefaultMetricsAddr = ""
)
