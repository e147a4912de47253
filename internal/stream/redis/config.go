package redis

type StreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
	RubricName    string
}

func NewStreamConfig(redisAddr, redisPassword, stream, resultStream, group, consumerName, rubricName string) *StreamConfig {
	return &StreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  resultStream,
		Group:         group,
		ConsumerName:  consumerName,
		RubricName:    rubricName,
	}
}
