package kafka

// Config holds Kafka connection parameters.
type Config struct {
	// ConsumerGroup is optional. Without it a consumer reads a single
	// partition-less stream and never commits offsets.
	ConsumerGroup string
	ClientID      string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool

	// FromBeginning makes group-less consumers start at the oldest offset.
	FromBeginning bool
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}
