package config

import "github.com/yesoreyeram/osai/pkg/types"

// Config holds audio engine configuration.
// All configuration options are centralized here for easy management and
// validation.
type Config struct {
	// Capacities
	NodeCapacity         int // Expected max live nodes; the audio-thread arena is sized 2x this
	MessageQueueCapacity int // Control -> audio message queue slots
	ReturnQueueCapacity  int // Audio -> control return queue slots; bounds outstanding schedules

	// Graph shape
	NumGraphInChannels  types.ChannelCount // External input channels staged into the graph
	NumGraphOutChannels types.ChannelCount // External output channels read from the graph

	// Block processing
	DefaultMaxBlockFrames int // Default block size bound; only validated here, no other package reads it
}

// Default returns a Config with production-ready default values.
func Default() *Config {
	return &Config{
		NodeCapacity:          128,
		MessageQueueCapacity:  64,
		ReturnQueueCapacity:   64,
		NumGraphInChannels:    2,
		NumGraphOutChannels:   2,
		DefaultMaxBlockFrames: 1024,
	}
}

// Testing returns a Config with small capacities suited to unit tests.
func Testing() *Config {
	cfg := Default()
	cfg.NodeCapacity = 16
	cfg.MessageQueueCapacity = 8
	cfg.ReturnQueueCapacity = 8
	cfg.DefaultMaxBlockFrames = 64
	return cfg
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.NodeCapacity <= 0 {
		return ErrInvalidNodeCapacity
	}
	if c.MessageQueueCapacity <= 0 {
		return ErrInvalidMessageCapacity
	}
	if c.ReturnQueueCapacity <= 0 {
		return ErrInvalidReturnCapacity
	}
	if c.NumGraphInChannels > 64 || c.NumGraphOutChannels > 64 {
		return ErrTooManyChannels
	}
	if c.DefaultMaxBlockFrames <= 0 {
		return ErrInvalidMaxBlockFrames
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
