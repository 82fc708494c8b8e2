// Package config provides configuration management for the audio graph
// engine.
//
// # Overview
//
// The config package centralizes engine sizing: node capacity, message
// queue capacities, graph channel counts, and the default block size. All
// values are fixed before activation; the audio thread never reads
// configuration.
//
// # Basic Usage
//
//	cfg := config.Default()
//	cfg.NumGraphOutChannels = 2
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	eng, err := engine.New[MyCx](cfg)
//
// Testing returns a profile with small capacities suited to unit tests.
package config
