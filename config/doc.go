// Package config loads service configuration with viper.
//
// A YAML file is resolved from ./cmd/<service>/config.yml (then a few fallbacks),
// a .env file is loaded through godotenv, and any variable carrying the service
// prefix overrides the file: VIDEOSCRIBE_INFERENCE_MODEL sets inference.model.
package config
