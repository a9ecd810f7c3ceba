// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, and component-scoped
// loggers carrying the analysis run id.
//
//	logging:
//	  level: "info"
//	  format: "json"
//
//	log := logger.WithComponent("dispatch")
//	log.Warn("segment failed", logger.SegmentFields(2, 5, 600, 900))
package logger
