// Package zapbridge adapts a flowlog logger into a zapcore.Core, so code
// written against go.uber.org/zap flows through the same formatter and
// delivery path as native records.
package zapbridge
