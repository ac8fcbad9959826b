// Package zapbridge adapts a dispatch core to zap. NewCore returns a
// zapcore.Core, so code already built on zap can write into the same sinks
// as the rest of the application:
//
//	log := zap.New(zapbridge.NewCore(c), zap.AddCaller())
//
// Levels map onto severities (Warn becomes Warning, DPanic and above become
// Fatal), fields become named record attributes, and Sync flushes the
// target core.
package zapbridge
