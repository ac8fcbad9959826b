// Package slogbridge adapts a dispatch core to the standard library's
// log/slog front end:
//
//	log := slog.New(slogbridge.NewHandler(c))
//
// Levels map onto severities with in-between values clamping downward,
// attributes become named record attributes, and WithGroup nests keys with
// dots ("request.id").
package slogbridge
