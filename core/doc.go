// Package core implements the record pipeline that the rest of strobe is
// built on: severity predicates, microsecond timestamps, type-erased value
// capture, and the Core/Sink dispatch fabric.
//
// A log call captures its values into a RefBundle of SegmentStorage slots.
// Values whose footprint fits the inline threshold are encoded into the slot
// itself and never allocate; larger or caller-supplied values are boxed once
// behind the Segment interface. Formatting is two-pass: every segment first
// reports the exact byte count it needs under the sink's settings, the sink
// extends one buffer by the total, and the second pass fills it. The hot
// path therefore touches the allocator at most once per record and sink.
//
// Core owns a top-level Filter and a copy-on-write collection of Sinks; each
// Sink pairs its own Filter, a Formatter and a Backend. Loggers ask
// Core.WillAccept before capturing anything, so records no sink wants cost a
// few predicate evaluations and nothing more.
//
// Timestamps use DateTime, a microsecond count on the proleptic Gregorian
// calendar, produced by FastClock: a sampled system clock plus monotonic
// elapsed ticks, resynchronized on read at a configurable interval.
package core
