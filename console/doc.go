// Package console serializes text output from many concurrent producers
// onto a single sink.
//
// Producers never write to the sink themselves. Each one accumulates text
// in its own Stream and, on flush, ships the buffered content as a single
// message to the Server, the only component allowed to touch the sink.
// Lines from different producers may interleave, but never characters
// within a line.
package console
