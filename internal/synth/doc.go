// Package synth generates synthetic campaign portfolios for demos and
// dashboard development.
//
// A generated campaign carries a creative analysis (six boolean signals
// plus three visual scores), performance predictions derived from the
// campaign type, the signals and the client, and a confidence score from
// package confidence. Output is fully determined by the supplied
// random source.
package synth
