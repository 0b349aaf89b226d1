// Package history keeps the calculator transcript in step with the machine.
//
// The transcript is the expression typed so far, numbers separated from
// operators by single spaces ("10.1 + 21."). A negated number is wrapped as
// "(-2.)". Every function here is pure and expects a transcript produced by
// the machine itself.
package history
