// Package monitor runs the decision loop at the heart of btlinkd.
//
// Once per tick it reads a policy snapshot, asks the audio sensor whether
// anything is playing, and drives the link actuator: connect while audio is
// active (when auto-connect is on), disconnect once silence has outlasted the
// idle timeout. Both commands are reissued every tick while their trigger
// condition holds; the loop keeps no cached link state and trusts the actuator
// to tolerate redundant commands.
//
// Failures from the sensor or actuator never stop the loop. They are logged,
// journaled, and counted; after RetryPolicy.FailureThreshold consecutive bad
// ticks the loop sleeps an extra RetryPolicy.Backoff before resuming, so a
// wedged stack does not produce a tight failure spin.
//
// The loop is a single goroutine. Cancellation is cooperative and observed
// only between ticks: an in-flight sensor or actuator call is never aborted.
package monitor
