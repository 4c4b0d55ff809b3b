// Package monitor
// Author: momentics <momentics@gmail.com>
//
// Owning workers for collators. A Worker is the single goroutine allowed to
// touch its collator: it polls Process with adaptive backoff, publishes
// read-only snapshot copies for other goroutines and closes the collator when
// it stops. A Group runs one worker per monitored endpoint.
package monitor
