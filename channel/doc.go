// Package channel
// Author: momentics <momentics@gmail.com>
//
// In-process event channels between a monitored endpoint and its collators.
//
// An Emitter lives on the endpoint side and fans every lifecycle event out to its
// subscriptions. Each subscription is a bounded Queue holding fixed-size wire
// records; it is drained without blocking by exactly one collator. On Linux the
// queue's readiness is mirrored into an eventfd, so the owner of a collator can
// poll it together with other descriptors.
package channel
