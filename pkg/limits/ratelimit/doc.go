// Package ratelimit implements a per-caller sliding window rate limiter.
//
// Requests are tracked as timestamp sequences keyed by caller identity.
// Only timestamps within the trailing window count toward the limit;
// older entries are pruned at evaluation time. Two store backends are
// provided: an in-process memory store (default, per-instance, best
// effort) and a redis store for deployments that need the counter
// externalized to a shared store.
package ratelimit
