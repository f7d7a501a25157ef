// Package dispatch fans the target jobs of one (type, source) group out over
// a bounded worker pool and collects their classified results. A fatal
// outcome cancels the rest of the group.
package dispatch
