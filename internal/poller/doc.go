// Package poller observes read readiness of a connection descriptor on
// behalf of the compatibility pump. It only watches; reading and writing
// stay with the host binding that owns the descriptor.
package poller
