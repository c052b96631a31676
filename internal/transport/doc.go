// Package transport streams vehicle frames to external viewers: a VRED
// scene driven over its web and receiver ports, and browser clients over
// WebSocket.
package transport
