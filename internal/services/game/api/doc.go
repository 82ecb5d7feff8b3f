// Package api contains the transport surfaces of the game service.
package api
