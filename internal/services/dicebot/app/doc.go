// Package app hosts the dice bot on a chat transport.
//
// The host owns everything the dice core does not: the update loop, the
// optional message prefix, the bot commands, localized error replies, and the
// gRPC health endpoint. Every update is handled on its own goroutine and all
// of them share one random.Locked generator.
package app
