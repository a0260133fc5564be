// Package gamma re-exports a command from another package and declares a
// type that is not a command. Neither is discoverable here.
package gamma

import "github.com/louisbranch/scrapectl/internal/testkit/commandfakes/alpha"

// Command is declared in package alpha.
type Command = alpha.Command

// Helper is not a command.
type Helper struct {
	Name string
}
