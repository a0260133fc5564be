// Package commands links the built-in commands into the binary. Importing it
// declares every built-in with the registry.
package commands

//go:generate go run ../../cmd/cmdgen -out internal/commands/builtins_gen.go
