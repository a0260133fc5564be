// Package commandfakes holds minimal command packages for tests that need
// commands declared in distinct packages.
package commandfakes
