// Package branding holds the user-facing product identity.
package branding

// AppName is the display name used in banners and version output.
const AppName = "Scrapectl"

// Program is the executable name shown in usage lines.
const Program = "scrapectl"

// Version is overridden at link time with -ldflags "-X".
var Version = "0.4.0"
