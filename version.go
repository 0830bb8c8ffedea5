package sprachli

// Version is the front-end version reported by the driver.
const Version = "0.3.0"

// BuildDate may be overridden at link time via -ldflags.
var BuildDate = "unknown"
