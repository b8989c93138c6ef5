package version

// Version is the current version of the app
var Version = "0.1.0"
