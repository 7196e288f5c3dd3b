package core

// Version is the compiler's reported build version. A real build would
// stamp this via -ldflags; pinned here since this module has no release
// pipeline yet.
const Version = "0.1.0"
