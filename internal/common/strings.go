package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"
