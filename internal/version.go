package internal

// SDKVersion is the current version string of the SDK, reported in request
// metadata and the User-Agent header.
const SDKVersion = "1.0.3"
