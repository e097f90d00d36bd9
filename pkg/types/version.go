package types

// Version is the taskvault release version.
const Version = "0.1.0"
