package slack

// ToChatMessage exports toChatMessage for testing.
var ToChatMessage = toChatMessage //nolint:gochecknoglobals // test export
