package ui

// DocumentChangedMsg is broadcast to all views after a view changed the
// tracker document, so every view reloads what it shows.
type DocumentChangedMsg struct{}
