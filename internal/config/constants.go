package config

// Base application details
const AppName = "tide"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "tide.log"

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const DefaultMaxUndoDepth = 100
const DefaultMaxEditSize = 1 << 20
const DefaultHighlightDebounceMs = 65
const SystemClipboard = true
