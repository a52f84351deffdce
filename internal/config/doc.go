// Package config loads mattex settings.
//
// Settings come from four layers, later layers overriding earlier ones:
//
//	defaults < config file < MATTEX_* environment < command-line overrides
//
// The config file may be TOML, YAML or JSON, chosen by extension:
//
//	script = "deck.lua"
//
//	[surface]
//	width = 1280
//	height = 720
//	background = "#ffffff"
//
//	[output]
//	dir = "frames"
//	format = "png"
//
//	[plugins]
//	builtin = ["shapes", "text", "axes"]
//	strict = false
//
//	[logging]
//	level = "info"
//
// Layers are merged as maps and decoded into Config with mapstructure.
// Unknown keys are reported in Result.Unused rather than rejected.
package config
