// Package config provides docline's configuration.
//
// Settings come from four layers, each overriding the one before:
//
//  1. Built-in defaults (Default)
//  2. User settings: $XDG_CONFIG_HOME/docline/docline.toml
//  3. Project settings: <project>/.docline.toml
//  4. DOCLINE_* environment variables
//
// Files may pull in others with an "@include" key. A file looks like:
//
//	[layout]
//	tabWidth = 8
//	wrapWidth = 100
//	wrapAtWord = true
//
//	[formats]
//	style = "monokai"
//
//	[formats.colors.search]
//	background = "#5B6268"
//	bold = true
//
//	[indent]
//	script = "/etc/docline/indent.lua"
//
// A Config turns into runtime values with LayoutSettings, Scheme and
// IndentRule, or directly into a document with NewDocument.
package config
