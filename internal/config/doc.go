// SPDX-License-Identifier: MPL-2.0

// Package config loads gdmach's settings with Viper.
//
// Every key has a default. A config file may override them: config.cue,
// validated against the embedded config_schema.cue, or config.toml, which is
// checked against the same schema after decoding. The file is looked up in
// the gdmach directory under $XDG_CONFIG_HOME and then in the working
// directory. GDMACH_* environment variables override the file, with dots in
// key names replaced by underscores (GDMACH_BUILD_OBJDIR for build.objdir).
package config
