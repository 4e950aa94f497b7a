// SPDX-License-Identifier: MPL-2.0

// Package issue holds gdmach's user-facing error material.
//
// ActionableError carries what was being attempted, the file or name involved
// and hints for fixing it. The issue catalog maps failure kinds to longer
// Markdown explanations that the CLI renders with glamour.
package issue
