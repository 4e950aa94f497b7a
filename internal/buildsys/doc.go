// SPDX-License-Identifier: MPL-2.0

// Package buildsys is gdmach's view of a build tree.
//
// It locates the object directory (FindObjdir), finds binaries the build has
// installed there (Resolver) and runs make targets inside it (TargetRunner).
// A binary that has not been built is reported as a BinaryNotFoundError whose
// Help method tells the user how to build it.
package buildsys
