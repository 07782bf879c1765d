// Package ignore resolves hierarchical ignore rules while a directory tree
// is walked.
//
// Rules come from per-directory .gitignore files plus the user's global
// excludes file, and are scoped to repository boundaries. The Resolver owns
// every parsed rule file; a walker asks it for a root Chain at the starting
// directory, derives a child Chain per directory it descends into, and
// queries Accepts for every visited path. Chains are cheap values holding
// handles into the Resolver's arena, so a physical rule file is parsed once
// no matter how many chains reference it.
//
// Precedence is deepest-wins across directories and last-line-wins within a
// file, implemented as a single reverse scan with early return. Crossing
// into a nested repository resets the chain: an enclosing repository's rules
// never leak inside.
package ignore
