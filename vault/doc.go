// Package vault stores markdown notes in a directory tree.
//
// Notes are addressed by their slash separated path relative to the vault
// root, including the .md extension. The vault reads YAML frontmatter,
// discovers personality notes, resolves note links the way wiki style editors
// do, and files processed notes into year and month folders.
package vault
