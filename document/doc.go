// Package document models the open note a personality writes into.
//
// Editor is the narrow surface the runner needs: read the selection, read and
// move the cursor, and replace a range of text. Buffer is the in-memory
// implementation used by the CLI and the tests.
package document
