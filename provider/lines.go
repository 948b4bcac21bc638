package provider

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
)

// Lines splits r on '\n' as data arrives. A trailing '\r' is removed, an
// incomplete line is held until its terminator shows up or the reader reaches
// EOF, at which point it is yielded as the last line. A read error ends the
// sequence and drops the incomplete line.
func Lines(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadBytes('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				// the bytes read so far are not a complete line
				yield(nil, err)
				return
			}
			if len(line) > 0 {
				line = bytes.TrimSuffix(line, []byte("\n"))
				line = bytes.TrimSuffix(line, []byte("\r"))
				if !yield(line, nil) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}
