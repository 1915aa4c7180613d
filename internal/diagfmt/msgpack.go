package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack writes the same document as JSON in msgpack encoding, for
// tools that post-process large runs.
func Msgpack(w io.Writer, entries []Entry, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(BuildOutput(entries, opts))
}

// DecodeMsgpack reads a document written by Msgpack.
func DecodeMsgpack(r io.Reader) (Output, error) {
	var out Output
	err := msgpack.NewDecoder(r).Decode(&out)
	return out, err
}
