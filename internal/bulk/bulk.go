// Package bulk turns a JSON array of documents into an Elasticsearch bulk
// ingest file: one index action line followed by the document line, per element.
package bulk

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotArray  = errors.New("input is not a JSON array")
	ErrExtraData = errors.New("extra data after the JSON array")
)

type action struct {
	Index actionMeta `json:"index"`
}

type actionMeta struct {
	Index string `json:"_index"`
}

// ActionLine returns the action line for index, without the trailing newline.
func ActionLine(index string) ([]byte, error) {
	return json.Marshal(action{Index: actionMeta{Index: index}})
}

// ForEach streams the elements of a top-level JSON array to fn, compacted and
// byte-for-byte otherwise unchanged. It returns the number of elements seen.
// Anything but whitespace after the closing bracket is an error.
func ForEach(r io.Reader, fn func(doc json.RawMessage) error) (int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrNotArray
		}
		return 0, fmt.Errorf("read input: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, ErrNotArray
	}

	n := 0
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return n, fmt.Errorf("decode element %d: %w", n, err)
		}

		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return n, fmt.Errorf("compact element %d: %w", n, err)
		}
		if err := fn(buf.Bytes()); err != nil {
			return n, err
		}
		n++
	}

	if _, err := dec.Token(); err != nil {
		return n, fmt.Errorf("read input: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return n, ErrExtraData
	}
	return n, nil
}

// Convert writes the bulk representation of the JSON array read from r.
func Convert(r io.Reader, w io.Writer, index string) (int, error) {
	if index == "" {
		return 0, errors.New("index name must not be empty")
	}

	actionLine, err := ActionLine(index)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	n, err := ForEach(r, func(doc json.RawMessage) error {
		if _, err := bw.Write(actionLine); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := bw.Write(doc); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return n, err
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush output: %w", err)
	}
	return n, nil
}
