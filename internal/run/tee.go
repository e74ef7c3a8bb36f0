// SPDX-License-Identifier: MPL-2.0

package run

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"sync"
)

// chunkSize is the read size of the stream readers.
const chunkSize = 8 * 1024

// consoleSink serializes writes to a shared console stream. The lock is held
// for exactly one chunk write.
type consoleSink struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s consoleSink) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

// newSinks wraps the console writers. Writers that are the same value share
// one lock.
func newSinks(stdout, stderr io.Writer) (consoleSink, consoleSink) {
	out := consoleSink{mu: &sync.Mutex{}, w: stdout}
	if sameWriter(stdout, stderr) {
		return out, consoleSink{mu: out.mu, w: stderr}
	}
	return out, consoleSink{mu: &sync.Mutex{}, w: stderr}
}

func sameWriter(a, b io.Writer) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// drain copies r to the console sink chunk by chunk, appending every chunk
// to buf, until r reports EOF. It stops at the first read or write error.
func drain(r io.Reader, sink consoleSink, buf *bytes.Buffer) error {
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			if werr := sink.write(chunk[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
