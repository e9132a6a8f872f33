package core

// streaming.go provides the reader wrappers applied to text uploads (CSV, TSV,
// JSON) before they reach a decoder:
//
//   - textReader drops a leading UTF-8 BOM and repairs invalid UTF-8
//   - countingReader tracks how many bytes a parser consumed
//
// Spreadsheets are zip archives and bypass textReader.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textReader strips the UTF-8 byte order mark that Windows tools prepend and
// replaces every invalid UTF-8 byte with U+FFFD, so decoders never see broken
// sequences. Memory use is bounded by the bufio buffer.
type textReader struct {
	br      *bufio.Reader
	started bool

	// Encoded bytes of a rune that did not fit in the caller's buffer.
	pending []byte
	scratch [utf8.UTFMax]byte
}

// newTextReader wraps r for text decoding.
func newTextReader(r io.Reader) *textReader {
	return &textReader{br: bufio.NewReader(r)}
}

func (t *textReader) skipBOM() {
	t.started = true
	head, err := t.br.Peek(len(utf8BOM))
	if err == nil && head[0] == utf8BOM[0] && head[1] == utf8BOM[1] && head[2] == utf8BOM[2] {
		_, _ = t.br.Discard(len(utf8BOM))
	}
}

// Read implements io.Reader.
func (t *textReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !t.started {
		t.skipBOM()
	}

	n := 0
	for n < len(p) {
		if len(t.pending) > 0 {
			c := copy(p[n:], t.pending)
			t.pending = t.pending[c:]
			n += c
			continue
		}

		// Bulk-copy buffered ASCII, the common case for exported data.
		if buf, _ := t.br.Peek(t.br.Buffered()); len(buf) > 0 {
			ascii := 0
			for ascii < len(buf) && ascii < len(p)-n && buf[ascii] < utf8.RuneSelf {
				ascii++
			}
			if ascii > 0 {
				copy(p[n:], buf[:ascii])
				_, _ = t.br.Discard(ascii)
				n += ascii
				if t.br.Buffered() == 0 {
					break
				}
				continue
			}
		}

		r, _, err := t.br.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		// Invalid bytes come back as RuneError and are written as U+FFFD.
		w := utf8.EncodeRune(t.scratch[:], r)
		c := copy(p[n:], t.scratch[:w])
		n += c
		if c < w {
			t.pending = append(t.pending[:0], t.scratch[c:w]...)
		}

		// Do not block on the underlying reader once we have something.
		if t.br.Buffered() == 0 {
			break
		}
	}
	return n, nil
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// BytesRead returns the number of bytes consumed so far.
func (c *countingReader) BytesRead() int64 { return c.n }
