// Package json provides JSON encoding and decoding backed by goccy/go-json,
// with pooled buffers for the row encoders.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1<<20 {
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// UnmarshalString decodes a JSON document held in a string.
func UnmarshalString(data string, v interface{}) error {
	return gojson.Unmarshal([]byte(data), v)
}

// LinesEncoder writes one JSON document per line.
type LinesEncoder struct {
	w   io.Writer
	buf *bytes.Buffer
	enc *gojson.Encoder
}

// NewLinesEncoder creates an encoder writing line-delimited JSON to w.
func NewLinesEncoder(w io.Writer) *LinesEncoder {
	buf := GetBuffer()
	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &LinesEncoder{w: w, buf: buf, enc: enc}
}

// Encode writes v followed by a newline.
func (le *LinesEncoder) Encode(v interface{}) error {
	le.buf.Reset()
	if err := le.enc.Encode(v); err != nil {
		return err
	}
	_, err := le.w.Write(le.buf.Bytes())
	return err
}

// Close releases the pooled buffer. The encoder must not be used afterwards.
func (le *LinesEncoder) Close() error {
	if le.buf != nil {
		PutBuffer(le.buf)
		le.buf = nil
	}
	return nil
}
