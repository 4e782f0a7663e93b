package export

import (
	"bytes"
	"io"
	"sync"
)

// Response holds table data and renders it the first time the payload is
// requested. The rendered payload is cached for the life of the response.
type Response struct {
	serializer *Serializer
	data       any
	opts       Options

	once    sync.Once
	payload Payload
	err     error
}

// NewResponse creates a lazily rendered response using a default serializer.
func NewResponse(data any, opts Options) *Response {
	return NewSerializer().Response(data, opts)
}

// Payload renders the response on first use.
func (r *Response) Payload() (Payload, error) {
	if r == nil {
		return Payload{}, NewError(KindInternal, "response is nil", nil)
	}
	r.once.Do(func() {
		serializer := r.serializer
		if serializer == nil {
			serializer = NewSerializer()
		}
		r.payload, r.err = serializer.Serialize(r.data, r.opts)
	})
	return r.payload, r.err
}

// ContentType returns the Content-Type header value.
func (r *Response) ContentType() (string, error) {
	payload, err := r.Payload()
	if err != nil {
		return "", err
	}
	return payload.ContentType, nil
}

// ContentDisposition returns the Content-Disposition header value.
func (r *Response) ContentDisposition() (string, error) {
	payload, err := r.Payload()
	if err != nil {
		return "", err
	}
	return payload.Disposition, nil
}

// Bytes returns the rendered body.
func (r *Response) Bytes() ([]byte, error) {
	payload, err := r.Payload()
	if err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// WriteTo writes the rendered body to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	payload, err := r.Payload()
	if err != nil {
		return 0, err
	}
	return payload.WriteTo(w)
}

// Reader returns a seekable reader positioned at the start of the body.
func (p Payload) Reader() *bytes.Reader {
	return bytes.NewReader(p.Data)
}

// Len returns the body size in bytes.
func (p Payload) Len() int {
	return len(p.Data)
}

// WriteTo writes the body to w.
func (p Payload) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Data)
	return int64(n), err
}

var _ io.WriterTo = (*Response)(nil)
var _ io.WriterTo = Payload{}
