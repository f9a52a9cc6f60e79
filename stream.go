// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/gogama/urlload/request"
)

// A StreamHandle is an opaque reference to a host-owned byte stream.
// The controller never inspects it; it only passes it back to the
// StreamBridge it was created with. A nil handle means no stream is
// attached.
type StreamHandle interface{}

// A StreamBridge reads and releases host-owned byte streams. Pulls are
// synchronous, blocking calls; they run on the controller's I/O loop,
// which is dedicated to request work.
type StreamBridge interface {
	// ReadChunk fills p with the next chunk of the stream and returns
	// the number of bytes read. A negative return value signals end of
	// stream.
	ReadChunk(h StreamHandle, p []byte) int
	// Release frees the handle. The handle must not be used afterward.
	Release(h StreamHandle)
}

// handleStream loads the controller's content from its embedded
// stream: one response descriptor, then every chunk the bridge
// produces until the end-of-stream sentinel, then a successful finish.
// A controller with no stream attached fails immediately with an empty
// failure response.
func (c *Controller) handleStream() {
	if c.streamHandle == nil {
		c.finish(false)
		return
	}

	c.state = Response

	resp := request.NewResponse(c.url, streamMIMEType(c.url), request.UnknownLength, "", http.StatusOK)
	c.dispatcher.DidReceiveResponse(resp)

	scratch := bytebufferpool.Get()
	defer bytebufferpool.Put(scratch)
	if cap(scratch.B) < c.readSize() {
		scratch.B = make([]byte, c.readSize())
	}
	scratch.B = scratch.B[:c.readSize()]

	for {
		n := c.streamBridge.ReadChunk(c.streamHandle, scratch.B)
		if n < 0 { // negative size is end of stream
			break
		}
		if n == 0 {
			continue
		}
		chunk := make([]byte, n)
		copy(chunk, scratch.B[:n])
		c.state = GotData
		c.dispatcher.DidReceiveStreamData(chunk)
	}

	c.finish(true)
}

// streamMIMEType derives the MIME type of a stream URL. A type
// appended to the URL after a final '?' wins; otherwise the type is
// sniffed from the file extension; "text/html" is the last resort.
func streamMIMEType(url string) string {
	if i := strings.LastIndexByte(url, '?'); i >= 0 && i+1 < len(url) {
		return url[i+1:]
	}
	if ext := path.Ext(url); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			if j := strings.IndexByte(mt, ';'); j >= 0 {
				mt = strings.TrimSpace(mt[:j])
			}
			return mt
		}
	}
	return "text/html"
}
