// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	urlpkg "net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	r := NewResponse("http://example.com/a", "text/plain", 5, "utf-8", 200)
	assert.Equal(t, "http://example.com/a", r.URL)
	assert.Equal(t, "text/plain", r.MIMEType)
	assert.Equal(t, "utf-8", r.Charset)
	assert.Equal(t, int64(5), r.ContentLength)
	assert.Equal(t, 200, r.StatusCode)
	assert.Nil(t, r.Header)
	assert.NoError(t, r.Err)
}

func TestResponseFromHTTP(t *testing.T) {
	u, err := urlpkg.Parse("http://example.com/final")
	require.NoError(t, err)
	t.Run("full", func(t *testing.T) {
		hr := &http.Response{
			StatusCode:    200,
			ContentLength: 12,
			Header: http.Header{
				"Content-Type": []string{"text/html; charset=utf-8"},
			},
			Request: &http.Request{URL: u},
		}
		r := ResponseFromHTTP(hr)
		assert.Equal(t, "http://example.com/final", r.URL)
		assert.Equal(t, "text/html", r.MIMEType)
		assert.Equal(t, "utf-8", r.Charset)
		assert.Equal(t, int64(12), r.ContentLength)
		assert.Equal(t, 200, r.StatusCode)
		assert.Equal(t, hr.Header, r.Header)
	})
	t.Run("unknown length", func(t *testing.T) {
		hr := &http.Response{
			StatusCode:    200,
			ContentLength: -1,
			Header:        http.Header{},
		}
		r := ResponseFromHTTP(hr)
		assert.Equal(t, UnknownLength, r.ContentLength)
		assert.Empty(t, r.URL)
		assert.Empty(t, r.MIMEType)
	})
	t.Run("unparseable content type", func(t *testing.T) {
		hr := &http.Response{
			StatusCode: 200,
			Header: http.Header{
				"Content-Type": []string{";;;"},
			},
		}
		r := ResponseFromHTTP(hr)
		assert.Empty(t, r.MIMEType)
		assert.Empty(t, r.Charset)
	})
}

func TestResponse_WithURL(t *testing.T) {
	r := NewResponse("http://example.com/a", "text/plain", 5, "utf-8", 302)
	r2 := r.WithURL("http://example.com/b")
	assert.Equal(t, "http://example.com/b", r2.URL)
	assert.Equal(t, "http://example.com/a", r.URL)
	assert.Equal(t, r.MIMEType, r2.MIMEType)
	assert.Equal(t, r.StatusCode, r2.StatusCode)
}
