// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDescriptor(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, err := NewDescriptor("", "http://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "GET", d.Method)
		assert.Equal(t, "http://example.com/a", d.URL.String())
		assert.NotNil(t, d.Header)
		assert.Empty(t, d.UserAgent)
		assert.Empty(t, d.Referrer)
	})
	t.Run("invalid method", func(t *testing.T) {
		d, err := NewDescriptor("GET POST", "http://example.com")
		assert.Nil(t, d)
		assert.EqualError(t, err, `urlload/request: invalid method "GET POST"`)
	})
	t.Run("invalid url", func(t *testing.T) {
		d, err := NewDescriptor("GET", "http://example.com/\x7f\x00")
		assert.Nil(t, d)
		assert.Error(t, err)
	})
	t.Run("empty port removed", func(t *testing.T) {
		d, err := NewDescriptor("GET", "http://example.com:/a")
		require.NoError(t, err)
		assert.Equal(t, "example.com", d.URL.Host)
	})
	t.Run("non-network schemes parse", func(t *testing.T) {
		d, err := NewDescriptor("GET", "data:text/plain;base64,SGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "data", d.URL.Scheme)
		d, err = NewDescriptor("GET", "browser:incognito")
		require.NoError(t, err)
		assert.Equal(t, "browser", d.URL.Scheme)
	})
}

func TestDescriptor_ToRequest(t *testing.T) {
	d, err := NewDescriptor("POST", "http://example.com/upload")
	require.NoError(t, err)
	d.Header.Set("X-Custom", "yes")
	d.UserAgent = "loader/1.0"
	d.Referrer = "http://example.com/origin"

	t.Run("no body", func(t *testing.T) {
		r := d.ToRequest(context.Background(), nil)
		assert.Equal(t, "POST", r.Method)
		assert.Same(t, d.URL, r.URL)
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		assert.Equal(t, "loader/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "http://example.com/origin", r.Header.Get("Referer"))
		assert.Nil(t, r.Body)
		assert.Equal(t, int64(0), r.ContentLength)
	})
	t.Run("with body", func(t *testing.T) {
		body := []byte("ham and eggs")
		r := d.ToRequest(context.Background(), body)
		require.NotNil(t, r.Body)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, body, b)
		assert.Equal(t, int64(len(body)), r.ContentLength)
		require.NotNil(t, r.GetBody)
		rc, err := r.GetBody()
		require.NoError(t, err)
		b, err = io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, body, b)
	})
	t.Run("header cloned", func(t *testing.T) {
		r := d.ToRequest(context.Background(), nil)
		r.Header.Set("X-Custom", "no")
		assert.Equal(t, "yes", d.Header.Get("X-Custom"))
	})
}
