// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_InternalURL(t *testing.T) {
	assets := FSAssets(fstest.MapFS{
		"browser/incognito_page.html": &fstest.MapFile{
			Data: []byte("<html><body>You have gone incognito.</body></html>"),
		},
	})
	t.Run("incognito", func(t *testing.T) {
		c, rec, _ := newTestController(t, IncognitoURL)
		c.Assets = assets
		c.Start(true)

		require.Equal(t, []string{
			"DidReceiveResponse",
			"DidReceiveDataURL",
			"DidFinishLoading",
		}, rec.kinds())
		resp := rec.at(0).resp
		assert.Equal(t, "text/html", resp.MIMEType)
		assert.Equal(t, "utf-8", resp.Charset)
		assert.Equal(t, []byte("<html><body>You have gone incognito.</body></html>"), rec.at(1).data)
		assert.Equal(t, Finished, c.State())
	})
	t.Run("unknown page", func(t *testing.T) {
		c, rec, _ := newTestController(t, "browser:about")
		c.Assets = assets
		c.Start(false)

		// Unknown pseudo-URLs render as an empty page.
		require.Equal(t, []string{"DidReceiveResponse", "DidFinishLoading"}, rec.kinds())
		assert.Equal(t, "text/html", rec.at(0).resp.MIMEType)
		assert.Equal(t, int64(0), rec.at(0).resp.ContentLength)
		assert.Equal(t, Finished, c.State())
	})
	t.Run("missing asset", func(t *testing.T) {
		c, rec, _ := newTestController(t, IncognitoURL)
		c.Assets = FSAssets(fstest.MapFS{})
		c.Start(true)

		require.Equal(t, []string{"DidReceiveResponse", "DidFinishLoading"}, rec.kinds())
		assert.Equal(t, int64(0), rec.at(0).resp.ContentLength)
		assert.Equal(t, Finished, c.State())
	})
	t.Run("no asset bridge", func(t *testing.T) {
		c, rec, _ := newTestController(t, IncognitoURL)
		c.Start(true)

		require.Equal(t, []string{"DidReceiveResponse", "DidFinishLoading"}, rec.kinds())
		assert.Equal(t, Finished, c.State())
	})
}
