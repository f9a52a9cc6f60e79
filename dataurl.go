// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import (
	"net/http"

	"github.com/vincent-petithory/dataurl"

	"github.com/gogama/urlload/request"
)

// A DataURLParser decodes a literal data URL into its MIME type,
// charset, and payload bytes. It reports ok == false if the URL does
// not decode. Set Controller.ParseDataURL to substitute a custom
// decoder; the default is built on github.com/vincent-petithory/dataurl.
type DataURLParser func(rawurl string) (mimeType, charset string, data []byte, ok bool)

func parseDataURL(rawurl string) (string, string, []byte, bool) {
	du, err := dataurl.DecodeString(rawurl)
	if err != nil {
		return "", "", nil, false
	}
	return du.MediaType.ContentType(), du.MediaType.Params["charset"], du.Data, true
}

// handleDataURL loads the controller's content from a literal data
// URL. On a successful decode it dispatches one response descriptor
// and, for a non-empty payload, one data message carrying the whole
// payload. A failed decode dispatches nothing at all: no response and
// no failure message. Either way the load completes successfully.
func (c *Controller) handleDataURL(rawurl string) {
	parse := c.ParseDataURL
	if parse == nil {
		parse = parseDataURL
	}

	mimeType, charset, data, ok := parse(rawurl)
	if ok {
		c.state = Response
		resp := request.NewResponse(rawurl, mimeType, int64(len(data)), charset, http.StatusOK)
		c.dispatcher.DidReceiveResponse(resp)

		if len(data) > 0 {
			c.state = GotData
			c.dispatcher.DidReceiveDataURL(data)
		}
	} else if c.Logger != nil {
		c.Logger.Debug("urlload: undecodable data URL", "url", c.url)
	}

	c.finish(true)
}
