// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import "github.com/vincent-petithory/dataurl"

// Internal synthetic pages form a small closed set of pseudo-URLs
// under the "browser" scheme.
const (
	// IncognitoURL is the pseudo-URL of the landing page shown when a
	// private browsing session starts.
	IncognitoURL = "browser:incognito"

	// incognitoAsset names the bundled content of the incognito
	// landing page within the controller's asset bridge.
	incognitoAsset = "browser/incognito_page.html"
)

// handleInternalURL loads an internal synthetic page: the content is
// resolved through the asset bridge, wrapped as an HTML data URL, and
// delegated to the literal-data path. An unrecognized pseudo-URL or a
// missing asset degrades to an empty page, not a failure.
func (c *Controller) handleInternalURL() {
	var content []byte
	if c.url == IncognitoURL && c.Assets != nil {
		if b, ok := c.Assets.Open(incognitoAsset); ok {
			content = b
		}
	}

	du := dataurl.New(content, "text/html", "charset", "utf-8")
	c.handleDataURL(du.String())
}
