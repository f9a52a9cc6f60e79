// Copyright 2021 The urlload Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package urlload

import "io/fs"

// An AssetBridge resolves the bundled content behind internal
// synthetic pages. Controllers receive their bridge at construction
// time through the Assets field; there is no process-wide registry.
type AssetBridge interface {
	// Open returns the content of the named asset and true, or nil and
	// false if the asset does not exist.
	Open(path string) ([]byte, bool)
}

// FSAssets adapts an fs.FS into an AssetBridge, which makes both
// embedded (embed.FS) and on-disk asset bundles usable directly.
func FSAssets(fsys fs.FS) AssetBridge {
	return fsAssets{fsys: fsys}
}

type fsAssets struct {
	fsys fs.FS
}

func (a fsAssets) Open(path string) ([]byte, bool) {
	b, err := fs.ReadFile(a.fsys, path)
	if err != nil {
		return nil, false
	}
	return b, true
}
