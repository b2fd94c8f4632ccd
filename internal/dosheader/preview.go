/*
Copyright 2024 The epscompress Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dosheader

import (
	"bytes"

	"github.com/hhrutter/tiff"
)

// PreviewStats summarizes a sniffed TIFF preview for diagnostic logging.
// It is never used to alter the preview bytes, which are always copied
// through to the output untouched.
type PreviewStats struct {
	Width, Height int
}

// SniffTIFFPreview decodes the TIFF preview bytes enough to report its
// pixel dimensions. A malformed preview is reported to the caller as a
// non-fatal warning: a broken screen preview doesn't prevent the
// PostScript body from printing, so it never aborts compression.
func SniffTIFFPreview(data []byte) (PreviewStats, error) {
	img, err := tiff.DecodeAt(bytes.NewReader(data), 0)
	if err != nil {
		return PreviewStats{}, err
	}
	b := img.Bounds()
	return PreviewStats{Width: b.Dx(), Height: b.Dy()}, nil
}
