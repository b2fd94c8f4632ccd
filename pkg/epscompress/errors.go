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

package epscompress

import (
	"github.com/pkg/errors"

	"github.com/zprime/epscompress/internal/epsbody"
)

// ErrArgument is returned when CompressFile is called with an empty input
// or output path.
var ErrArgument = errors.New("epscompress: missing input or output path")

// ErrFormat is returned when the input's first line is neither a
// %!PS-Adobe- header nor the DOS EPS binary magic. It is the package's
// exported name for epsbody.ErrFormat.
var ErrFormat = epsbody.ErrFormat

// ErrEmptyInput is returned when the input contains no bytes at all. It is
// the package's exported name for epsbody.ErrEmptyInput.
var ErrEmptyInput = epsbody.ErrEmptyInput

// InputOpenError wraps a failure to open the input file.
func InputOpenError(path string, cause error) error {
	return errors.Wrapf(cause, "epscompress: open input %q", path)
}

// OutputOpenError wraps a failure to create the output file.
func OutputOpenError(path string, cause error) error {
	return errors.Wrapf(cause, "epscompress: create output %q", path)
}

// WriteError wraps a failure to write compressed output.
func WriteError(cause error) error {
	return errors.Wrap(cause, "epscompress: write output")
}
