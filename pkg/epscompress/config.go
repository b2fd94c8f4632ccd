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
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// LogBackend selects which implementation backs pkg/log's four loggers.
type LogBackend string

const (
	LogBackendStdlib LogBackend = "stdlib"
	LogBackendZap    LogBackend = "zap"
)

// Configuration holds the ambient, non-protocol knobs of a compression
// run: logging verbosity and backend, and the optional diagnostics
// server address. It deliberately does not expose the LZW/ASCII85 wire
// parameters (DSCGrace, code widths, line width): those are fixed by the
// PostScript LZWDecode filter's contract, not user preference.
type Configuration struct {
	Verbose     bool       `yaml:"verbose"`
	VeryVerbose bool       `yaml:"veryVerbose"`
	LogBackend  LogBackend `yaml:"logBackend"`
	ServeAddr   string     `yaml:"serveAddr"`
}

// NewDefaultConfiguration returns a Configuration with logging disabled
// and the diagnostics server off.
func NewDefaultConfiguration() *Configuration {
	return &Configuration{LogBackend: LogBackendStdlib}
}

// LoadConfigFile reads and parses a YAML configuration from path.
func LoadConfigFile(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "epscompress: LoadConfigFile")
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig reads and validates a YAML configuration from r.
func ParseConfig(r io.Reader) (*Configuration, error) {
	bb, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "epscompress: ParseConfig: read")
	}

	c := NewDefaultConfiguration()
	if err := yaml.Unmarshal(bb, c); err != nil {
		return nil, errors.Wrap(err, "epscompress: ParseConfig: unmarshal")
	}

	switch c.LogBackend {
	case "", LogBackendStdlib:
		c.LogBackend = LogBackendStdlib
	case LogBackendZap:
	default:
		return nil, errors.Errorf("epscompress: ParseConfig: invalid logBackend: %s", c.LogBackend)
	}

	return c, nil
}

// WriteFile serializes c as YAML to path, for round-tripping a
// configuration a caller built up programmatically.
func (c *Configuration) WriteFile(path string) error {
	bb, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "epscompress: WriteFile: marshal")
	}
	if err := ioutil.WriteFile(path, bb, 0644); err != nil {
		return errors.Wrap(err, "epscompress: WriteFile")
	}
	return nil
}
