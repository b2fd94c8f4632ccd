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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/zprime/epscompress/pkg/diagserver"
	"github.com/zprime/epscompress/pkg/epscompress"
	"github.com/zprime/epscompress/pkg/log"
)

const usage = `epscompress compresses the PostScript body of an EPS file into a new output file.

Usage:

	epscompress [-v|-vv] [-config file] inFile [outFile]
	epscompress [-v|-vv] [-config file] -serve addr

 inFile ... input EPS file
outFile ... output EPS file (default: inFile with "-compressed" inserted before the extension)
  serve ... instead of compressing a file, start a diagnostics/compression HTTP server on addr`

var (
	verbose, veryVerbose bool
	configFile           string
	serveAddr            string
)

func init() {
	flag.BoolVar(&verbose, "v", false, "extensive log output")
	flag.BoolVar(&veryVerbose, "vv", false, "trace-level log output")
	flag.StringVar(&configFile, "config", "", "path to a YAML configuration file")
	flag.StringVar(&serveAddr, "serve", "", "start an HTTP diagnostics/compression server on this address instead")
}

// setupLogging wires pkg/log's four loggers according to conf's
// LogBackend, Verbose and VeryVerbose fields. conf.Verbose/VeryVerbose
// are expected to already have the -v/-vv flags folded into them by the
// caller, so a config file's settings and the command-line flags both
// take effect through the same code path.
func setupLogging(conf *epscompress.Configuration) error {
	switch conf.LogBackend {
	case epscompress.LogBackendZap:
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log.SetDefaultZapLogger(zl)
	default:
		log.SetDefaultLoggers()
	}

	if !conf.Verbose && !conf.VeryVerbose {
		log.DisableLoggers()
		return nil
	}
	if conf.VeryVerbose {
		log.SetVisibleTraceLogger()
	}
	return nil
}

func loadConfig() *epscompress.Configuration {
	if configFile == "" {
		return epscompress.NewDefaultConfiguration()
	}
	conf, err := epscompress.LoadConfigFile(configFile)
	if err != nil {
		fmt.Printf("epscompress: %v\n", err)
		os.Exit(1)
	}
	return conf
}

func defaultFilenameOut(fileName string) string {
	ext := filepath.Ext(fileName)
	return strings.TrimSuffix(fileName, ext) + "-compressed" + ext
}

func serve(addr string, conf *epscompress.Configuration) {
	s := diagserver.New(addr, conf)
	s.Start()
	fmt.Printf("epscompress: serving on %s\n", addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	select {
	case err := <-s.Notify():
		if err != nil {
			fmt.Printf("epscompress: server error: %v\n", err)
			os.Exit(1)
		}
	case <-sig:
		if err := s.Shutdown(); err != nil {
			fmt.Printf("epscompress: shutdown error: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	flag.Parse()
	conf := loadConfig()
	conf.Verbose = conf.Verbose || verbose
	conf.VeryVerbose = conf.VeryVerbose || veryVerbose
	if err := setupLogging(conf); err != nil {
		fmt.Printf("epscompress: %v\n", err)
		os.Exit(1)
	}

	if serveAddr != "" {
		serve(serveAddr, conf)
		return
	}

	if flag.NArg() == 0 || flag.NArg() > 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	inFile := flag.Arg(0)
	outFile := defaultFilenameOut(inFile)
	if flag.NArg() == 2 {
		outFile = flag.Arg(1)
	}

	if err := epscompress.CompressFile(inFile, outFile, conf); err != nil {
		fmt.Printf("epscompress: %v\n", err)
		os.Exit(1)
	}
}
