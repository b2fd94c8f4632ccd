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

package log

import "go.uber.org/zap"

// zapLogger adapts a *zap.SugaredLogger to the Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Printf(format string, args ...interface{}) { z.s.Infof(format, args...) }
func (z zapLogger) Println(args ...interface{})               { z.s.Info(args...) }
func (z zapLogger) Fatalf(format string, args ...interface{})  { z.s.Fatalf(format, args...) }
func (z zapLogger) Fatalln(args ...interface{})                { z.s.Fatal(args...) }

// SetDefaultZapLogger wires all four loggers to a shared structured
// zap.Logger instead of the stdlib-backed defaults. Use this in
// production batch runs where log output is consumed by a collector
// rather than a terminal.
func SetDefaultZapLogger(l *zap.Logger) {
	s := l.Sugar()
	SetDebugLogger(zapLogger{s.Named("debug")})
	SetInfoLogger(zapLogger{s.Named("info")})
	SetStatsLogger(zapLogger{s.Named("stats")})
	SetTraceLogger(zapLogger{s.Named("trace")})
}
