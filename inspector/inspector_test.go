/*
 *     Copyright 2024 The IntelliInspect Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package inspector

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/metrics"
	"github.com/intelliinspect/inspector/pkg/workpath"
)

const mockModelFile = `{
	"id": "foo",
	"trained_at": "2024-01-01T00:00:00Z",
	"metrics": {"accuracy": 96.5, "precision": 97, "recall": 98, "f1": 97.5},
	"model": {
		"fitted": true,
		"base_score": 0.5,
		"features": ["temperature", "pressure", "humidity", "vibration", "current", "voltage"],
		"trees": [{"nodes": [{"feature": 0, "threshold": 0, "left": -1, "right": -1, "value": 1}]}]
	}
}`

func TestServer_New(t *testing.T) {
	tests := []struct {
		name   string
		config func(dir string) *config.Config
		mock   func(dir string)
		expect func(t *testing.T, s *Server, err error)
	}{
		{
			name: "new server",
			config: func(dir string) *config.Config {
				cfg := config.New()
				cfg.Server.ListenIP = net.IPv4(127, 0, 0, 1)
				cfg.Storage.Dir = dir
				return cfg
			},
			mock: func(dir string) {},
			expect: func(t *testing.T, s *Server, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal("127.0.0.1:8000", s.restServer.Addr)
				assert.Nil(s.metricsServer)
				assert.Equal(uint64(0), s.handle.Version())
			},
		},
		{
			name: "new server with metrics",
			config: func(dir string) *config.Config {
				cfg := config.New()
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.Dir = dir
				cfg.Metrics.Enable = true
				return cfg
			},
			mock: func(dir string) {},
			expect: func(t *testing.T, s *Server, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(":9000", s.metricsServer.Addr)
			},
		},
		{
			name: "restore without persisted model",
			config: func(dir string) *config.Config {
				cfg := config.New()
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.Dir = dir
				cfg.Storage.Restore = true
				return cfg
			},
			mock: func(dir string) {},
			expect: func(t *testing.T, s *Server, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(uint64(0), s.handle.Version())
			},
		},
		{
			name: "restore persisted model",
			config: func(dir string) *config.Config {
				cfg := config.New()
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.Dir = dir
				cfg.Storage.Restore = true
				return cfg
			},
			mock: func(dir string) {
				if err := os.WriteFile(filepath.Join(dir, config.DefaultStorageModelFile), []byte(mockModelFile), 0600); err != nil {
					panic(err)
				}
			},
			expect: func(t *testing.T, s *Server, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(uint64(1), s.handle.Version())
				assert.Equal(1.0, testutil.ToFloat64(metrics.ModelVersionGauge))

				snapshot, err := s.handle.Load()
				assert.NoError(err)
				assert.Equal("foo", snapshot.ID)
				assert.Equal(96.5, snapshot.Metrics.Accuracy)
			},
		},
		{
			name: "restore corrupted model",
			config: func(dir string) *config.Config {
				cfg := config.New()
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.Dir = dir
				cfg.Storage.Restore = true
				return cfg
			},
			mock: func(dir string) {
				if err := os.WriteFile(filepath.Join(dir, config.DefaultStorageModelFile), []byte("foo"), 0600); err != nil {
					panic(err)
				}
			},
			expect: func(t *testing.T, s *Server, err error) {
				assert := assert.New(t)
				assert.ErrorContains(err, "restore model")
				assert.Nil(s)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			w, err := workpath.New(workpath.WithWorkHome(filepath.Join(dir, "home")))
			if err != nil {
				t.Fatal(err)
			}

			tc.mock(dir)
			s, err := New(tc.config(dir), w)
			tc.expect(t, s, err)
		})
	}
}

func TestServer_Stop(t *testing.T) {
	cfg := config.New()
	cfg.Server.ListenIP = net.IPv4(127, 0, 0, 1)
	cfg.Server.Port = 0
	cfg.Storage.Dir = t.TempDir()

	w, err := workpath.New(workpath.WithWorkHome(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(cfg, w)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error)
	go func() {
		done <- s.Serve()
	}()

	s.Stop()
	assert.NoError(t, <-done)
}
