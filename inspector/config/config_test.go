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

package config

import (
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/intelliinspect/inspector/cmd/dependency/base"
)

var (
	mockMetricsConfig = MetricsConfig{
		Enable: true,
		Addr:   DefaultMetricsAddr,
	}
)

func TestConfig_Load(t *testing.T) {
	config := &Config{
		Options: base.Options{
			Console:   true,
			Verbose:   true,
			PProfPort: 6060,
			Telemetry: base.TelemetryOption{
				Jaeger:      "http://localhost:14268/api/traces",
				ServiceName: "inspector",
			},
		},
		Server: ServerConfig{
			ListenIP:      net.ParseIP("0.0.0.0"),
			Port:          8000,
			LogDir:        "foo",
			LogMaxSize:    512,
			LogMaxAge:     5,
			LogMaxBackups: 3,
			WorkHome:      "bar",
		},
		Metrics: MetricsConfig{
			Enable: true,
			Addr:   ":9000",
		},
		Training: TrainingConfig{
			TrainRecords:  500,
			TestRecords:   100,
			NumTrees:      50,
			MaxDepth:      4,
			LearningRate:  0.2,
			Subsample:     0.8,
			Seed:          7,
			DataSeed:      42,
			HistoryPoints: 5,
		},
		Storage: StorageConfig{
			Dir:       "models",
			ModelFile: "gbdt_model.json",
			Restore:   true,
		},
	}

	inspectorConfigYAML := &Config{}
	contentYAML, _ := os.ReadFile("./testdata/inspector.yaml")
	if err := yaml.Unmarshal(contentYAML, &inspectorConfigYAML); err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.EqualValues(config, inspectorConfigYAML)
}

func TestConfig_New(t *testing.T) {
	assert := assert.New(t)
	cfg := New()
	assert.Equal(DefaultServerPort, cfg.Server.Port)
	assert.Equal(1000, cfg.Training.TrainRecords)
	assert.Equal(300, cfg.Training.TestRecords)
	assert.Equal(100, cfg.Training.NumTrees)
	assert.Equal(6, cfg.Training.MaxDepth)
	assert.Equal(0.1, cfg.Training.LearningRate)
	assert.Equal(int64(42), cfg.Training.Seed)
	assert.Equal("models", cfg.Storage.Dir)
	assert.Equal("gbdt_model.json", cfg.Storage.ModelFile)
	assert.False(cfg.Storage.Restore)
	assert.False(cfg.Metrics.Enable)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		mock   func(cfg *Config)
		expect func(t *testing.T, err error)
	}{
		{
			name:   "valid config",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.NoError(err)
			},
		},
		{
			name:   "server requires parameter listenIP",
			config: New(),
			mock:   func(cfg *Config) {},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "server requires parameter listenIP")
			},
		},
		{
			name:   "server requires parameter port",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Server.Port = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "server requires parameter port")
			},
		},
		{
			name:   "metrics requires parameter addr",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Metrics = mockMetricsConfig
				cfg.Metrics.Addr = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "metrics requires parameter addr")
			},
		},
		{
			name:   "training requires parameter trainRecords",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.TrainRecords = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter trainRecords")
			},
		},
		{
			name:   "training requires parameter testRecords",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.TestRecords = -1
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter testRecords")
			},
		},
		{
			name:   "training requires parameter numTrees",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.NumTrees = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter numTrees")
			},
		},
		{
			name:   "training requires parameter maxDepth",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.MaxDepth = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter maxDepth")
			},
		},
		{
			name:   "training requires parameter learningRate",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.LearningRate = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter learningRate")
			},
		},
		{
			name:   "training subsample out of range",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.Subsample = 1.5
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training subsample must be in (0, 1]")
			},
		},
		{
			name:   "training requires parameter historyPoints",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Training.HistoryPoints = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter historyPoints")
			},
		},
		{
			name:   "storage requires parameter dir",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.Dir = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "storage requires parameter dir")
			},
		},
		{
			name:   "storage requires parameter modelFile",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Server.ListenIP = net.IPv4zero
				cfg.Storage.ModelFile = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "storage requires parameter modelFile")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mock(tc.config)
			tc.expect(t, tc.config.Validate())
		})
	}
}

func TestConfig_Convert(t *testing.T) {
	assert := assert.New(t)
	cfg := New()
	cfg.Telemetry.ServiceName = ""
	assert.NoError(cfg.Convert())
	assert.True(cfg.Server.ListenIP.Equal(net.IPv4zero))
	assert.Equal("inspector", cfg.Telemetry.ServiceName)
}
