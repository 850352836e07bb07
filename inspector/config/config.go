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
	"errors"
	"net"

	"github.com/intelliinspect/inspector/cmd/dependency/base"
	"github.com/intelliinspect/inspector/pkg/types"
)

type Config struct {
	// Base options.
	base.Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Training configuration.
	Training TrainingConfig `yaml:"training" mapstructure:"training"`

	// Storage configuration.
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

type ServerConfig struct {
	// ListenIP is listen ip, like: 0.0.0.0, 192.168.0.1.
	ListenIP net.IP `yaml:"listenIP" mapstructure:"listenIP"`

	// Server port.
	Port int `yaml:"port" mapstructure:"port"`

	// Server log directory.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Maximum size in megabytes of log files before rotation (default: 1024)
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files (default: 7)
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep (default: 20)
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`

	// Server work home directory.
	WorkHome string `yaml:"workHome" mapstructure:"workHome"`
}

type MetricsConfig struct {
	// Enable metrics service.
	Enable bool `yaml:"enable" mapstructure:"enable"`

	// Metrics service address.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type TrainingConfig struct {
	// TrainRecords is the number of records generated over the train range.
	TrainRecords int `yaml:"trainRecords" mapstructure:"trainRecords"`

	// TestRecords is the number of records generated over the test range.
	TestRecords int `yaml:"testRecords" mapstructure:"testRecords"`

	// NumTrees is the number of boosting rounds.
	NumTrees int `yaml:"numTrees" mapstructure:"numTrees"`

	// MaxDepth is the maximum depth of every tree.
	MaxDepth int `yaml:"maxDepth" mapstructure:"maxDepth"`

	// LearningRate shrinks the contribution of every tree.
	LearningRate float64 `yaml:"learningRate" mapstructure:"learningRate"`

	// Subsample is the fraction of rows used by every tree.
	Subsample float64 `yaml:"subsample" mapstructure:"subsample"`

	// Seed drives row subsampling of the model.
	Seed int64 `yaml:"seed" mapstructure:"seed"`

	// DataSeed is the seed of the synthetic data generator.
	DataSeed uint64 `yaml:"dataSeed" mapstructure:"dataSeed"`

	// HistoryPoints is the number of checkpoints drawn on the training chart.
	HistoryPoints int `yaml:"historyPoints" mapstructure:"historyPoints"`
}

type StorageConfig struct {
	// Dir is the directory of the model file, relative paths
	// are resolved against the working directory.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// ModelFile is the file name of the persisted model.
	ModelFile string `yaml:"modelFile" mapstructure:"modelFile"`

	// Restore loads the persisted model on startup.
	Restore bool `yaml:"restore" mapstructure:"restore"`
}

// New default configuration.
func New() *Config {
	return &Config{
		Options: base.Options{
			Telemetry: base.TelemetryOption{
				ServiceName: types.InspectorName,
			},
		},
		Server: ServerConfig{
			Port:          DefaultServerPort,
			LogMaxSize:    DefaultLogRotateMaxSize,
			LogMaxAge:     DefaultLogRotateMaxAge,
			LogMaxBackups: DefaultLogRotateMaxBackups,
		},
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
		Training: TrainingConfig{
			TrainRecords:  DefaultTrainingTrainRecords,
			TestRecords:   DefaultTrainingTestRecords,
			NumTrees:      DefaultTrainingNumTrees,
			MaxDepth:      DefaultTrainingMaxDepth,
			LearningRate:  DefaultTrainingLearningRate,
			Subsample:     DefaultTrainingSubsample,
			Seed:          DefaultTrainingSeed,
			DataSeed:      DefaultTrainingDataSeed,
			HistoryPoints: DefaultTrainingHistoryPoints,
		},
		Storage: StorageConfig{
			Dir:       DefaultStorageDir,
			ModelFile: DefaultStorageModelFile,
			Restore:   false,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Server.ListenIP == nil {
		return errors.New("server requires parameter listenIP")
	}

	if cfg.Server.Port <= 0 {
		return errors.New("server requires parameter port")
	}

	if cfg.Metrics.Enable {
		if cfg.Metrics.Addr == "" {
			return errors.New("metrics requires parameter addr")
		}
	}

	if cfg.Training.TrainRecords <= 0 {
		return errors.New("training requires parameter trainRecords")
	}

	if cfg.Training.TestRecords <= 0 {
		return errors.New("training requires parameter testRecords")
	}

	if cfg.Training.NumTrees <= 0 {
		return errors.New("training requires parameter numTrees")
	}

	if cfg.Training.MaxDepth <= 0 {
		return errors.New("training requires parameter maxDepth")
	}

	if cfg.Training.LearningRate <= 0 {
		return errors.New("training requires parameter learningRate")
	}

	if cfg.Training.Subsample <= 0 || cfg.Training.Subsample > 1 {
		return errors.New("training subsample must be in (0, 1]")
	}

	if cfg.Training.HistoryPoints <= 0 {
		return errors.New("training requires parameter historyPoints")
	}

	if cfg.Storage.Dir == "" {
		return errors.New("storage requires parameter dir")
	}

	if cfg.Storage.ModelFile == "" {
		return errors.New("storage requires parameter modelFile")
	}

	return nil
}

func (cfg *Config) Convert() error {
	if cfg.Server.ListenIP == nil {
		cfg.Server.ListenIP = net.IPv4zero
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = types.InspectorName
	}

	return nil
}
