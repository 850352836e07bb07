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

const (
	// DefaultServerPort is default port for server.
	DefaultServerPort = 8000

	// DefaultMetricsAddr is default address for metrics server.
	DefaultMetricsAddr = ":9000"
)

const (
	// DefaultLogRotateMaxSize is the default maximum size in megabytes of log files before rotation.
	DefaultLogRotateMaxSize = 1024

	// DefaultLogRotateMaxAge is the default number of days to retain old log files.
	DefaultLogRotateMaxAge = 7

	// DefaultLogRotateMaxBackups is the default number of old log files to keep.
	DefaultLogRotateMaxBackups = 20
)

const (
	// DefaultTrainingTrainRecords is default number of training records.
	DefaultTrainingTrainRecords = 1000

	// DefaultTrainingTestRecords is default number of test records.
	DefaultTrainingTestRecords = 300

	// DefaultTrainingNumTrees is default number of boosting rounds.
	DefaultTrainingNumTrees = 100

	// DefaultTrainingMaxDepth is default maximum depth of trees.
	DefaultTrainingMaxDepth = 6

	// DefaultTrainingLearningRate is default learning rate.
	DefaultTrainingLearningRate = 0.1

	// DefaultTrainingSubsample is default row subsampling ratio.
	DefaultTrainingSubsample = 1.0

	// DefaultTrainingSeed is default seed of the model.
	DefaultTrainingSeed = 42

	// DefaultTrainingDataSeed is default seed of the data generator.
	DefaultTrainingDataSeed = 42

	// DefaultTrainingHistoryPoints is default number of checkpoints on the training chart.
	DefaultTrainingHistoryPoints = 10
)

const (
	// DefaultStorageDir is default directory of the model file.
	DefaultStorageDir = "models"

	// DefaultStorageModelFile is default file name of the model.
	DefaultStorageModelFile = "gbdt_model.json"
)
