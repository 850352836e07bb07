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

package models

const (
	// DefaultNumTrees is default number of boosting rounds.
	DefaultNumTrees = 100

	// DefaultMaxDepth is default maximum depth of trees.
	DefaultMaxDepth = 6

	// DefaultLearningRate is default shrinkage of trees.
	DefaultLearningRate = 0.1

	// DefaultLambda is default L2 regularisation of leaf weights.
	DefaultLambda = 1.0

	// DefaultMinChildWeight is default minimum hessian sum of a child.
	DefaultMinChildWeight = 1.0

	// DefaultBaseScore is default initial probability of every row.
	DefaultBaseScore = 0.5

	// DefaultSubsample is default fraction of rows sampled per tree.
	DefaultSubsample = 1.0

	// DefaultSeed is default seed of row subsampling.
	DefaultSeed = 42

	probabilityEpsilon = 1e-15
)
