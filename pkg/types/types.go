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

package types

const (
	// MetricsNamespace is the namespace of all exported prometheus metrics.
	MetricsNamespace = "intelliinspect"

	// InspectorMetricsName is the subsystem name of inspector metrics.
	InspectorMetricsName = "inspector"
)

const (
	// InspectorName is the name of the inspector service.
	InspectorName = "inspector"

	// InspectorCtlName is the name of the inspector command line client.
	InspectorCtlName = "inspectorctl"
)

const (
	// LabelPass is the display name of the positive class.
	LabelPass = "Pass"

	// LabelFail is the display name of the negative class.
	LabelFail = "Fail"
)
