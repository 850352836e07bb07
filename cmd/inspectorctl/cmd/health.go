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

package cmd

import (
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:          "health",
	Short:        "check the liveness of the service",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().HealthWithContext(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), resp)
	},
}

var infoCmd = &cobra.Command{
	Use:          "info",
	Short:        "show information of the current model",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().ModelInfoWithContext(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), resp)
	},
}
