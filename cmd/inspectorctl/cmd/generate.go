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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/types"
)

var generateFlags struct {
	start  string
	end    string
	count  int
	seed   uint64
	output string
	remote bool
}

var generateCmd = &cobra.Command{
	Use:          "generate",
	Short:        "generate synthetic sensor records as csv",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if generateFlags.output != "" {
			f, err := os.Create(generateFlags.output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if generateFlags.remote {
			count := generateFlags.count
			rc, err := newClient().DatasetWithContext(cmd.Context(), &types.DatasetQuery{
				Start: generateFlags.start,
				End:   generateFlags.end,
				Count: &count,
			})
			if err != nil {
				return err
			}
			defer rc.Close()

			_, err = io.Copy(w, rc)
			return err
		}

		records, err := generator.GenerateWithSeed(generateFlags.start, generateFlags.end, generateFlags.count, generateFlags.seed)
		if err != nil {
			return err
		}

		return generator.WriteCSV(w, records)
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVar(&generateFlags.start, "start", "", "start of the range, like: 2021-01-01")
	flags.StringVar(&generateFlags.end, "end", "", "end of the range")
	flags.IntVar(&generateFlags.count, "count", 100, "number of records")
	flags.Uint64Var(&generateFlags.seed, "seed", generator.DefaultSeed, "seed of the generator, ignored with --remote")
	flags.StringVarP(&generateFlags.output, "output", "o", "", "output file, default is stdout")
	flags.BoolVar(&generateFlags.remote, "remote", false, "export the records from the service instead of generating locally")

	for _, name := range []string{"start", "end"} {
		if err := generateCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
