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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	inspectorclient "github.com/intelliinspect/inspector/client/inspector"
	"github.com/intelliinspect/inspector/cmd/dependency"
	logger "github.com/intelliinspect/inspector/internal/inspectlog"
)

const (
	// addrEnv is the environment variable of the service address.
	addrEnv = "INSPECTOR_ADDR"

	// defaultTimeout is the default timeout of a single request, training included.
	defaultTimeout = 5 * time.Minute
)

// newClient builds the client, it is replaced in tests.
var newClient = func() inspectorclient.Inspector {
	return inspectorclient.New(viper.GetString("addr"), inspectorclient.WithHTTPClient(&http.Client{
		Timeout: viper.GetDuration("timeout"),
	}))
}

var inspectorctlDescription = `inspectorctl is the command line client of the inspector service.
It trains models over date ranges, predicts single samples, exports synthetic datasets
and replays a date range of generated records against the service.`

var rootCmd = &cobra.Command{
	Use:               "inspectorctl",
	Short:             "command line client of the inspector service",
	Long:              inspectorctlDescription,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Init logger
		return logger.InitInspectorCtl(viper.GetBool("verbose"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("Execute error: %s", err)
		os.Exit(1)
	}
}

func init() {
	// Environment from .env in the working directory, existing variables win.
	_ = godotenv.Load() // nolint: errcheck

	flags := rootCmd.PersistentFlags()
	flags.String("addr", inspectorclient.DefaultEndpoint, fmt.Sprintf("address of the inspector service, it can also be set by env var: %s", addrEnv))
	flags.Duration("timeout", defaultTimeout, "timeout of a single request")
	flags.Bool("verbose", false, "whether logger use debug level")

	if err := viper.BindPFlags(flags); err != nil {
		panic(fmt.Errorf("bind inspectorctl flags to viper: %w", err))
	}

	if err := viper.BindEnv("addr", addrEnv); err != nil {
		panic(fmt.Errorf("bind %s to viper: %w", addrEnv, err))
	}

	rootCmd.AddCommand(
		healthCmd,
		trainCmd,
		predictCmd,
		infoCmd,
		generateCmd,
		simulateCmd,
		dependency.VersionCmd,
	)
}

// printJSON writes v as indented json.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
