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

package dependency

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/mitchellh/mapstructure"
	"github.com/phayes/freeport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"gopkg.in/yaml.v3"

	"github.com/intelliinspect/inspector/cmd/dependency/base"
	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/pkg/workpath"
)

const (
	// tracerShutdownTimeout bounds the flush of pending spans on exit.
	tracerShutdownTimeout = 5 * time.Second
)

// InitCommandAndConfig initializes flags binding and common sub cmds.
// config is a pointer to configuration struct.
func InitCommandAndConfig(cmd *cobra.Command, useConfigFile bool, config any) {
	rootName := cmd.Root().Name()
	cobra.OnInitialize(func() { initConfig(useConfigFile, rootName, config) })

	if !cmd.HasParent() {
		// Add common flags.
		flags := cmd.PersistentFlags()
		flags.Bool("console", false, "whether logger output records to the stdout")
		flags.Bool("verbose", false, "whether logger use debug level")
		flags.Int("pprof-port", 0, "listen port for pprof, 0 represents random port")
		flags.String("jaeger", "", "jaeger endpoint url, like: http://localhost:14268/api/traces")
		flags.String("service-name", rootName, "name of the service for tracer")
		flags.String("config", "", fmt.Sprintf("the path of configuration file with yaml extension name, default is %s, it can also be set by env var: %s", filepath.Join(workpath.DefaultWorkHome, rootName+".yaml"), strings.ToUpper(rootName+"_config")))

		// Bind common flags.
		if err := viper.BindPFlags(flags); err != nil {
			panic(fmt.Errorf("bind common flags to viper: %w", err))
		}

		if err := viper.BindPFlag("telemetry.jaeger", flags.Lookup("jaeger")); err != nil {
			panic(fmt.Errorf("bind telemetry jaeger flag to viper: %w", err))
		}

		if err := viper.BindPFlag("telemetry.serviceName", flags.Lookup("service-name")); err != nil {
			panic(fmt.Errorf("bind telemetry service name flag to viper: %w", err))
		}

		// Config for binding env.
		viper.SetEnvPrefix(rootName)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
		_ = viper.BindEnv("config")

		// Add common cmds only on root cmd.
		cmd.AddCommand(VersionCmd)
	}
}

// InitMonitor initializes the pprof server and the jaeger tracer,
// the returned function releases them.
func InitMonitor(verbose bool, pprofPort int, telemetry base.TelemetryOption) func() {
	var fc = make(chan func(), 2)

	if verbose {
		vm := statsview.New()
		if pprofPort == 0 {
			pprofPort, _ = freeport.GetFreePort()
		}

		debugAddr := fmt.Sprintf("%s:%d", "0.0.0.0", pprofPort)
		viewer.SetConfiguration(viewer.WithAddr(debugAddr))

		logger.With("pprof", fmt.Sprintf("http://%s/debug/pprof", debugAddr),
			"statsview", fmt.Sprintf("http://%s/debug/statsview", debugAddr)).
			Infof("enable pprof at %s", debugAddr)

		go func() {
			if err := vm.Start(); err != nil {
				logger.Warnf("serve pprof error: %v", err)
			}
		}()

		fc <- func() { vm.Stop() }
	}

	if telemetry.Jaeger != "" {
		shutdown, err := initJaegerTracer(telemetry)
		if err != nil {
			logger.Warnf("init jaeger tracer error: %v", err)
		} else {
			fc <- shutdown
		}
	}

	return func() {
		logger.Info("do some cleanup")
		close(fc)
		for f := range fc {
			f()
		}
	}
}

// SetupQuitSignalHandler calls handler once on SIGINT or SIGTERM.
func SetupQuitSignalHandler(handler func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var done bool
		for sig := range signals {
			logger.Warnf("receive %s signal", sig)
			if !done {
				done = true
				handler()
				logger.Warnf("handle signal %s finish", sig)
			}
		}
	}()
}

func initConfig(useConfigFile bool, name string, config any) {
	// Use config file and read once.
	if useConfigFile {
		cfgFile := viper.GetString("config")
		if cfgFile != "" {
			// Use config file from the flag.
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(workpath.DefaultWorkHome)
			viper.AddConfigPath(".")
			viper.SetConfigName(name)
			viper.SetConfigType("yaml")
		}

		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
				panic(fmt.Errorf("viper read config: %w", err))
			}
		}
	}

	if err := viper.Unmarshal(config, initDecoderConfig); err != nil {
		panic(fmt.Errorf("unmarshal config to struct: %w", err))
	}

	if viper.GetBool("verbose") {
		out, _ := yaml.Marshal(config)
		logger.Debugf("%s configuration:\n%s", name, string(out))
	}
}

func initDecoderConfig(dc *mapstructure.DecoderConfig) {
	dc.TagName = "mapstructure"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToIPHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		func(from, to reflect.Type, v any) (any, error) {
			// Allow "1e-1" style learning rates written as strings in env vars.
			if to.Kind() == reflect.Float64 && from.Kind() == reflect.String {
				var f float64
				if _, err := fmt.Sscan(v.(string), &f); err != nil {
					return v, nil
				}

				return f, nil
			}

			return v, nil
		},
	)
}

func initJaegerTracer(telemetry base.TelemetryOption) (func(), error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(telemetry.Jaeger)))
	if err != nil {
		return nil, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewSchemaless(
			attribute.String("service.name", telemetry.ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Errorf("shutdown tracer provider error: %v", err)
		}
	}, nil
}
