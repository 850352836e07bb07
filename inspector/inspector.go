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
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	logger "github.com/intelliinspect/inspector/internal/inspectlog"
	"github.com/intelliinspect/inspector/inspector/config"
	"github.com/intelliinspect/inspector/inspector/generator"
	"github.com/intelliinspect/inspector/inspector/metrics"
	"github.com/intelliinspect/inspector/inspector/model"
	"github.com/intelliinspect/inspector/inspector/router"
	"github.com/intelliinspect/inspector/inspector/service"
	"github.com/intelliinspect/inspector/inspector/storage"
	"github.com/intelliinspect/inspector/inspector/training"
	"github.com/intelliinspect/inspector/pkg/workpath"
)

const (
	gracefulStopTimeout = 10 * time.Second
)

type Server struct {
	// Server configuration.
	config *config.Config

	// Work path.
	workpath workpath.Workpath

	// Model handle shared by training and prediction.
	handle *model.Handle

	// Model storage.
	storage storage.Storage

	// REST server.
	restServer *http.Server

	// Metrics server.
	metricsServer *http.Server
}

func New(cfg *config.Config, w workpath.Workpath) (*Server, error) {
	s := &Server{config: cfg, workpath: w}

	// Initialize storage.
	s.storage = storage.New(cfg.Storage.Dir, cfg.Storage.ModelFile)

	// Initialize model handle.
	s.handle = model.NewHandle()
	if cfg.Storage.Restore {
		snapshot, err := training.Restore(s.storage, s.handle)
		switch {
		case errors.Is(err, storage.ErrModelNotFound):
			logger.Infof("no persisted model found at %s", s.storage.ModelPath())
		case err != nil:
			return nil, fmt.Errorf("restore model: %w", err)
		default:
			metrics.ModelVersionGauge.Set(float64(snapshot.Version))
			logger.WithModelVersion(snapshot.Version).Infof("restored model %s trained at %s", snapshot.ID, snapshot.TrainedAt)
		}
	}

	// Initialize training.
	training := training.New(cfg.Training, s.storage, s.handle)

	// Initialize REST server.
	svc := service.New(cfg, training, s.handle, generator.NewTimeSampler())
	s.restServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.ListenIP.String(), strconv.Itoa(cfg.Server.Port)),
		Handler: router.Init(cfg, svc),
	}

	// Initialize metrics server.
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

func (s *Server) Serve() error {
	// Started metrics server.
	if s.metricsServer != nil {
		go func() {
			logger.Infof("started metrics server at %s", s.metricsServer.Addr)
			if err := s.metricsServer.ListenAndServe(); err != nil {
				if err == http.ErrServerClosed {
					return
				}
				logger.Fatalf("metrics server closed unexpect: %v", err)
			}
		}()
	}

	// Started REST server.
	logger.Infof("started rest server at %s, work home %s", s.restServer.Addr, s.workpath.WorkHome())
	if err := s.restServer.ListenAndServe(); err != nil {
		if err == http.ErrServerClosed {
			return nil
		}
		logger.Errorf("stoped rest server: %v", err)
		return err
	}

	return nil
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulStopTimeout)
	defer cancel()

	// Stop metrics server.
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			logger.Errorf("metrics server failed to stop: %v", err)
		}
		logger.Info("metrics server closed under request")
	}

	// Stop REST server.
	if err := s.restServer.Shutdown(ctx); err != nil {
		logger.Errorf("rest server failed to stop: %v", err)
	}
	logger.Info("rest server closed under request")
}
