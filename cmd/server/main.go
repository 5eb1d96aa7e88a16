/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gem/snowplow-bridge/internal/bridge/service"
	"github.com/gem/snowplow-bridge/internal/system/config"
	"github.com/gem/snowplow-bridge/internal/system/constants"
	"github.com/gem/snowplow-bridge/internal/system/log"
	"github.com/gem/snowplow-bridge/internal/system/managers"
	"github.com/gem/snowplow-bridge/internal/tracker/provider"
)

func main() {
	bridgeHome := resolveBridgeHome()

	envFiles, err := config.LoadEnvFiles(filepath.Join(bridgeHome, "config"))
	if err != nil {
		fmt.Println("Failed to load .env files.", err)
	} else if len(envFiles) == 0 {
		fmt.Println("No .env files found in config directory.")
	}

	// Load the configuration file
	bridgeConfig, err := config.LoadConfig(bridgeHome, constants.ConfigFile)
	if err != nil {
		fmt.Println("Failed to load bridge config.", err)
		os.Exit(1)
	}
	config.InitializeBridgeRuntime(bridgeHome, bridgeConfig)

	// Initialize logger
	if err := log.Init(bridgeConfig.Log.LogLevel); err != nil {
		fmt.Println("Failed to initialize logger.", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	bridge := service.NewBridgeService(provider.NewTrackerProvider(*bridgeConfig),
		service.DefaultsFromConfig(bridgeConfig.Tracker))
	if opts, ok := service.InitOptionsFromConfig(bridgeConfig.Tracker); ok {
		if err := bridge.Initialize(opts); err != nil {
			logger.Error("Failed to initialize tracker from configuration.", log.Error(err))
		}
	}

	serviceManager := managers.NewServiceManager(http.NewServeMux(), bridge, *bridgeConfig)
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		logger.Fatal("Failed to register the services.", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", bridgeConfig.Addr.Host, bridgeConfig.Addr.Port)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener.", log.Error(err))
	}
	server := &http.Server{
		Handler:           serviceManager.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(fmt.Sprintf("Snowplow bridge started in: %s", serverAddr))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve requests.", log.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down snowplow bridge.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultCloseTimeoutSec*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server did not shut down cleanly.", log.Error(err))
	}
	if err := bridge.Close(shutdownCtx); err != nil {
		logger.Warn("Tracker did not flush before shutdown.", log.Error(err))
	}
}

// resolveBridgeHome parses flags and determines the bridge home directory.
func resolveBridgeHome() string {
	bridgeHomeFlag := flag.String("bridgeHome", "", "Path to the snowplow bridge home directory")
	if !flag.Parsed() {
		flag.Parse()
	}

	if *bridgeHomeFlag != "" {
		fmt.Printf("Using %s from command line argument\n", *bridgeHomeFlag)
		return *bridgeHomeFlag
	}
	if envHome := os.Getenv("BRIDGE_HOME"); envHome != "" {
		fmt.Printf("Using BRIDGE_HOME from environment: %s\n", envHome)
		return envHome
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Println("Failed to get current working directory.", err)
		return "."
	}
	return dir
}
