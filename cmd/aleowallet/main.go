// Copyright 2024 - See NOTICE file for copyright holders.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command aleowallet runs a wallet session against a simulated wallet that
// is exposed through all supported vendor adapters.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"perun.network/go-perun/log"
	plogrus "perun.network/go-perun/log/logrus"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/setup"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "config file (yaml, json or toml)")
	pflag.Parse()

	cfg, err := setup.Load(*cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("Loading config")
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Fatal("Parsing log level")
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.Set(plogrus.FromLogrus(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.WithError(err).Error("Demo failed")
		stop()
		os.Exit(1)
	}
}
