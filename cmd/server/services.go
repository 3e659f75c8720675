package main

import (
	"codeberg.org/vyra/server/internal/config"
	"codeberg.org/vyra/server/internal/llm"
	"codeberg.org/vyra/server/internal/metrics"
	"codeberg.org/vyra/server/internal/pipeline"
	"codeberg.org/vyra/server/vyra/ledger"
	"codeberg.org/vyra/server/vyra/usage"
)

// wires the generation pipeline; provider clients are built on first use
func InitializeServices(cfg *config.Config, store ledger.Store, collector *metrics.Collector) *Services {
	clients := llm.NewClients(llm.ConfigFrom(cfg))

	gate := usage.NewGate(store, usage.Limits{
		Free:    cfg.FreeDailyLimit,
		Premium: cfg.PremiumDailyLimit,
	}, usage.WithTrustClientTier(cfg.TrustClientTier))

	p := pipeline.New(pipeline.Deps{
		Gate: gate,
		Optimizer: pipeline.NewOptimizer(clients,
			pipeline.WithOptimizerTimeout(cfg.OptimizerTimeout),
			pipeline.WithOptimizerRecorder(collector),
		),
		Generator: pipeline.NewGenerator(clients),
		Ledger:    ledger.New(store),
	},
		pipeline.WithTimeout(cfg.RequestTimeout),
		pipeline.WithRecorder(collector),
	)

	return &Services{
		Gate:     gate,
		Pipeline: p,
	}
}
