// Package pipeline exposes the callback surface the external orchestrator
// drives: one preprocessing entry point and one training entry point, bound
// together on a concrete adapter.
package pipeline

import (
	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/trainer"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/transform"
)

// Executor is the contract an orchestrator calls the adapter through.
type Executor interface {
	// Transform standardizes one raw record into its transformed form.
	Transform(raw schema.Record) (schema.Record, error)
	// Train runs one training invocation and returns the artifact path.
	Train(cfg trainer.Config) (string, error)
}

// Adapter wires a feature transformer and a trainer into one Executor.
type Adapter struct {
	transformer *transform.Transformer
	trainer     *trainer.Trainer
}

var _ Executor = (*Adapter)(nil)

func NewAdapter(transformer *transform.Transformer, t *trainer.Trainer) *Adapter {
	return &Adapter{transformer: transformer, trainer: t}
}

func (a *Adapter) Transform(raw schema.Record) (schema.Record, error) {
	return a.transformer.Transform(raw)
}

func (a *Adapter) Train(cfg trainer.Config) (string, error) {
	return a.trainer.Run(cfg)
}
