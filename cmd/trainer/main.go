package main

import (
	"github.com/Meesho/BharatMLStack/model-trainer/internal/pipeline"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/trainer"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/transform"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/config"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/logger"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/manifest"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/metric"
	"github.com/rs/zerolog/log"
)

func main() {
	config.InitEnv()
	logger.Init()
	metric.Init()

	if err := manifest.Validate(); err != nil {
		log.Panic().Err(err).Msg("Dependency manifest is invalid")
	}

	env := config.Instance()
	if env.TrainFiles == "" {
		log.Panic().Msg("TRAIN_FILES is not set")
	}
	if env.EvalFiles == "" {
		log.Panic().Msg("EVAL_FILES is not set")
	}
	if env.TransformOutputDir == "" {
		log.Panic().Msg("TRANSFORM_OUTPUT_DIR is not set")
	}
	if env.ServingModelDir == "" {
		log.Panic().Msg("SERVING_MODEL_DIR is not set")
	}
	if env.TrainSteps <= 0 {
		log.Panic().Msg("TRAIN_STEPS is not set")
	}

	params := trainer.DefaultParams()
	t, err := trainer.New(params)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct trainer")
	}
	stats, err := transform.Load(env.TransformOutputDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transform statistics")
	}
	transformer, err := transform.NewTransformer(params.Spec, stats)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct transformer")
	}

	adapter := pipeline.NewAdapter(transformer, t)
	artifactPath, err := adapter.Train(trainer.Config{
		TrainFiles:      env.TrainFiles,
		EvalFiles:       env.EvalFiles,
		TransformOutput: env.TransformOutputDir,
		ServingModelDir: env.ServingModelDir,
		TrainSteps:      env.TrainSteps,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Training run failed")
	}
	log.Info().Msgf("Model artifact written to %s", artifactPath)
}
