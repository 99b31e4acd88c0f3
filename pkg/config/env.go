package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Env carries the process-level configuration for a trainer invocation.
// Job-level fields (file globs, output dirs, step budget) are caller-supplied
// and have no defaults.
type Env struct {
	AppName            string
	AppLogLevel        string
	AppEnv             string
	MetricSamplingRate float64

	TrainFiles         string
	EvalFiles          string
	RawFiles           string
	TransformOutputDir string
	ServingModelDir    string
	TrainSteps         int
}

var (
	initialized bool
	once        sync.Once
	instance    Env
	initError   error
)

func Load() (Env, error) {
	samplingRate := 1.0
	if raw := strings.TrimSpace(os.Getenv("APP_METRIC_SAMPLING_RATE")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 || rate > 1 {
			return Env{}, fmt.Errorf("invalid APP_METRIC_SAMPLING_RATE: %q", raw)
		}
		samplingRate = rate
	}

	trainSteps := 0
	if raw := strings.TrimSpace(os.Getenv("TRAIN_STEPS")); raw != "" {
		steps, err := strconv.Atoi(raw)
		if err != nil || steps <= 0 {
			return Env{}, fmt.Errorf("invalid TRAIN_STEPS: %q", raw)
		}
		trainSteps = steps
	}

	return Env{
		AppName:            strings.TrimSpace(os.Getenv("APP_NAME")),
		AppLogLevel:        strings.TrimSpace(os.Getenv("APP_LOG_LEVEL")),
		AppEnv:             strings.TrimSpace(os.Getenv("APP_ENV")),
		MetricSamplingRate: samplingRate,
		TrainFiles:         strings.TrimSpace(os.Getenv("TRAIN_FILES")),
		EvalFiles:          strings.TrimSpace(os.Getenv("EVAL_FILES")),
		RawFiles:           strings.TrimSpace(os.Getenv("RAW_FILES")),
		TransformOutputDir: strings.TrimSpace(os.Getenv("TRANSFORM_OUTPUT_DIR")),
		ServingModelDir:    strings.TrimSpace(os.Getenv("SERVING_MODEL_DIR")),
		TrainSteps:         trainSteps,
	}, nil
}

func InitEnv() {
	if initialized {
		log.Debug().Msg("Env already initialized!")
		return
	}
	once.Do(func() {
		viper.AutomaticEnv()
		instance, initError = Load()
		if initError != nil {
			log.Panic().Err(initError).Msg("failed to load env")
		}
		initialized = true
		log.Info().Msg("Env initialized!")
	})
}

func Instance() Env {
	InitEnv()
	if initError != nil {
		panic(initError)
	}
	return instance
}
