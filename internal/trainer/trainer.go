// Package trainer fits a fixed-architecture feed-forward classifier on
// materialized transformed records and persists the fitted model for
// serving. Each Run is an independent batch job: no state survives across
// invocations, and every failure propagates to the caller unrecovered.
package trainer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/dataset"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/transform"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/metric"
	"github.com/google/uuid"
	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/rs/zerolog/log"
)

// SavedModelFile is the fixed artifact name written into the serving
// directory, consumed by the serving side outside this repo.
const SavedModelFile = "saved_model.json"

// Params fixes the training setup. The dataset-size/batch-size ratio drives
// the step-budget to epoch conversion; the rest mirrors the classifier
// architecture the serving side expects.
type Params struct {
	Spec          schema.Spec
	TrainDataSize int
	BatchSize     int
	HiddenLayers  []int
	LearningRate  float64
}

// DefaultParams returns the iris setup: 100 training records split against
// batches of 20, three hidden layers of 8 units, learning rate 0.0005.
func DefaultParams() Params {
	return Params{
		Spec:          schema.Default(),
		TrainDataSize: 100,
		BatchSize:     20,
		HiddenLayers:  []int{8, 8, 8},
		LearningRate:  0.0005,
	}
}

// Config is the caller-supplied bundle for one training invocation. No field
// has a default.
type Config struct {
	TrainFiles      string
	EvalFiles       string
	TransformOutput string
	ServingModelDir string
	TrainSteps      int
}

type Trainer struct {
	params Params
}

func New(params Params) (*Trainer, error) {
	if err := params.Spec.Validate(); err != nil {
		return nil, err
	}
	if params.TrainDataSize <= 0 || params.BatchSize <= 0 {
		return nil, fmt.Errorf("trainer: train data size and batch size must be positive")
	}
	if len(params.HiddenLayers) == 0 {
		return nil, fmt.Errorf("trainer: no hidden layers")
	}
	if params.LearningRate <= 0 {
		return nil, fmt.Errorf("trainer: learning rate must be positive")
	}
	return &Trainer{params: params}, nil
}

// Epochs converts a total step budget into full training epochs: float
// division by steps-per-epoch, truncated.
func (t *Trainer) Epochs(trainSteps int) int {
	stepsPerEpoch := float64(t.params.TrainDataSize) / float64(t.params.BatchSize)
	return int(float64(trainSteps) / stepsPerEpoch)
}

// Run executes one training invocation end to end and returns the artifact
// path. The serving directory must not pre-exist; nothing is written when
// its creation fails.
func (t *Trainer) Run(cfg Config) (string, error) {
	runID := uuid.NewString()
	start := time.Now()
	runTag := metric.TagAsString(metric.TagRunID, runID)
	log.Info().Msgf("Starting training run %s with step budget %d", runID, cfg.TrainSteps)

	stats, err := transform.Load(cfg.TransformOutput)
	if err != nil {
		return "", err
	}
	if err := stats.Validate(t.params.Spec); err != nil {
		return "", err
	}

	train, err := dataset.NewLoader(t.params.Spec).Load(cfg.TrainFiles)
	if err != nil {
		return "", err
	}
	eval, err := dataset.NewLoader(t.params.Spec).Load(cfg.EvalFiles)
	if err != nil {
		return "", err
	}
	trainRows, _ := train.Dims()
	evalRows, _ := eval.Dims()
	metric.Count(metric.DatasetRecordsLoaded, int64(trainRows+evalRows), []string{runTag})
	if trainRows == 0 {
		return "", fmt.Errorf("trainer: no training records matched %q", cfg.TrainFiles)
	}

	epochs := t.Epochs(cfg.TrainSteps)
	if epochs <= 0 {
		return "", fmt.Errorf("trainer: step budget %d is below one epoch", cfg.TrainSteps)
	}
	metric.Gauge(metric.TrainingEpochs, float64(epochs), []string{runTag})

	numClasses := classCount(train.Labels, eval.Labels)
	network := deep.NewNeural(&deep.Config{
		Inputs:     len(t.params.Spec.FeatureKeys),
		Layout:     append(append([]int{}, t.params.HiddenLayers...), numClasses),
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(0.5, 0.1),
		Bias:       true,
	})

	optimizer := training.NewAdam(t.params.LearningRate, 0, 0, 0)
	batchTrainer := training.NewBatchTrainer(optimizer, 0, t.params.BatchSize, 1)
	batchTrainer.Train(network, toExamples(train, numClasses), toExamples(eval, numClasses), epochs)
	log.Info().Msgf("Fitted classifier run=%s layout=%v activation=relu solver=adam batch_size=%d learning_rate=%f epochs=%d",
		runID, network.Config.Layout, t.params.BatchSize, t.params.LearningRate, epochs)

	accuracy := score(network, eval)
	log.Info().Msgf("Accuracy: %f", accuracy)
	metric.Gauge(metric.TrainingAccuracy, accuracy, []string{runTag})

	if err := os.Mkdir(cfg.ServingModelDir, 0o755); err != nil {
		return "", fmt.Errorf("trainer: creating serving model dir: %w", err)
	}
	data, err := network.Marshal()
	if err != nil {
		return "", fmt.Errorf("trainer: serializing model: %w", err)
	}
	artifactPath := filepath.Join(cfg.ServingModelDir, SavedModelFile)
	if err := os.WriteFile(artifactPath, data, 0o644); err != nil {
		return "", fmt.Errorf("trainer: writing model artifact: %w", err)
	}

	metric.Timing(metric.TrainingRunLatency, time.Since(start), []string{runTag})
	log.Info().Msgf("Training run %s wrote model artifact to %s", runID, artifactPath)
	return artifactPath, nil
}

func classCount(labelSets ...[]int) int {
	max := 0
	for _, labels := range labelSets {
		for _, label := range labels {
			if label > max {
				max = label
			}
		}
	}
	// softmax output layer needs at least two classes
	if max < 1 {
		return 2
	}
	return max + 1
}

func toExamples(ds *dataset.Dataset, numClasses int) training.Examples {
	rows, _ := ds.Dims()
	examples := make(training.Examples, 0, rows)
	for i := 0; i < rows; i++ {
		response := make([]float64, numClasses)
		response[ds.Labels[i]] = 1
		examples = append(examples, training.Example{
			Input:    ds.Features.RawRowView(i),
			Response: response,
		})
	}
	return examples
}

func score(network *deep.Neural, ds *dataset.Dataset) float64 {
	rows, _ := ds.Dims()
	if rows == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < rows; i++ {
		prediction := network.Predict(ds.Features.RawRowView(i))
		if argmax(prediction) == ds.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(rows)
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
