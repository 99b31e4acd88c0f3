package main

import (
	"path/filepath"
	"sort"

	"github.com/Meesho/BharatMLStack/model-trainer/internal/compression"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/data/records"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/dataset"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/schema"
	"github.com/Meesho/BharatMLStack/model-trainer/internal/transform"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/config"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/logger"
	"github.com/Meesho/BharatMLStack/model-trainer/pkg/metric"
	"github.com/rs/zerolog/log"
)

// The transform job is the analyze half of the pipeline: it computes
// normalization statistics over the full reference dataset, persists them,
// and rewrites every raw record file in transformed form so the trainer can
// consume it.
func main() {
	config.InitEnv()
	logger.Init()
	metric.Init()

	env := config.Instance()
	if env.RawFiles == "" {
		log.Panic().Msg("RAW_FILES is not set")
	}
	if env.TransformOutputDir == "" {
		log.Panic().Msg("TRANSFORM_OUTPUT_DIR is not set")
	}

	spec := schema.Default()
	recs, err := dataset.ReadRawRecords(env.RawFiles, spec)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read reference dataset")
	}
	log.Info().Msgf("Analyzing %d reference records", len(recs))

	stats, err := transform.Analyze(spec, recs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to compute transform statistics")
	}
	if err := stats.Save(env.TransformOutputDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist transform statistics")
	}

	transformer, err := transform.NewTransformer(spec, stats)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct transformer")
	}

	paths, err := filepath.Glob(env.RawFiles)
	if err != nil {
		log.Fatal().Err(err).Msgf("Bad file pattern %q", env.RawFiles)
	}
	sort.Strings(paths)

	columns := spec.TransformedColumns()
	for _, path := range paths {
		file, err := records.Read(path)
		if err != nil {
			log.Fatal().Err(err).Msgf("Failed to read %s", path)
		}
		rows := make([][]float64, len(file.Rows))
		for i, row := range file.Rows {
			raw, err := records.RecordFromRow(file.Columns, spec.LabelKey, row)
			if err != nil {
				log.Fatal().Err(err).Msgf("Malformed record %d in %s", i, path)
			}
			transformed, err := transformer.Transform(raw)
			if err != nil {
				log.Fatal().Err(err).Msgf("Failed to transform record %d in %s", i, path)
			}
			rows[i], err = records.RowFromRecord(columns, spec.TransformedLabelKey(), transformed)
			if err != nil {
				log.Fatal().Err(err).Msgf("Failed to pack record %d in %s", i, path)
			}
		}
		outPath := filepath.Join(env.TransformOutputDir, "transformed-"+filepath.Base(path))
		if err := records.Write(outPath, columns, rows, compression.TypeZSTD); err != nil {
			log.Fatal().Err(err).Msgf("Failed to write %s", outPath)
		}
		log.Info().Msgf("Wrote %d transformed records to %s", len(rows), outPath)
	}
}
