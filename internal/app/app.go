// Package app assembles the survival pipeline from the configuration and runs it
// from the input files to the submission file.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/internal/config"
	"github.com/askiada/go-titanic/internal/dataset"
	"github.com/askiada/go-titanic/pkg/feature"
	"github.com/askiada/go-titanic/pkg/lda"
	"github.com/askiada/go-titanic/pkg/pipeline"
	"github.com/askiada/go-titanic/pkg/pipeline/drawer"
	"github.com/askiada/go-titanic/pkg/pipeline/logging"
	"github.com/askiada/go-titanic/pkg/pipeline/measure"
	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

// Stage names, in pipeline order.
const (
	StageBinner     = "binner"
	StageEncoder    = "encoder"
	StageAttributes = "attribute_adder"
	StageModel      = "model"
)

// File names written in the projection directory.
const (
	TrainProjectionFile = "train_projection.csv"
	TestProjectionFile  = "test_projection.csv"
)

// Report summarises a run.
type Report struct {
	TrainRows     int
	TestRows      int
	Features      []string
	TrainAccuracy float64
	Submission    string
	Projections   []string
}

type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New returns an app running cfg. A nil logger uses slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	return &App{cfg: cfg, logger: logger}
}

// NewLogger builds the logger described by cfg.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Classifier returns the estimator configured in the model section.
func (a *App) Classifier() (*lda.Classifier, error) {
	auto, alpha := a.cfg.Model.ShrinkageValue()
	if auto {
		return lda.New(lda.WithAutoShrinkage())
	}

	return lda.New(lda.WithShrinkage(alpha))
}

// BuildPipeline registers the binner, encoder, attribute adder and classifier.
// Timings are recorded in the returned measure.
func (a *App) BuildPipeline() (*pipeline.Pipeline, *measure.DefaultMeasure, error) {
	msr := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{
		measure.PipelineMeasure(msr),
		logging.PipelineLogger(a.logger),
	}
	if a.cfg.Output.Graph != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(a.cfg.Output.Graph), msr))
	}

	pipe, err := pipeline.New(opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create pipeline")
	}

	binner, err := feature.NewBinner(a.cfg.Features.BinnerConfig())
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create binner")
	}
	encoder, err := feature.NewEncoder(a.cfg.Features.EncoderConfig())
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create encoder")
	}
	adder, err := feature.NewAttributeAdder(a.cfg.Features.AttributeConfig())
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create attribute adder")
	}
	classifier, err := a.Classifier()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create classifier")
	}

	for _, stage := range []struct {
		name  string
		stage model.Stage
	}{
		{StageBinner, binner},
		{StageEncoder, encoder},
		{StageAttributes, adder},
	} {
		err = pipe.AddStage(stage.name, stage.stage)
		if err != nil {
			return nil, nil, err
		}
	}
	err = pipe.SetEstimator(StageModel, classifier)
	if err != nil {
		return nil, nil, err
	}

	return pipe, msr, nil
}

// Run fits the pipeline on the training file, scores it on the same file,
// predicts the holdout file and writes the submission.
func (a *App) Run(ctx context.Context) (report *Report, err error) {
	data := a.cfg.Data
	err = dataset.Prepare(data.Dir, data.Archive, data.Train, data.Test)
	if err != nil {
		return nil, errors.Wrap(err, "unable to prepare data")
	}

	train, test, err := dataset.LoadPair(ctx, filepath.Join(data.Dir, data.Train), filepath.Join(data.Dir, data.Test))
	if err != nil {
		return nil, errors.Wrap(err, "unable to load data")
	}
	features, labels, err := dataset.SplitLabels(train)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read labels")
	}
	a.logger.Info("data loaded",
		slog.Int("train_rows", features.Rows()),
		slog.Int("test_rows", test.Rows()))

	pipe, msr, err := a.BuildPipeline()
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := pipe.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "unable to close pipeline")
		}
	}()

	fitted, engineered, err := pipe.FitTransform(ctx, features, labels)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fit pipeline")
	}

	trainPredictions, err := fitted.Predict(ctx, features)
	if err != nil {
		return nil, errors.Wrap(err, "unable to predict training data")
	}
	accuracy, err := lda.Accuracy(trainPredictions, labels)
	if err != nil {
		return nil, err
	}

	predictions, err := fitted.Predict(ctx, test)
	if err != nil {
		return nil, errors.Wrap(err, "unable to predict holdout data")
	}
	err = dataset.SaveSubmission(a.cfg.Output.Submission, test, predictions)
	if err != nil {
		return nil, err
	}

	projections, err := a.saveProjections(ctx, fitted, features, test)
	if err != nil {
		return nil, err
	}

	for _, name := range pipe.Stages() {
		if mt := msr.GetMetric(name); mt != nil {
			a.logger.Debug("stage timing", slog.String("stage", name), slog.Duration("elapsed", mt.Elapsed()))
		}
	}
	a.logger.Info("submission written",
		slog.String("path", a.cfg.Output.Submission),
		slog.Float64("train_accuracy", accuracy),
		slog.Int("features", engineered.Width()))

	return &Report{
		TrainRows:     features.Rows(),
		TestRows:      test.Rows(),
		Features:      engineered.Names(),
		TrainAccuracy: accuracy,
		Submission:    a.cfg.Output.Submission,
		Projections:   projections,
	}, nil
}

// saveProjections writes the train and holdout tables projected by the whole
// fitted pipeline when a projection directory is configured.
func (a *App) saveProjections(ctx context.Context, fitted *pipeline.Model, train, test *table.Table) ([]string, error) {
	dir := a.cfg.Output.Projection
	if dir == "" {
		return nil, nil
	}
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", dir)
	}

	paths := make([]string, 0, 2)
	for _, out := range []struct {
		file string
		tbl  *table.Table
	}{
		{TrainProjectionFile, train},
		{TestProjectionFile, test},
	} {
		projected, err := fitted.TransformAll(ctx, out.tbl)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to project %s", out.file)
		}
		path := filepath.Join(dir, out.file)
		err = dataset.SaveProjection(path, out.tbl, projected)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("projection written", slog.String("path", path), slog.Int("components", projected.Width()))
		paths = append(paths, path)
	}

	return paths, nil
}
