// Package dataset reads passenger files into tables and writes predictions.
package dataset

import (
	"context"
	"io"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-titanic/pkg/passenger"
	"github.com/askiada/go-titanic/pkg/table"
)

var (
	ErrNoLabels      = errors.New("file has no label column")
	ErrMissingLabel  = errors.New("missing label")
	ErrNoIdentifiers = errors.New("file has no passenger id column")
)

// nanValues are the cells read as missing. Empty cells are how the Titanic
// files leave Age, Cabin and Embarked out.
var nanValues = []string{"", "NA", "NaN", "<nil>"}

func columnTypes() map[string]series.Type {
	types := make(map[string]series.Type, len(passenger.Columns))
	for _, name := range passenger.Columns {
		types[name] = series.Float
		if passenger.IsString(name) {
			types[name] = series.String
		}
	}

	return types
}

// Read parses a passenger CSV. Known text columns are kept as text, every other
// known column is numeric and unknown columns keep the detected type.
func Read(r io.Reader) (*table.Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithTypes(columnTypes()),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "unable to read csv")
	}

	return fromDataFrame(df)
}

// Load reads the passenger CSV at path.
func Load(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	tbl, err := Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", path)
	}

	return tbl, nil
}

// LoadPair loads the training and holdout files concurrently.
func LoadPair(ctx context.Context, trainPath, testPath string) (*table.Table, *table.Table, error) {
	var train, test *table.Table
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.Go(func() error {
		if err := dCtx.Err(); err != nil {
			return err
		}
		tbl, err := Load(trainPath)
		train = tbl

		return err
	})
	errGrp.Go(func() error {
		if err := dCtx.Err(); err != nil {
			return err
		}
		tbl, err := Load(testPath)
		test = tbl

		return err
	})

	err := errGrp.Wait()
	if err != nil {
		return nil, nil, err
	}

	return train, test, nil
}

// SplitLabels removes the Survived column and returns it as labels.
func SplitLabels(tbl *table.Table) (*table.Table, []float64, error) {
	col, err := tbl.Typed(passenger.ColSurvived, table.Float)
	if err != nil {
		return nil, nil, errors.Wrap(ErrNoLabels, err.Error())
	}
	labels := col.Floats()
	for i, label := range labels {
		if math.IsNaN(label) {
			return nil, nil, errors.Wrapf(ErrMissingLabel, "row %d", i)
		}
	}

	return tbl.Drop(passenger.ColSurvived), labels, nil
}

func fromDataFrame(df dataframe.DataFrame) (*table.Table, error) {
	cols := make([]*table.Column, 0, df.Ncol())
	for _, name := range df.Names() {
		s := df.Col(name)
		if s.Type() == series.String {
			missing := s.IsNaN()
			valid := make([]bool, len(missing))
			for i, m := range missing {
				valid[i] = !m
			}
			cols = append(cols, table.NewString(name, s.Records(), valid))

			continue
		}
		cols = append(cols, table.NewFloat(name, s.Float()))
	}

	tbl, err := table.New(cols...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build table")
	}

	return tbl, nil
}
