package dataset

import (
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/passenger"
	"github.com/askiada/go-titanic/pkg/table"
)

// passengerIDs returns the PassengerId column of tbl as integers.
func passengerIDs(tbl *table.Table, rows int) ([]int, error) {
	col, err := tbl.Typed(passenger.ColPassengerID, table.Float)
	if err != nil {
		return nil, errors.Wrap(ErrNoIdentifiers, err.Error())
	}
	if col.Len() != rows {
		return nil, errors.Wrapf(table.ErrLengthMismatch, "%d rows for %d passengers", rows, col.Len())
	}
	ids := make([]int, col.Len())
	for i := range ids {
		ids[i] = int(col.Float(i))
	}

	return ids, nil
}

// WriteSubmission writes one PassengerId,Survived line per row of tbl.
func WriteSubmission(w io.Writer, tbl *table.Table, predictions []float64) error {
	ids, err := passengerIDs(tbl, len(predictions))
	if err != nil {
		return err
	}
	survived := make([]int, len(predictions))
	for i, p := range predictions {
		survived[i] = int(p)
	}

	df := dataframe.New(
		series.New(ids, series.Int, passenger.ColPassengerID),
		series.New(survived, series.Int, passenger.ColSurvived),
	)
	if df.Err != nil {
		return errors.Wrap(df.Err, "unable to build submission")
	}

	err = df.WriteCSV(w)
	if err != nil {
		return errors.Wrap(err, "unable to write submission")
	}

	return nil
}

// SaveSubmission writes the submission file at path.
func SaveSubmission(path string, tbl *table.Table, predictions []float64) error {
	return save(path, func(w io.Writer) error {
		return WriteSubmission(w, tbl, predictions)
	})
}

// WriteProjection writes the PassengerId of every row of tbl followed by the
// float columns of projected.
func WriteProjection(w io.Writer, tbl, projected *table.Table) error {
	ids, err := passengerIDs(tbl, projected.Rows())
	if err != nil {
		return err
	}
	columns := []series.Series{series.New(ids, series.Int, passenger.ColPassengerID)}
	for _, name := range projected.Names() {
		col, err := projected.Typed(name, table.Float)
		if err != nil {
			return err
		}
		columns = append(columns, series.New(col.Floats(), series.Float, name))
	}

	df := dataframe.New(columns...)
	if df.Err != nil {
		return errors.Wrap(df.Err, "unable to build projection")
	}
	err = df.WriteCSV(w)
	if err != nil {
		return errors.Wrap(err, "unable to write projection")
	}

	return nil
}

// SaveProjection writes the projection file at path.
func SaveProjection(path string, tbl, projected *table.Table) error {
	return save(path, func(w io.Writer) error {
		return WriteProjection(w, tbl, projected)
	})
}

func save(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}

	err = write(file)
	if err != nil {
		file.Close()

		return err
	}

	return errors.Wrapf(file.Close(), "unable to close %s", path)
}
