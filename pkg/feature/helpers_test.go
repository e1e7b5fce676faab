package feature_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-titanic/pkg/passenger"
	"github.com/askiada/go-titanic/pkg/table"
)

var nan = math.NaN()

type row struct {
	id       float64
	pclass   float64
	name     string
	sex      string
	age      float64
	sibSp    float64
	parch    float64
	ticket   string
	fare     float64
	cabin    string
	embarked string
}

// createPassengers builds a raw passenger table. Empty cabins and embarkation
// ports are missing.
func createPassengers(t *testing.T, rows ...row) *table.Table {
	t.Helper()
	n := len(rows)
	ids, pclass, age, sibSp, parch, fare := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	names, sex, tickets, cabins, embarked := make([]string, n), make([]string, n), make([]string, n), make([]string, n), make([]string, n)
	cabinValid, embarkedValid := make([]bool, n), make([]bool, n)
	for i, r := range rows {
		ids[i], pclass[i], age[i], sibSp[i], parch[i], fare[i] = r.id, r.pclass, r.age, r.sibSp, r.parch, r.fare
		names[i], sex[i], tickets[i], cabins[i], embarked[i] = r.name, r.sex, r.ticket, r.cabin, r.embarked
		cabinValid[i] = r.cabin != ""
		embarkedValid[i] = r.embarked != ""
	}
	tbl, err := table.New(
		table.NewFloat(passenger.ColPassengerID, ids),
		table.NewFloat(passenger.ColPclass, pclass),
		table.NewString(passenger.ColName, names, nil),
		table.NewString(passenger.ColSex, sex, nil),
		table.NewFloat(passenger.ColAge, age),
		table.NewFloat(passenger.ColSibSp, sibSp),
		table.NewFloat(passenger.ColParch, parch),
		table.NewString(passenger.ColTicket, tickets, nil),
		table.NewFloat(passenger.ColFare, fare),
		table.NewString(passenger.ColCabin, cabins, cabinValid),
		table.NewString(passenger.ColEmbarked, embarked, embarkedValid),
	)
	require.NoError(t, err)

	return tbl
}

func braund() row {
	return row{id: 1, pclass: 3, name: "Braund, Mr. Owen Harris", sex: "male", age: 22, sibSp: 1, parch: 0, ticket: "A/5 21171", fare: 7.25, embarked: "S"}
}

func cumings() row {
	return row{id: 2, pclass: 1, name: "Cumings, Mrs. John Bradley (Florence Briggs Thayer)", sex: "female", age: 38, sibSp: 1, parch: 0, ticket: "PC 17599", fare: 71.2833, cabin: "C85", embarked: "C"}
}

func smith(id float64, given, ticket string) row {
	return row{id: id, pclass: 2, name: "Smith, Mr. " + given, sex: "male", age: nan, sibSp: 0, parch: 0, ticket: ticket, fare: 13, cabin: "E10", embarked: "S"}
}

func floats(t *testing.T, tbl *table.Table, name string) []float64 {
	t.Helper()
	col, err := tbl.Typed(name, table.Float)
	require.NoError(t, err)

	return col.Floats()
}

func strs(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	col, err := tbl.Column(name)
	require.NoError(t, err)
	out := make([]string, col.Len())
	for i := range out {
		out[i], _ = col.Text(i)
	}

	return out
}
