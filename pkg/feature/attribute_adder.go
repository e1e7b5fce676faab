package feature

import (
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/go-titanic/pkg/passenger"
	"github.com/askiada/go-titanic/pkg/pipeline/model"
	"github.com/askiada/go-titanic/pkg/table"
)

// Derived columns.
const (
	ColDeck       = "Deck"
	ColFamilySize = "FamilySize"
	ColTitle      = "title"
	ColIsMarried  = "is_married"
	ColFamily     = "family"
	prefixFamily  = "family"
	prefixTicket  = "ticket"
)

// attributeInputs are the raw columns the attribute adder reads.
var attributeInputs = []string{
	passenger.ColCabin,
	passenger.ColSibSp,
	passenger.ColParch,
	passenger.ColName,
	passenger.ColTicket,
}

// droppedColumns never reach the model.
var droppedColumns = []string{
	passenger.ColPassengerID,
	passenger.ColName,
	passenger.ColPclass,
	passenger.ColSex,
	passenger.ColAge,
	passenger.ColTicket,
	ColTitle,
	passenger.ColFare,
	passenger.ColCabin,
	passenger.ColEmbarked,
	ColDeck,
	ColFamilySize,
	ColFamily,
}

// AttributeConfig lists the raw columns consumed by the attribute adder.
type AttributeConfig struct {
	Features  []string
	DropFirst bool
}

// AttributeAdder derives deck, family size, title, marital status and the family
// and ticket survival rates.
type AttributeAdder struct {
	features  []string
	dropFirst bool
}

// NewAttributeAdder checks that every raw column the stage reads is configured.
func NewAttributeAdder(cfg AttributeConfig) (*AttributeAdder, error) {
	configured := make(map[string]struct{}, len(cfg.Features))
	for _, feature := range cfg.Features {
		configured[feature] = struct{}{}
	}
	for _, input := range attributeInputs {
		if _, ok := configured[input]; !ok {
			return nil, errors.Wrapf(ErrValidation, "feature %s is required by the attribute adder", input)
		}
	}

	return &AttributeAdder{
		features:  append([]string(nil), cfg.Features...),
		dropFirst: cfg.DropFirst,
	}, nil
}

func (a *AttributeAdder) check(tbl *table.Table) error {
	err := tbl.Require(
		table.Field{Name: passenger.ColCabin, Kind: table.String},
		table.Field{Name: passenger.ColSibSp, Kind: table.Float},
		table.Field{Name: passenger.ColParch, Kind: table.Float},
		table.Field{Name: passenger.ColName, Kind: table.String},
		table.Field{Name: passenger.ColTicket, Kind: table.String},
	)
	if err != nil {
		return err
	}
	for _, feature := range a.features {
		if !tbl.Has(feature) {
			return errors.Wrap(table.ErrColumnNotFound, feature)
		}
	}

	return nil
}

// Fit implements model.Stage.
func (a *AttributeAdder) Fit(tbl *table.Table, labels []float64) (model.Transformer, error) {
	return a.FitRates(tbl, labels)
}

// FitRates builds the family and ticket survival rates from the training labels.
func (a *AttributeAdder) FitRates(tbl *table.Table, labels []float64) (*FittedAttributeAdder, error) {
	if labels == nil {
		return nil, ErrLabelsRequired
	}
	if len(labels) != tbl.Rows() {
		return nil, errors.Wrapf(ErrLabelsMisaligned, "%d labels for %d rows", len(labels), tbl.Rows())
	}
	for i, label := range labels {
		if math.IsNaN(label) {
			return nil, errors.Wrapf(ErrInvalidLabel, "row %d", i)
		}
	}
	err := a.check(tbl)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fit attribute adder")
	}

	nameCol, _ := tbl.Column(passenger.ColName)     //nolint:errcheck // checked above
	ticketCol, _ := tbl.Column(passenger.ColTicket) //nolint:errcheck // checked above

	families, err := surnames(nameCol)
	if err != nil {
		return nil, err
	}
	tickets, present := texts(ticketCol)

	return &FittedAttributeAdder{
		dropFirst: a.dropFirst,
		features:  a.features,
		family:    buildSurvivalRate(families, allPresent(len(families)), labels),
		ticket:    buildSurvivalRate(tickets, present, labels),
	}, nil
}

// FittedAttributeAdder holds the survival rates learned from training data.
// It is never modified after fitting.
type FittedAttributeAdder struct {
	dropFirst bool
	features  []string
	family    SurvivalRate
	ticket    SurvivalRate
}

// FamilySurvivalRate returns a copy of the survival rate per surname.
func (f *FittedAttributeAdder) FamilySurvivalRate() SurvivalRate {
	return cloneRate(f.family)
}

// TicketSurvivalRate returns a copy of the survival rate per ticket.
func (f *FittedAttributeAdder) TicketSurvivalRate() SurvivalRate {
	return cloneRate(f.ticket)
}

// Derive returns the table with every derived column, before the raw and
// intermediate columns are dropped.
func (f *FittedAttributeAdder) Derive(tbl *table.Table) (*table.Table, error) {
	err := (&AttributeAdder{features: f.features}).check(tbl)
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive attributes")
	}
	cabinCol, _ := tbl.Column(passenger.ColCabin)   //nolint:errcheck // checked above
	sibSpCol, _ := tbl.Column(passenger.ColSibSp)   //nolint:errcheck // checked above
	parchCol, _ := tbl.Column(passenger.ColParch)   //nolint:errcheck // checked above
	nameCol, _ := tbl.Column(passenger.ColName)     //nolint:errcheck // checked above
	ticketCol, _ := tbl.Column(passenger.ColTicket) //nolint:errcheck // checked above

	rows := tbl.Rows()
	decks := make([]string, rows)
	sizes := make([]string, rows)
	titles := make([]string, rows)
	married := make([]float64, rows)
	for i := 0; i < rows; i++ {
		decks[i] = deck(cabinCol.Text(i))
		sizes[i] = familySize(sibSpCol.Float(i), parchCol.Float(i))

		value, _ := nameCol.Text(i)
		name, err := passenger.ParseName(value)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		titles[i] = normalizeTitle(name.Title)
		married[i] = isMarried(value)
	}
	families, err := surnames(nameCol)
	if err != nil {
		return nil, err
	}
	tickets, present := texts(ticketCol)

	sizeCol := table.NewString(ColFamilySize, sizes, nil)
	titleCol := table.NewString(ColTitle, titles, nil)
	cols := []*table.Column{
		table.NewString(ColDeck, decks, nil),
		sizeCol,
		titleCol,
	}
	cols = append(cols, dummies(ColFamilySize, coerce(sizeCol, familySizeDomain), familySizeDomain, f.dropFirst)...)
	cols = append(cols, dummies(ColTitle, coerce(titleCol, titleDomain), titleDomain, f.dropFirst)...)
	cols = append(cols,
		table.NewFloat(ColIsMarried, married),
		table.NewString(ColFamily, families, nil),
	)
	cols = append(cols, f.family.join(prefixFamily, families, allPresent(rows))...)
	cols = append(cols, f.ticket.join(prefixTicket, tickets, present)...)

	return tbl.With(cols...)
}

// Transform derives the attributes and keeps only the columns meant for the
// model, sorted by name.
func (f *FittedAttributeAdder) Transform(tbl *table.Table) (*table.Table, error) {
	derived, err := f.Derive(tbl)
	if err != nil {
		return nil, err
	}

	return derived.Drop(droppedColumns...).Sorted(), nil
}

func surnames(col *table.Column) ([]string, error) {
	out := make([]string, col.Len())
	for i := range out {
		value, _ := col.Text(i)
		surname, err := passenger.Surname(value)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = surname
	}

	return out, nil
}

func texts(col *table.Column) ([]string, []bool) {
	values := make([]string, col.Len())
	present := make([]bool, col.Len())
	for i := range values {
		values[i], present[i] = col.Text(i)
	}

	return values, present
}

func allPresent(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}

	return out
}

func cloneRate(sr SurvivalRate) SurvivalRate {
	out := make(SurvivalRate, len(sr))
	for key, stat := range sr {
		out[key] = stat
	}

	return out
}
