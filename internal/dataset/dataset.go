// Package dataset loads labeled tabular data into gonum matrices for the
// descent algorithms.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Common errors.
var (
	ErrEmpty           = errors.New("dataset has no rows")
	ErrRaggedRow       = errors.New("row has a different number of columns")
	ErrInvalidColumn   = errors.New("target column out of range")
	ErrInvalidTestSize = errors.New("test ratio must be in [0, 1) and leave at least one training row")
)

// Dataset is a feature matrix X (n × d) with its aligned target vector Y.
type Dataset struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return d.Y.Len()
}

// Features returns the feature dimension.
func (d *Dataset) Features() int {
	_, c := d.X.Dims()
	return c
}

// CSVOptions controls how LoadCSV interprets its input.
type CSVOptions struct {
	Header       bool // Skip the first record
	TargetColumn int  // Index of the target column; negative counts from the end (-1 = last)
	Comma        rune // Field delimiter (default: ',')
}

// DefaultCSVOptions returns options for a header-less CSV whose last column is
// the target.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{TargetColumn: -1, Comma: ','}
}

// LoadCSVFile opens path and loads it with LoadCSV.
func LoadCSVFile(path string, opts CSVOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := LoadCSV(bufio.NewReader(f), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load dataset %s", path)
	}
	return ds, nil
}

// LoadCSV reads numeric records from r. Every column except the target column
// becomes a feature, in file order.
func LoadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var (
		features []float64
		targets  []float64
		width    = -1
		target   int
		record   int
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		record++
		if opts.Header && record == 1 {
			continue
		}

		if width < 0 {
			width = len(rec)
			target = opts.TargetColumn
			if target < 0 {
				target += width
			}
			if width < 2 || target < 0 || target >= width {
				return nil, errors.Wrapf(ErrInvalidColumn, "target column %d with %d columns", opts.TargetColumn, width)
			}
		}
		if len(rec) != width {
			line, _ := reader.FieldPos(0)
			return nil, errors.Wrapf(ErrRaggedRow, "line %d: expected %d, got %d", line, width, len(rec))
		}

		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := reader.FieldPos(i)
				return nil, errors.Wrapf(err, "line %d column %d", line, i)
			}
			if i == target {
				targets = append(targets, v)
			} else {
				features = append(features, v)
			}
		}
	}

	if len(targets) == 0 {
		return nil, errors.WithStack(ErrEmpty)
	}
	return &Dataset{
		X: mat.NewDense(len(targets), width-1, features),
		Y: mat.NewVecDense(len(targets), targets),
	}, nil
}

// Split shuffles the rows with a generator seeded by seed and moves
// floor(n * testRatio) of them into the test set. test is nil when no rows
// are held out.
func Split(ds *Dataset, testRatio float64, seed uint64) (train, test *Dataset, err error) {
	n := ds.Len()
	nTest := int(float64(n) * testRatio)
	if testRatio < 0 || testRatio >= 1 || nTest >= n {
		return nil, nil, errors.Wrapf(ErrInvalidTestSize, "ratio %v with %d rows", testRatio, n)
	}

	//nolint:gosec // Deterministic shuffling for reproducible splits
	rng := rand.New(rand.NewPCG(seed, seed))
	indices := rng.Perm(n)

	train = subset(ds, indices[nTest:])
	if nTest > 0 {
		test = subset(ds, indices[:nTest])
	}
	return train, test, nil
}

func subset(ds *Dataset, rows []int) *Dataset {
	d := ds.Features()
	X := mat.NewDense(len(rows), d, nil)
	Y := mat.NewVecDense(len(rows), nil)
	for i, r := range rows {
		X.SetRow(i, ds.X.RawRowView(r))
		Y.SetVec(i, ds.Y.AtVec(r))
	}
	return &Dataset{X: X, Y: Y}
}
