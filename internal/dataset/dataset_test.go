package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/dataset"
)

func TestLoadCSV(t *testing.T) {
	tests := map[string]struct {
		input    string
		opts     dataset.CSVOptions
		expectX  []float64
		expectY  []float64
		features int
	}{
		"target last": {
			input:    "1,0,1\n0,1,1\n1,1,2\n",
			opts:     dataset.DefaultCSVOptions(),
			expectX:  []float64{1, 0, 0, 1, 1, 1},
			expectY:  []float64{1, 1, 2},
			features: 2,
		},
		"header and target first": {
			input:    "y,a,b\n3, 1, 2\n7, 3, 4\n",
			opts:     dataset.CSVOptions{Header: true, TargetColumn: 0},
			expectX:  []float64{1, 2, 3, 4},
			expectY:  []float64{3, 7},
			features: 2,
		},
		"semicolon": {
			input:    "1.5;2.5\n-1;4\n",
			opts:     dataset.CSVOptions{TargetColumn: -1, Comma: ';'},
			expectX:  []float64{1.5, -1},
			expectY:  []float64{2.5, 4},
			features: 1,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := dataset.LoadCSV(strings.NewReader(tc.input), tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.features, ds.Features())
			assert.Equal(t, len(tc.expectY), ds.Len())
			assert.Equal(t, tc.expectX, ds.X.RawMatrix().Data)
			assert.Equal(t, tc.expectY, ds.Y.RawVector().Data)
		})
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := map[string]struct {
		input    string
		opts     dataset.CSVOptions
		sentinel error
	}{
		"empty": {
			input:    "",
			opts:     dataset.DefaultCSVOptions(),
			sentinel: dataset.ErrEmpty,
		},
		"header only": {
			input:    "a,b\n",
			opts:     dataset.CSVOptions{Header: true, TargetColumn: -1},
			sentinel: dataset.ErrEmpty,
		},
		"ragged": {
			input:    "1,2,3\n4,5\n",
			opts:     dataset.DefaultCSVOptions(),
			sentinel: dataset.ErrRaggedRow,
		},
		"target out of range": {
			input:    "1,2\n",
			opts:     dataset.CSVOptions{TargetColumn: 5},
			sentinel: dataset.ErrInvalidColumn,
		},
		"single column": {
			input:    "1\n2\n",
			opts:     dataset.DefaultCSVOptions(),
			sentinel: dataset.ErrInvalidColumn,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.LoadCSV(strings.NewReader(tc.input), tc.opts)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}

	_, err := dataset.LoadCSV(strings.NewReader("1,x\n"), dataset.DefaultCSVOptions())
	assert.Error(t, err)
}

func TestLoadCSV_ErrorLineSpansQuotedFields(t *testing.T) {
	tests := map[string]struct {
		input    string
		fragment string
	}{
		"bad number": {input: "1,2,3\n\"1\n\",2,3\n1,x,3\n", fragment: "line 4 column 1"},
		"ragged row": {input: "1,2,3\n\"1\n\",2,3\n1,2\n", fragment: "line 4:"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := dataset.LoadCSV(strings.NewReader(tc.input), dataset.DefaultCSVOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.fragment)
		})
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,0,1\n0,1,1\n"), 0o600))

	ds, err := dataset.LoadCSVFile(path, dataset.DefaultCSVOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	_, err = dataset.LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv"), dataset.DefaultCSVOptions())
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	input := strings.Repeat("1,1,0\n", 10)
	ds, err := dataset.LoadCSV(strings.NewReader(input), dataset.DefaultCSVOptions())
	require.NoError(t, err)
	for i := 0; i < ds.Len(); i++ {
		ds.Y.SetVec(i, float64(i))
	}

	train, test, err := dataset.Split(ds, 0.3, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, train.Len())
	assert.Equal(t, 3, test.Len())
	assert.Equal(t, 2, train.Features())

	seen := make(map[float64]bool)
	for _, part := range []*dataset.Dataset{train, test} {
		for i := 0; i < part.Len(); i++ {
			seen[part.Y.AtVec(i)] = true
		}
	}
	assert.Len(t, seen, 10)

	again, _, err := dataset.Split(ds, 0.3, 1)
	require.NoError(t, err)
	assert.Equal(t, train.Y, again.Y)

	all, none, err := dataset.Split(ds, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, all.Len())
	assert.Nil(t, none)

	_, _, err = dataset.Split(ds, 1, 1)
	assert.ErrorIs(t, err, dataset.ErrInvalidTestSize)
}
