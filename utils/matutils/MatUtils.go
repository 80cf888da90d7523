// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxRow finds and returns the column index of the maximum value in row
// i of a matrix. If multiple equal max values exist, only the first one
// is returned.
func MaxRow(matrix mat.RawMatrixer, i int) int {
	raw := matrix.RawMatrix()
	row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
	return floats.MaxIdx(row)
}
