package bandit

import (
	"fmt"
	"math"
)

// y = A * x
func matVecMul(A [][]float64, x []float64) []float64 {
	y := make([]float64, len(A))
	for i := range A {
		sum := 0.0
		for j := range A[i] {
			sum += A[i][j] * x[j]
		}
		y[i] = sum
	}
	return y
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// A := A + x x^T
func addOuter(A [][]float64, x []float64) {
	for i := range A {
		for j := range A[i] {
			A[i][j] += x[i] * x[j]
		}
	}
}

// b := b + r x
func addScaled(b []float64, x []float64, r float64) {
	for i := range b {
		b[i] += r * x[i]
	}
}

// identityScaled returns s * I of the given dimension.
func identityScaled(dim int, s float64) [][]float64 {
	A := make([][]float64, dim)
	for i := range A {
		A[i] = make([]float64, dim)
		A[i][i] = s
	}
	return A
}

// invert inverts a square matrix using Gauss-Jordan elimination.
func invert(A [][]float64) ([][]float64, error) {
	n := len(A)

	// Build augmented [A | I]
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], A[i])
		aug[i][n+i] = 1.0
	}

	for col := 0; col < n; col++ {
		pivot := aug[col][col]
		if math.Abs(pivot) < 1e-9 {
			return nil, fmt.Errorf("matrix is singular")
		}

		// Normalize pivot row
		for j := 0; j < 2*n; j++ {
			aug[col][j] /= pivot
		}

		// Eliminate other rows
		for i := 0; i < n; i++ {
			if i == col {
				continue
			}
			factor := aug[i][col]
			for j := 0; j < 2*n; j++ {
				aug[i][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}

func copyMatrix(A [][]float64) [][]float64 {
	out := make([][]float64, len(A))
	for i := range A {
		out[i] = make([]float64, len(A[i]))
		copy(out[i], A[i])
	}
	return out
}

func copyVector(b []float64) []float64 {
	out := make([]float64, len(b))
	copy(out, b)
	return out
}
