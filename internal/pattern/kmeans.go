package pattern

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	// kmeansSeed fixes centroid initialization so identical event sets always
	// produce identical cluster assignments.
	kmeansSeed    = 42
	maxIterations = 100
)

// kmeans partitions points into k clusters with Lloyd's algorithm and returns
// one label per point plus the final centroids. Initialization, assignment
// tie-breaks, and empty-cluster handling are all deterministic, so repeated
// runs over the same input give the same labels.
func kmeans(points [][]float64, k int) ([]int, [][]float64, error) {
	if len(points) == 0 {
		return nil, nil, fmt.Errorf("kmeans: no points")
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("kmeans: k must be >= 1, got %d", k)
	}
	if k > len(points) {
		return nil, nil, fmt.Errorf("kmeans: k=%d exceeds point count %d", k, len(points))
	}

	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return nil, nil, fmt.Errorf("kmeans: point %d has %d dims, expected %d", i, len(p), dims)
		}
	}

	// Seeded permutation picks the initial centroids.
	rng := rand.New(rand.NewSource(kmeansSeed))
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		// Assignment step. Ties go to the lowest centroid index.
		for i, p := range points {
			best := 0
			bestDist := euclidean(p, centroids[0])
			for c := 1; c < k; c++ {
				if d := euclidean(p, centroids[c]); d < bestDist {
					best = c
					bestDist = d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		// Update step.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster with the point farthest from its
				// current centroid (first such point on ties).
				centroids[c] = append([]float64(nil), farthestPoint(points, labels, centroids)...)
				changed = true
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	return labels, centroids, nil
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func farthestPoint(points [][]float64, labels []int, centroids [][]float64) []float64 {
	bestIdx := 0
	bestDist := -1.0
	for i, p := range points {
		d := euclidean(p, centroids[labels[i]])
		if d > bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	return points[bestIdx]
}
