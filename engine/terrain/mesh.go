package terrain

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tides/common"
)

const (
	// DefaultSteps is the number of lattice points along each axis.
	DefaultSteps = 800

	// DefaultBounds is the half extent of the grid on X and Z.
	DefaultBounds float32 = 8

	// rowsPerTask groups lattice rows into one pool task.
	rowsPerTask = 32
)

var (
	// ErrTooFewSteps is returned when steps is below 2.
	ErrTooFewSteps = errors.New("terrain: steps must be at least 2")

	// ErrInvalidBounds is returned when bounds is not a positive finite number.
	ErrInvalidBounds = errors.New("terrain: bounds must be positive")

	// ErrTooManyVertices is returned when the vertex count does not fit in uint32 indices.
	ErrTooManyVertices = errors.New("terrain: vertex count exceeds uint32 index range")
)

var (
	rowPoolOnce sync.Once
	rowPool     worker.DynamicWorkerPool
)

// rows returns the pool shared by every Generate call. Workers of this pool never exit,
// so it is created once and kept for the life of the process.
func rows() worker.DynamicWorkerPool {
	rowPoolOnce.Do(func() {
		rowPool = worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), 256, 1*time.Second)
	})
	return rowPool
}

// Mesh is a flat square grid in the XZ plane at Y = 0. It is immutable once generated.
type Mesh struct {
	// Vertices holds xyz triplets; lattice point (i, j) starts at 3*(i*Steps+j).
	Vertices []float32

	// Indices holds two triangles per grid cell.
	Indices []uint32

	Steps  int
	Bounds float32
}

// VertexCount returns the number of lattice points.
//
// Returns:
//   - int: Steps squared
func (m Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
//
// Returns:
//   - int: 2 * (Steps-1) squared
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexBytes returns the vertex data as raw bytes for a vertex buffer upload.
//
// Returns:
//   - []byte: a view over Vertices
func (m Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index data as raw bytes for an index buffer upload.
//
// Returns:
//   - []byte: a view over Indices
func (m Mesh) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

// Generate builds the steps x steps lattice over [-bounds, bounds] on X and Z.
// Lattice point (i, j) sits at (-bounds + i*d, 0, -bounds + j*d) with d = 2*bounds/(steps-1).
// Each cell with corners bl=(i,j), tl=(i,j+1), tr=(i+1,j+1), br=(i+1,j) yields the
// triangles (bl, tl, br) and (tl, br, tr).
//
// Rows are filled in parallel on a worker pool; the result does not depend on scheduling.
//
// Parameters:
//   - bounds: half extent of the grid
//   - steps: lattice points per axis
//
// Returns:
//   - Mesh: the generated grid
//   - error: error if the parameters are out of range
func Generate(bounds float32, steps int) (Mesh, error) {
	if steps < 2 {
		return Mesh{}, fmt.Errorf("%w: got %d", ErrTooFewSteps, steps)
	}
	if !(bounds > 0) || math.IsInf(float64(bounds), 0) {
		return Mesh{}, fmt.Errorf("%w: got %v", ErrInvalidBounds, bounds)
	}
	if uint64(steps)*uint64(steps) > math.MaxUint32 {
		return Mesh{}, fmt.Errorf("%w: %d steps", ErrTooManyVertices, steps)
	}

	cells := steps - 1
	m := Mesh{
		Vertices: make([]float32, steps*steps*3),
		Indices:  make([]uint32, cells*cells*6),
		Steps:    steps,
		Bounds:   bounds,
	}
	d := 2 * float64(bounds) / float64(cells)

	pool := rows()
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < steps; start += rowsPerTask {
		end := min(start+rowsPerTask, steps)
		wg.Add(1)
		id := taskID
		taskID++
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					fillRow(&m, i, d)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return m, nil
}

// fillRow writes the vertices of lattice row i and, except for the last row, the
// triangles of the cells between rows i and i+1. Rows touch disjoint slice ranges.
func fillRow(m *Mesh, i int, d float64) {
	s := m.Steps
	b := float64(m.Bounds)
	x := float32(-b + float64(i)*d)
	for j := range s {
		v := (i*s + j) * 3
		m.Vertices[v] = x
		m.Vertices[v+1] = 0
		m.Vertices[v+2] = float32(-b + float64(j)*d)
	}

	if i == s-1 {
		return
	}
	cells := s - 1
	for j := range cells {
		bl := uint32(i*s + j)
		tl := uint32(i*s + j + 1)
		tr := uint32((i+1)*s + j + 1)
		br := uint32((i+1)*s + j)

		k := (i*cells + j) * 6
		m.Indices[k] = bl
		m.Indices[k+1] = tl
		m.Indices[k+2] = br
		m.Indices[k+3] = tl
		m.Indices[k+4] = br
		m.Indices[k+5] = tr
	}
}
