// Package grid generates regular grids over study areas for spatial risk
// computation. Cell centers feed the factor-derivation pipeline so a whole
// slope or valley can be scored instead of a single point.
package grid

import (
	"fmt"
	"math"
)

// kmPerDegLat is the mid-latitude approximation: one degree of latitude
// spans roughly 111 km; longitude shrinks with the cosine of latitude.
const kmPerDegLat = 111.0

// Cell is one grid cell, addressed by row/column and located by its center.
type Cell struct {
	ID       int     `json:"cell_id"`
	RowIndex int     `json:"row_index"`
	ColIndex int     `json:"col_index"`
	Lat      float64 `json:"latitude"`
	Lon      float64 `json:"longitude"`
}

// CellsFromCenter creates a rows×cols grid of cells covering extentKm in
// both directions around a center point. Cell IDs are assigned row-major
// starting at 1.
func CellsFromCenter(centerLat, centerLon, extentKm float64, rows, cols int) ([]Cell, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid: rows and cols must be positive, got %dx%d", rows, cols)
	}
	if extentKm <= 0 {
		return nil, fmt.Errorf("grid: extent must be positive, got %g km", extentKm)
	}

	kmPerDegLon := kmPerDegLat * math.Cos(centerLat*math.Pi/180)

	cellSizeLat := extentKm / float64(rows) / kmPerDegLat
	cellSizeLon := extentKm / float64(cols) / kmPerDegLon

	minLat := centerLat - float64(rows)/2*cellSizeLat
	minLon := centerLon - float64(cols)/2*cellSizeLon

	return generate(minLat, minLon, cellSizeLat, cellSizeLon, rows, cols), nil
}

// CellsFromBounds creates a regular grid inside the given bounds at the
// given resolution in meters. Bounds that are smaller than one cell yield an
// error rather than an empty grid.
func CellsFromBounds(minLat, maxLat, minLon, maxLon, resolutionM float64) ([]Cell, error) {
	if maxLat <= minLat || maxLon <= minLon {
		return nil, fmt.Errorf("grid: invalid bounds [%g,%g]x[%g,%g]", minLat, maxLat, minLon, maxLon)
	}
	if resolutionM <= 0 {
		return nil, fmt.Errorf("grid: resolution must be positive, got %g m", resolutionM)
	}

	centerLat := (minLat + maxLat) / 2
	kmPerDegLon := kmPerDegLat * math.Cos(centerLat*math.Pi/180)

	latExtentM := (maxLat - minLat) * kmPerDegLat * 1000
	lonExtentM := (maxLon - minLon) * kmPerDegLon * 1000

	rows := int(latExtentM / resolutionM)
	cols := int(lonExtentM / resolutionM)
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("grid: bounds smaller than one %gm cell", resolutionM)
	}

	cellSizeLat := (maxLat - minLat) / float64(rows)
	cellSizeLon := (maxLon - minLon) / float64(cols)

	return generate(minLat, minLon, cellSizeLat, cellSizeLon, rows, cols), nil
}

func generate(minLat, minLon, cellSizeLat, cellSizeLon float64, rows, cols int) []Cell {
	cells := make([]Cell, 0, rows*cols)
	id := 1
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cells = append(cells, Cell{
				ID:       id,
				RowIndex: row,
				ColIndex: col,
				Lat:      minLat + (float64(row)+0.5)*cellSizeLat,
				Lon:      minLon + (float64(col)+0.5)*cellSizeLon,
			})
			id++
		}
	}
	return cells
}
