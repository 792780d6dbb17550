package pivot

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/oreilm49/specs/models"
)

// similarityThreshold is the price distance, in integer percent of the
// current column floor, under which products share a column. The threshold
// and its tie-break are the documented design target, not a certified one.
const similarityThreshold = 5

// Item is one product entering the pivot build, with its axis groupers
// already computed.
type Item struct {
	Product *models.Product
	Price   decimal.Decimal
	XGroup  string
	HasX    bool
	YGroup  string
	HasY    bool
}

// Cell is one grid position: a product entry or an alignment placeholder.
type Cell struct {
	Product     *models.Product
	XGroup      string
	YGroup      string
	Placeholder bool
}

// Row is an ordered list of cells under one y-axis bucket.
type Row struct {
	Key   string
	Cells []Cell
}

// Table is the built grid, rows in declared y-bucket order.
type Table struct {
	Rows []Row
}

// builderState is the running clustering state: the column being filled,
// the price of the first product placed in it, and the row that product
// belongs to.
type builderState struct {
	column   int
	floor    decimal.Decimal
	floorRow string
	started  bool
}

// BuildTable walks the items in ascending price order and packs them into
// the minimal number of columns within the price-similarity threshold,
// padding other rows with placeholders so columns stay aligned. Items with
// no y grouper are dropped. With no y buckets configured the result is a
// single unkeyed row in price order.
func BuildTable(items []Item, yBuckets []string) Table {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.LessThan(sorted[j].Price)
	})

	if len(yBuckets) == 0 {
		row := Row{}
		for _, item := range sorted {
			row.Cells = append(row.Cells, cellFor(item))
		}
		return Table{Rows: []Row{row}}
	}

	rows := make([]Row, len(yBuckets))
	index := make(map[string]int, len(yBuckets))
	for i, bucket := range yBuckets {
		rows[i] = Row{Key: bucket}
		index[bucket] = i
	}

	var state builderState
	for _, item := range sorted {
		if !item.HasY {
			continue
		}
		rowIdx, ok := index[item.YGroup]
		if !ok {
			continue
		}
		if !state.started {
			rows[rowIdx].Cells = append(rows[rowIdx].Cells, cellFor(item))
			state = builderState{floor: item.Price, floorRow: item.YGroup, started: true}
			continue
		}

		pct := percentAboveFloor(item.Price, state.floor)
		switch {
		case pct <= similarityThreshold && item.YGroup == state.floorRow && len(rows[rowIdx].Cells) > state.column:
			// within threshold but the floor row already reached this
			// column: split rather than stretch the column
			newColumn(rows, rowIdx, item, &state)
		case pct <= similarityThreshold:
			rows[rowIdx].Cells = append(rows[rowIdx].Cells, cellFor(item))
		default:
			newColumn(rows, rowIdx, item, &state)
			state.floorRow = item.YGroup
		}
	}

	equalize(rows)
	return Table{Rows: rows}
}

// newColumn pads every other row lacking a cell at the current column
// index, advances the index, places the item and resets the column floor.
func newColumn(rows []Row, rowIdx int, item Item, state *builderState) {
	for i := range rows {
		if i == rowIdx {
			continue
		}
		for len(rows[i].Cells) <= state.column {
			rows[i].Cells = append(rows[i].Cells, Cell{Placeholder: true, YGroup: rows[i].Key})
		}
	}
	state.column++
	rows[rowIdx].Cells = append(rows[rowIdx].Cells, cellFor(item))
	state.floor = item.Price
}

// percentAboveFloor is ((price - floor) * 100) / floor with truncating
// integer division. A zero floor forces a new column for any higher price.
func percentAboveFloor(price, floor decimal.Decimal) int64 {
	if floor.IsZero() {
		if price.IsZero() {
			return 0
		}
		return similarityThreshold + 1
	}
	return price.Sub(floor).Mul(decimal.NewFromInt(100)).Div(floor).IntPart()
}

// equalize pads every row to the longest row's length so the grid renders
// rectangular.
func equalize(rows []Row) {
	max := 0
	for i := range rows {
		if len(rows[i].Cells) > max {
			max = len(rows[i].Cells)
		}
	}
	for i := range rows {
		for len(rows[i].Cells) < max {
			rows[i].Cells = append(rows[i].Cells, Cell{Placeholder: true, YGroup: rows[i].Key})
		}
	}
}

func cellFor(item Item) Cell {
	return Cell{Product: item.Product, XGroup: item.XGroup, YGroup: item.YGroup}
}
