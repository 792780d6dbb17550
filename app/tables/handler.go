package tables

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/oreilm49/specs/app/pivot"
	"github.com/oreilm49/specs/models"
)

type TableResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query,omitempty"`
}

type CellResponse struct {
	Model       string `json:"model,omitempty"`
	XGroup      string `json:"x_group,omitempty"`
	YGroup      string `json:"y_group,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type RowResponse struct {
	Key   string         `json:"key"`
	Cells []CellResponse `json:"cells"`
}

type GridResponse struct {
	ID   uint          `json:"id"`
	Name string        `json:"name"`
	Rows []RowResponse `json:"rows"`
}

type TableProvider interface {
	Get(id uint) (*models.CategoryTable, error)
	Save(table *models.CategoryTable) error
	Delete(table *models.CategoryTable) error
	Search(filters models.TableFilters) ([]models.CategoryTable, error)
	AttributeType(id uint) (*models.AttributeType, error)
}

type GridBuilder interface {
	BuildForTable(table *models.CategoryTable) (pivot.Table, error)
	ValidateAxisValues(attributeType *models.AttributeType, values []string) error
}

type TablesHandler struct {
	repo    TableProvider
	builder GridBuilder
}

func NewTablesHandler(repo TableProvider, builder GridBuilder) *TablesHandler {
	return &TablesHandler{
		repo:    repo,
		builder: builder,
	}
}

func (h *TablesHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	filters := models.TableFilters{
		Query: r.URL.Query().Get("query"),
	}
	if cStr := r.URL.Query().Get("category"); cStr != "" {
		if c, err := strconv.ParseUint(cStr, 10, 64); err == nil {
			id := uint(c)
			filters.CategoryID = &id
		}
	}

	res, err := h.repo.Search(filters)
	if err != nil {
		http.Error(w, "failed to fetch tables", http.StatusInternalServerError)
		return
	}

	tables := make([]TableResponse, len(res))
	for i, table := range res {
		tables[i] = TableResponse{
			ID:    table.ID,
			Name:  table.Name,
			Query: table.Query,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tables); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TablesHandler) HandleGetGrid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid table id", http.StatusBadRequest)
		return
	}

	table, err := h.repo.Get(uint(id))
	if err != nil {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	grid, err := h.builder.BuildForTable(table)
	if err != nil {
		var missing *pivot.MissingAxisValueError
		if errors.As(err, &missing) {
			http.Error(w, missing.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to build table", http.StatusInternalServerError)
		return
	}

	rows := make([]RowResponse, len(grid.Rows))
	for i, row := range grid.Rows {
		cells := make([]CellResponse, len(row.Cells))
		for j, cell := range row.Cells {
			if cell.Placeholder {
				cells[j] = CellResponse{Placeholder: true, YGroup: cell.YGroup}
				continue
			}
			cells[j] = CellResponse{
				Model:  cell.Product.Model,
				XGroup: cell.XGroup,
				YGroup: cell.YGroup,
			}
		}
		rows[i] = RowResponse{Key: row.Key, Cells: cells}
	}

	w.Header().Set("Content-Type", "application/json")
	response := GridResponse{
		ID:   table.ID,
		Name: table.Name,
		Rows: rows,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TablesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name             string   `json:"name"`
		CategoryID       *uint    `json:"category_id"`
		XAxisAttributeID *uint    `json:"x_axis_attribute_id"`
		XAxisValues      []string `json:"x_axis_values"`
		YAxisAttributeID *uint    `json:"y_axis_attribute_id"`
		YAxisValues      []string `json:"y_axis_values"`
		Query            string   `json:"query"`
		PriceLow         *float64 `json:"price_low"`
		PriceHigh        *float64 `json:"price_high"`
		Brands           []string `json:"brands"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if input.Name == "" {
		http.Error(w, "Missing table name", http.StatusBadRequest)
		return
	}

	for _, axis := range []struct {
		attributeID *uint
		values      []string
	}{
		{input.XAxisAttributeID, input.XAxisValues},
		{input.YAxisAttributeID, input.YAxisValues},
	} {
		if axis.attributeID == nil {
			continue
		}
		attributeType, err := h.repo.AttributeType(*axis.attributeID)
		if err != nil {
			http.Error(w, "Attribute type not found", http.StatusBadRequest)
			return
		}
		if err := h.builder.ValidateAxisValues(attributeType, axis.values); err != nil {
			var missing *pivot.MissingAxisValueError
			if errors.As(err, &missing) {
				http.Error(w, missing.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to validate axis values", http.StatusInternalServerError)
			return
		}
	}

	table := &models.CategoryTable{
		BaseModel:        models.BaseModel{Publish: true},
		Name:             input.Name,
		CategoryID:       input.CategoryID,
		XAxisAttributeID: input.XAxisAttributeID,
		XAxisValues:      datatypes.JSONSlice[string](input.XAxisValues),
		YAxisAttributeID: input.YAxisAttributeID,
		YAxisValues:      datatypes.JSONSlice[string](input.YAxisValues),
		Query:            input.Query,
		PriceLow:         input.PriceLow,
		PriceHigh:        input.PriceHigh,
		Brands:           pq.StringArray(input.Brands),
	}

	if err := h.repo.Save(table); err != nil {
		http.Error(w, "Failed to create table", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"id":      table.ID,
		"message": "Table created successfully",
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *TablesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid table id", http.StatusBadRequest)
		return
	}

	table, err := h.repo.Get(uint(id))
	if err != nil {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}

	if err := h.repo.Delete(table); err != nil {
		http.Error(w, "Failed to delete table", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
