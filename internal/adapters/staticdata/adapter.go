// Package staticdata serves the bundled offline property dataset.
package staticdata

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"anjia-property-service/internal/core/domain"
)

//go:embed data/properties.json
var bundledDataset []byte

//go:embed data/properties.schema.json
var datasetSchema []byte

const schemaURL = "https://anjia.co.ug/schemas/static-properties/v1.json"

// StaticDatasetAdapter is a read-only source backed by an in-memory dataset.
type StaticDatasetAdapter struct {
	records []domain.StaticRecord
	byID    map[string]int
}

// NewStaticDatasetAdapter loads the bundled dataset.
func NewStaticDatasetAdapter() (*StaticDatasetAdapter, error) {
	return NewStaticDatasetAdapterFromJSON(bundledDataset)
}

// NewStaticDatasetAdapterFromJSON validates data against the dataset schema before
// loading it, so a broken dataset fails at startup rather than at request time.
func NewStaticDatasetAdapterFromJSON(data []byte) (*StaticDatasetAdapter, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var records []domain.StaticRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode static dataset: %w", err)
	}

	a := &StaticDatasetAdapter{
		records: records,
		byID:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		if _, dup := a.byID[r.ID]; dup {
			return nil, fmt.Errorf("static dataset: duplicate id %q", r.ID)
		}
		a.byID[r.ID] = i
	}
	return a, nil
}

func validate(data []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(datasetSchema)); err != nil {
		return fmt.Errorf("load static dataset schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile static dataset schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("static dataset is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("static dataset schema validation failed: %w", err)
	}
	return nil
}

func (a *StaticDatasetAdapter) Name() domain.Source {
	return domain.SourceStatic
}

// FetchOne matches the id exactly.
func (a *StaticDatasetAdapter) FetchOne(ctx context.Context, id string) (domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := a.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, domain.NewNotFoundError(domain.SourceStatic, id)
	}
	return a.records[i], nil
}

// FetchMany returns the whole dataset; filtering and paging happen in the pipeline.
func (a *StaticDatasetAdapter) FetchMany(ctx context.Context, _ domain.FilterSet, _, _ int) (*domain.RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items := make([]domain.RawRecord, len(a.records))
	for i, r := range a.records {
		items[i] = r
	}
	return &domain.RawPage{Items: items}, nil
}

// Len is the number of records in the dataset.
func (a *StaticDatasetAdapter) Len() int {
	return len(a.records)
}
