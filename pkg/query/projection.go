// Package query provides SQL query construction utilities with projection
// mapping between view fields and database columns.
package query

import "strings"

// ProjectionMap translates view field names to aliased database columns for
// a single table. Projections are registered in the order they should appear
// in SELECT clauses.
type ProjectionMap struct {
	schema string
	table  string
	alias  string
	fields []string
	cols   map[string]string
}

// NewProjectionMap creates a ProjectionMap for schema.table with the given alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		cols:   make(map[string]string),
	}
}

// Project registers a column under a view field name and returns the map for chaining.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	p.fields = append(p.fields, field)
	p.cols[field] = p.alias + "." + column
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the aliased table reference for FROM clauses.
func (p *ProjectionMap) Table() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column returns the aliased column for a view field. Unknown fields are
// returned unchanged so callers can pass raw SQL expressions deliberately.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.cols[field]; ok {
		return col
	}
	return field
}

// Columns returns all projected columns joined for a SELECT clause.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns all projected columns in registration order.
func (p *ProjectionMap) ColumnList() []string {
	list := make([]string, len(p.fields))
	for i, f := range p.fields {
		list[i] = p.cols[f]
	}
	return list
}
