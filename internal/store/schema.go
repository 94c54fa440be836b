package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/nepaligpa/ent/schema"
)

// Table names.
const (
	tableItems        = "items"
	tableInteractions = "interactions"
	tableAsked        = "asked_events"
	tableSessions     = "session_events"
	tableSnapshots    = "snapshots"
	tableLLMRequests  = "llm_request_events"
)

// entities maps every table to its ent schema. The migrator builds the
// tables from these declarations.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableItems, entschema.Item{}},
	{tableInteractions, entschema.Interaction{}},
	{tableAsked, entschema.AskedEvent{}},
	{tableSessions, entschema.SessionEvent{}},
	{tableSnapshots, entschema.Snapshot{}},
	{tableLLMRequests, entschema.LLMRequestEvent{}},
}

// buildTables converts the ent schemas into migration tables.
func buildTables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := buildTable(e.table, e.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", e.table, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func buildTable(name string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &schema.Table{Name: name}
	byName := map[string]*schema.Column{}
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		c := column(d)
		if c.Name == "id" {
			t.PrimaryKey = []*schema.Column{c}
			t.Columns = append([]*schema.Column{c}, t.Columns...)
		} else {
			t.Columns = append(t.Columns, c)
		}
		byName[c.Name] = c
	}

	// Schemas without an explicit id get ent's auto-increment int key.
	if t.PrimaryKey == nil {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.PrimaryKey = []*schema.Column{id}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   name + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, f := range d.Fields {
			c, ok := byName[f]
			if !ok {
				return nil, fmt.Errorf("index on unknown field %q", f)
			}
			idx.Columns = append(idx.Columns, c)
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t, nil
}

// column maps a field descriptor the way ent's generated migration does:
// optional fields are nullable and literal defaults become column defaults.
func column(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
		Size:     int64(d.Size),
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	switch v := d.Default.(type) {
	case string, bool, int, int64, float64:
		c.Default = v
	}
	return c
}
