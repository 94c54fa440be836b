package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AskedEvent records that a word was made the question target.
type AskedEvent struct {
	ent.Schema
}

func (AskedEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AskedEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").Default(""),
		field.String("item_id").NotEmpty(),
		field.Time("asked_at"),
	}
}

func (AskedEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("item_id"),
	}
}
