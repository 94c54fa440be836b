package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Snapshot captures the board at the end of a session so the next one can
// resume it.
type Snapshot struct {
	ent.Schema
}

func (Snapshot) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.JSON("data", map[string]any{}).
			Comment("Session, tag and active word ids as JSON"),
	}
}
