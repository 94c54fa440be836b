package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Interaction records one answered question.
type Interaction struct {
	ent.Schema
}

func (Interaction) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Interaction) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Default("").
			Comment("Links to SessionEvent; empty outside a session"),
		field.String("item_id").
			NotEmpty().
			Comment("Target word of the question"),
		field.String("outcome").
			NotEmpty().
			Comment("correct, incorrect or skipped"),
		field.Int("attempts").
			Comment("Wrong picks before the answer"),
		field.Time("answered_at").
			Comment("Learner clock at answer time"),
	}
}

func (Interaction) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("item_id"),
	}
}
