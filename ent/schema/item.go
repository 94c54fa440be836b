package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Item is a catalog word together with its scheduling state. Answer and
// asked history live in Interaction and AskedEvent.
type Item struct {
	ent.Schema
}

func (Item) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("Catalog slug, e.g. horse"),
		field.Int("position").
			Comment("Catalog order; introduction follows it"),
		field.String("name").
			NotEmpty().
			Comment("English word"),
		field.String("target_name").
			NotEmpty().
			Comment("Nepali word in Devanagari"),
		field.String("romanized").Default(""),
		field.String("image").Default(""),
		field.String("video").Default(""),
		field.String("intro_clip").Default(""),
		field.String("negative_clip").Default(""),
		field.String("where_clip").Default(""),
		field.Strings("tags").
			Optional(),
		field.Time("introduced_at").
			Optional().
			Nillable().
			Comment("Set once the word joins the board"),
		field.Int("last_asked_rank").
			Optional().
			Nillable().
			Comment("Questions since this word was last the target"),
		field.Float("cached_score").
			Optional().
			Nillable().
			Comment("Score folded from answers outside the scoring window"),
		field.Int("cached_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Item) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("position"),
	}
}
