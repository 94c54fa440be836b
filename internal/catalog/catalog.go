// Package catalog reads and writes word catalogs: the ordered list of items
// a learner works through, with their media and narration clip names.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Catalog is an ordered set of entries. Order is introduction order.
type Catalog struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Items       []Entry `yaml:"items"`
}

// Entry is one word in a catalog file.
type Entry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	NepaliName string   `yaml:"nepali_name"`
	Romanized  string   `yaml:"romanized,omitempty"`
	Image      string   `yaml:"image,omitempty"`
	Video      string   `yaml:"video,omitempty"`
	Clips      *Clips   `yaml:"clips,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
}

// Clips overrides the conventional clip names for an entry.
type Clips struct {
	Intro    string `yaml:"intro,omitempty"`
	Negative string `yaml:"negative,omitempty"`
	WhereIs  string `yaml:"where_is,omitempty"`
}

// DefaultClips returns the conventional clip names for a word.
func DefaultClips(name string) Clips {
	slug := Slug(name)
	return Clips{
		Intro:    "this_is_a-" + slug,
		Negative: "negative_response_" + slug,
		WhereIs:  "where_is_" + slug,
	}
}

// ResolvedClips returns the entry's clips with conventional names filling
// any gaps.
func (e Entry) ResolvedClips() Clips {
	c := DefaultClips(e.Name)
	if e.Clips == nil {
		return c
	}
	if e.Clips.Intro != "" {
		c.Intro = e.Clips.Intro
	}
	if e.Clips.Negative != "" {
		c.Negative = e.Clips.Negative
	}
	if e.Clips.WhereIs != "" {
		c.WhereIs = e.Clips.WhereIs
	}
	return c
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases a name and joins its words with underscores.
func Slug(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(s, "_")
}

// Builtin returns the starter catalog shipped with the binary.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin catalog is invalid: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML. Missing ids default to the
// slug of the English name.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i := range c.Items {
		if c.Items[i].ID == "" {
			c.Items[i].ID = Slug(c.Items[i].Name)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every entry and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	ids := make(map[string]int, len(c.Items))
	targets := make(map[string]int, len(c.Items))

	for i, e := range c.Items {
		where := fmt.Sprintf("item %d", i+1)
		if e.ID != "" {
			where = fmt.Sprintf("item %d (%s)", i+1, e.ID)
		}
		if e.ID == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", where))
		}
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		}
		if strings.TrimSpace(e.NepaliName) == "" {
			errs = append(errs, fmt.Errorf("%s: nepali_name is required", where))
		}
		if prev, ok := ids[e.ID]; ok && e.ID != "" {
			errs = append(errs, fmt.Errorf("%s: duplicate id, first used by item %d", where, prev))
		} else {
			ids[e.ID] = i + 1
		}
		if prev, ok := targets[e.NepaliName]; ok && e.NepaliName != "" {
			errs = append(errs, fmt.Errorf("%s: nepali_name %q already used by item %d", where, e.NepaliName, prev))
		} else {
			targets[e.NepaliName] = i + 1
		}
	}
	return errors.Join(errs...)
}

// Write encodes the catalog as YAML.
func (c *Catalog) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// Filter returns a copy containing only entries that carry tag. An empty
// tag returns every entry.
func (c *Catalog) Filter(tag string) *Catalog {
	out := &Catalog{Name: c.Name, Description: c.Description}
	for _, e := range c.Items {
		if tag == "" || hasTag(e.Tags, tag) {
			out.Items = append(out.Items, e)
		}
	}
	return out
}

// Tags lists the distinct tags in first-seen order.
func (c *Catalog) Tags() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range c.Items {
		for _, t := range e.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Item converts an entry into a tutor item with no learning history.
func (e Entry) Item() *tutor.Item {
	c := e.ResolvedClips()
	return &tutor.Item{
		ID:         tutor.ItemID(e.ID),
		Name:       e.Name,
		TargetName: e.NepaliName,
		Romanized:  e.Romanized,
		Image:      e.Image,
		Video:      e.Video,
		Clips:      tutor.Clips{Intro: c.Intro, Negative: c.Negative, WhereIs: c.WhereIs},
		Tags:       append([]string(nil), e.Tags...),
	}
}

// TutorItems converts every entry in order.
func (c *Catalog) TutorItems() []*tutor.Item {
	out := make([]*tutor.Item, len(c.Items))
	for i, e := range c.Items {
		out[i] = e.Item()
	}
	return out
}

// FromItems builds a catalog from tutor items, omitting clip names that
// follow the convention.
func FromItems(name string, items []*tutor.Item) *Catalog {
	c := &Catalog{Name: name}
	for _, it := range items {
		e := Entry{
			ID:         string(it.ID),
			Name:       it.Name,
			NepaliName: it.TargetName,
			Romanized:  it.Romanized,
			Image:      it.Image,
			Video:      it.Video,
			Tags:       append([]string(nil), it.Tags...),
		}
		def := DefaultClips(it.Name)
		if it.Clips.Intro != def.Intro || it.Clips.Negative != def.Negative || it.Clips.WhereIs != def.WhereIs {
			e.Clips = &Clips{Intro: it.Clips.Intro, Negative: it.Clips.Negative, WhereIs: it.Clips.WhereIs}
		}
		c.Items = append(c.Items, e)
	}
	return c
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
