package gallery

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store holds the ordered photo list persisted behind the static site. The
// file is read once at process start and rewritten wholesale by Save; there
// is no partial update path.
type Store struct {
	path   string
	Photos []Photo
}

// LoadStore reads the photo store from path. A missing file yields an empty
// store so first runs work against a fresh content directory.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read photo store: %w", err)
	}

	var doc struct {
		Photos []yaml.Node `yaml:"photos"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse photo store: %w", err)
	}

	for i := range doc.Photos {
		photo, err := photoFromNode(&doc.Photos[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse photo %d: %w", i, err)
		}
		s.Photos = append(s.Photos, photo)
	}

	return s, nil
}

// Path returns the file the store was loaded from.
func (s *Store) Path() string { return s.path }

// HasFilename reports whether a photo with the given original filename is
// already persisted. This is the batch-level at-most-once guard.
func (s *Store) HasFilename(filename string) bool {
	for _, p := range s.Photos {
		if p.Filename == filename {
			return true
		}
	}
	return false
}

// SlugSet returns the set of slugs currently in the store.
func (s *Store) SlugSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Photos))
	for _, p := range s.Photos {
		set[p.Slug] = struct{}{}
	}
	return set
}

// FindByID returns a pointer into the store's photo list, or nil.
func (s *Store) FindByID(id string) *Photo {
	for i := range s.Photos {
		if s.Photos[i].ID == id {
			return &s.Photos[i]
		}
	}
	return nil
}

// Append adds a photo to the in-memory list. Nothing is written until Save.
func (s *Store) Append(p Photo) {
	s.Photos = append(s.Photos, p)
}

// Save serializes the full photo list and writes it once. Every scalar is
// double-quoted, matching the store convention the site's templates consume.
func (s *Store) Save() error {
	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			keyNode("photos"),
			photosNode(s.Photos),
		},
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal photo store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write photo store: %w", err)
	}

	return nil
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: key}
}

func quotedNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: value}
}

func photosNode(photos []Photo) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, p := range photos {
		seq.Content = append(seq.Content, photoToNode(p))
	}
	return seq
}

// photoToNode builds the quoted-scalar mapping for one photo. Optional fields
// are omitted when empty so hand edits stay readable.
func photoToNode(p Photo) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key, value string) {
		m.Content = append(m.Content, keyNode(key), quotedNode(value))
	}

	add("id", p.ID)
	add("filename", p.Filename)
	add("slug", p.Slug)
	add("category", string(p.Category))
	if len(p.Filters) > 0 {
		filters := &yaml.Node{Kind: yaml.SequenceNode}
		for _, f := range p.Filters {
			filters.Content = append(filters.Content, quotedNode(f))
		}
		m.Content = append(m.Content, keyNode("filters"), filters)
	}
	if p.Species != "" {
		add("species", p.Species)
	}
	if p.Location != "" {
		add("location", p.Location)
	}
	add("title", p.Title)
	add("description", p.Description)
	if p.InstagramCaption != "" {
		add("instagram_caption", p.InstagramCaption)
	}
	if p.DateTaken != "" {
		add("date_taken", p.DateTaken)
	}
	add("available_for_print", strconv.FormatBool(p.AvailableForPrint))
	if p.CloudinaryID != "" {
		add("cloudinary_id", p.CloudinaryID)
	}
	if p.Width > 0 {
		add("width", strconv.Itoa(p.Width))
	}
	if p.Height > 0 {
		add("height", strconv.Itoa(p.Height))
	}

	return m
}

// photoFromNode decodes one photo mapping. Scalars are read from the raw node
// values so both quoted ("true", "3200") and plain (true, 3200) forms load.
func photoFromNode(n *yaml.Node) (Photo, error) {
	var p Photo
	if n.Kind != yaml.MappingNode {
		return p, fmt.Errorf("expected mapping, got yaml kind %d", n.Kind)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := n.Content[i+1]

		switch key {
		case "id":
			p.ID = val.Value
		case "filename":
			p.Filename = val.Value
		case "slug":
			p.Slug = val.Value
		case "category":
			p.Category = Category(val.Value)
		case "filters":
			for _, f := range val.Content {
				p.Filters = append(p.Filters, f.Value)
			}
		case "species":
			p.Species = val.Value
		case "location":
			p.Location = val.Value
		case "title":
			p.Title = val.Value
		case "description":
			p.Description = val.Value
		case "instagram_caption":
			p.InstagramCaption = val.Value
		case "date_taken":
			p.DateTaken = val.Value
		case "available_for_print":
			b, err := strconv.ParseBool(val.Value)
			if err != nil {
				return p, fmt.Errorf("invalid available_for_print %q: %w", val.Value, err)
			}
			p.AvailableForPrint = b
		case "cloudinary_id":
			p.CloudinaryID = val.Value
		case "width":
			w, err := strconv.Atoi(val.Value)
			if err != nil {
				return p, fmt.Errorf("invalid width %q: %w", val.Value, err)
			}
			p.Width = w
		case "height":
			h, err := strconv.Atoi(val.Value)
			if err != nil {
				return p, fmt.Errorf("invalid height %q: %w", val.Value, err)
			}
			p.Height = h
		}
	}

	return p, nil
}
