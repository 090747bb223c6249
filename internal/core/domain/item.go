package domain

import "encoding/json"

// RepoURLPrefix is prepended to a repository name to form its link.
const RepoURLPrefix = "https://github.com/"

// Item is a canonical discovered repository.
// The link is derived from Name on demand and never stored.
type Item struct {
	// Name is the repository full name ("owner/repo") without highlight markup.
	Name string

	// Description is the description as delivered by the source.
	Description string

	// Language is the primary language, if known.
	Language string

	// Stars is the star count, if known.
	Stars int
}

// LinkFor returns the browser link for a repository name.
func LinkFor(name string) string {
	return RepoURLPrefix + name
}

// Link returns the browser link for the item.
func (i Item) Link() string {
	return LinkFor(i.Name)
}

// Key returns the dedup key for the item.
func (i Item) Key() string {
	return RepoKey(i.Name)
}

type itemJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars,omitempty"`
}

// MarshalJSON encodes the item with its derived link.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		Name:        i.Name,
		Description: i.Description,
		Link:        i.Link(),
		Language:    i.Language,
		Stars:       i.Stars,
	})
}

// UnmarshalJSON decodes an item. Any link in the input is ignored.
func (i *Item) UnmarshalJSON(data []byte) error {
	var v itemJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = Item{
		Name:        v.Name,
		Description: v.Description,
		Language:    v.Language,
		Stars:       v.Stars,
	}
	return nil
}
