package onepassword

import "time"

// VaultRef identifies the vault an item lives in.
type VaultRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Section groups custom fields on an item.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Field is a single item field as returned by `op item get --format json`.
type Field struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Purpose string   `json:"purpose,omitempty"`
	Label   string   `json:"label"`
	Value   string   `json:"value,omitempty"`
	Section *Section `json:"section,omitempty"`
}

// ItemSummary is an entry of `op item list --format json`.
type ItemSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Vault     VaultRef  `json:"vault"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is a full vault item including its field values.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Vault     VaultRef  `json:"vault"`
	Fields    []Field   `json:"fields"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FieldByID returns the field with the given id.
func (i *Item) FieldByID(id string) (Field, bool) {
	for _, f := range i.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldByLabel returns the first field with the given label.
func (i *Item) FieldByLabel(label string) (Field, bool) {
	for _, f := range i.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// Notes returns the secret block stored in the item's notes.
func (i *Item) Notes() string {
	f, _ := i.FieldByID(NotesFieldID)
	return f.Value
}

// FileName returns the target env file recorded on the item, if any.
func (i *Item) FileName() string {
	f, _ := i.FieldByLabel(FileNameLabel)
	return f.Value
}
