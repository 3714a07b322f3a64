// Package beer defines the catalog record carried through the inventory job.
package beer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a catalog record. The catalog sends ids as JSON strings or
// numbers; both decode to the same textual form.
type ID string

// UnmarshalJSON implements json.Unmarshaler. null leaves the ID empty.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("id must be a string or a number: %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Beer is one catalog entry. Records are decoded from the catalog response
// and passed through the job unchanged.
type Beer struct {
	ID           ID            `json:"id"`
	Name         string        `json:"name"`
	ReleaseDate  string        `json:"releaseDate"`
	Manufacturer *Manufacturer `json:"manufacturer,omitempty"`
}

// Manufacturer is the brewery that produces a Beer.
type Manufacturer struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// String implements fmt.Stringer.
func (b Beer) String() string {
	return fmt.Sprintf("Beer[id=%s name=%s releaseDate=%s manufacturer=%s]",
		b.ID, b.Name, b.ReleaseDate, b.Manufacturer)
}

// String implements fmt.Stringer. A nil Manufacturer prints as "none".
func (m *Manufacturer) String() string {
	if m == nil {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Country)
}
