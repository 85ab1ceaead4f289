package foundico

import (
	"bytes"
	"encoding/json"
)

// FlexString can unmarshal from either a JSON string or number.
// Foundico sends item IDs as both depending on the listing.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	// Try as string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	// Otherwise keep the number's literal text
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ListRequest is the signed body of POST /icos/.
type ListRequest struct {
	Status string `json:"status"`
	Page   int    `json:"page"`
}

// ICO is one listing item.
type ICO struct {
	ID      FlexString `json:"id"`
	Main    Main       `json:"main"`
	Finance Finance    `json:"finance"`
	Links   Links      `json:"links"`
}

// Main holds the project identity block.
type Main struct {
	Name string `json:"name"`
}

// Finance holds the token sale block.
type Finance struct {
	Ticker string `json:"ticker"`
}

// Links holds project links.
type Links struct {
	URL string `json:"url"`
}

// ListResponse is the body of POST /icos/.
type ListResponse struct {
	Data []ICO `json:"data"`
}
