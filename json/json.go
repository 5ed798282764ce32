// Package json provides a JSON codec for artdeco transforms.
package json

import (
	"encoding/json"

	"github.com/zoobzio/artdeco"
)

// ContentType is the MIME type of JSON payloads.
const ContentType = "application/json"

type codec struct{}

// New returns a JSON codec.
func New() artdeco.Codec {
	return codec{}
}

func (codec) ContentType() string {
	return ContentType
}

func (codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Decode decodes JSON arguments into their declared types.
func Decode() *artdeco.Hack {
	return artdeco.Decode(New())
}

// Encode encodes arguments as JSON.
func Encode() *artdeco.Hack {
	return artdeco.Encode(New())
}
