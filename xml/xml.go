// Package xml provides an XML codec for artdeco transforms.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/artdeco"
)

// ContentType is the MIME type of XML payloads.
const ContentType = "application/xml"

type codec struct{}

// New returns an XML codec.
func New() artdeco.Codec {
	return codec{}
}

func (codec) ContentType() string {
	return ContentType
}

func (codec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// Decode decodes XML arguments into their declared types.
func Decode() *artdeco.Hack {
	return artdeco.Decode(New())
}

// Encode encodes arguments as XML.
func Encode() *artdeco.Hack {
	return artdeco.Encode(New())
}
