// Package yaml provides a YAML codec for artdeco transforms.
package yaml

import (
	"github.com/zoobzio/artdeco"
	"gopkg.in/yaml.v3"
)

// ContentType is the MIME type of YAML payloads.
const ContentType = "application/yaml"

type codec struct{}

// New returns a YAML codec.
func New() artdeco.Codec {
	return codec{}
}

func (codec) ContentType() string {
	return ContentType
}

func (codec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// Decode decodes YAML arguments into their declared types.
func Decode() *artdeco.Hack {
	return artdeco.Decode(New())
}

// Encode encodes arguments as YAML.
func Encode() *artdeco.Hack {
	return artdeco.Encode(New())
}
