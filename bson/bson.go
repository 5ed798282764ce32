// Package bson provides a BSON codec for artdeco transforms.
package bson

import (
	"github.com/zoobzio/artdeco"
	"go.mongodb.org/mongo-driver/bson"
)

// ContentType is the MIME type of BSON payloads.
const ContentType = "application/bson"

type codec struct{}

// New returns a BSON codec.
func New() artdeco.Codec {
	return codec{}
}

func (codec) ContentType() string {
	return ContentType
}

func (codec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// Decode decodes BSON arguments into their declared types.
func Decode() *artdeco.Hack {
	return artdeco.Decode(New())
}

// Encode encodes arguments as BSON.
func Encode() *artdeco.Hack {
	return artdeco.Encode(New())
}
