// Package msgpack provides a MessagePack codec for artdeco transforms.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/artdeco"
)

// ContentType is the MIME type of MessagePack payloads.
const ContentType = "application/msgpack"

type codec struct{}

// New returns a MessagePack codec.
func New() artdeco.Codec {
	return codec{}
}

func (codec) ContentType() string {
	return ContentType
}

func (codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (codec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Decode decodes MessagePack arguments into their declared types.
func Decode() *artdeco.Hack {
	return artdeco.Decode(New())
}

// Encode encodes arguments as MessagePack.
func Encode() *artdeco.Hack {
	return artdeco.Encode(New())
}
