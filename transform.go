package artdeco

import (
	"encoding/base64"
	"fmt"
	"reflect"
)

// eachString applies fn to every string held by v. Strings, byte slices,
// string slices and string-valued maps are rewritten; combined variadic
// values are walked element by element. nil passes through untouched.
func eachString(v any, fn func(string) (string, error)) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return fn(x)
	case []byte:
		s, err := fn(string(x))
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case []string:
		out := make([]string, len(x))
		for i, s := range x {
			r, err := fn(s)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, s := range x {
			r, err := fn(s)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			r, err := eachString(e, fn)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case Kwargs:
		out := make(Kwargs, len(x))
		for i, kw := range x {
			r, err := eachString(kw.Value, fn)
			if err != nil {
				return nil, err
			}
			out[i] = Kwarg{Name: kw.Name, Value: r}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T holds no strings", ErrTransform, v)
}

// Chain applies hacks in order, feeding each the previous result.
func Chain(hacks ...*Hack) *Hack {
	return SpecHacker(func(sig *Signature, arg *Arg) (any, error) {
		cur := *arg
		for _, h := range hacks {
			v, err := h.Apply(sig, &cur)
			if err != nil {
				return nil, err
			}
			cur.Value = v
		}
		return cur.Value, nil
	}).Named("chain")
}

// Hash replaces string values with their hash.
func Hash(algo HashAlgo) *Hack {
	return Hacker(func(v any) (any, error) {
		h, ok := hashers[algo]
		if !ok {
			return nil, newConfigError(ErrInvalidTag, "", string(algo))
		}
		return eachString(v, func(s string) (string, error) {
			return h.Hash([]byte(s))
		})
	}).Named("hash:" + string(algo))
}

// Mask replaces string values with their masked form.
func Mask(mt MaskType) *Hack {
	return Hacker(func(v any) (any, error) {
		m, ok := maskers[mt]
		if !ok {
			return nil, newConfigError(ErrInvalidTag, "", string(mt))
		}
		return eachString(v, func(s string) (string, error) {
			return m(s), nil
		})
	}).Named("mask:" + string(mt))
}

// Redact replaces string values with text.
func Redact(text string) *Hack {
	return Hacker(func(v any) (any, error) {
		return eachString(v, func(string) (string, error) {
			return text, nil
		})
	}).Named("redact")
}

// Encrypt encrypts string values. Byte slices hold raw ciphertext, strings
// hold it base64-encoded.
func Encrypt(enc Encryptor) *Hack {
	return Hacker(func(v any) (any, error) {
		if b, ok := v.([]byte); ok {
			return enc.Encrypt(b)
		}
		return eachString(v, func(s string) (string, error) {
			ct, err := enc.Encrypt([]byte(s))
			if err != nil {
				return "", err
			}
			return base64.StdEncoding.EncodeToString(ct), nil
		})
	}).Named("encrypt")
}

// Decrypt reverses Encrypt.
func Decrypt(enc Encryptor) *Hack {
	return Hacker(func(v any) (any, error) {
		if b, ok := v.([]byte); ok {
			return enc.Decrypt(b)
		}
		return eachString(v, func(s string) (string, error) {
			ct, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
			}
			pt, err := enc.Decrypt(ct)
			if err != nil {
				return "", err
			}
			return string(pt), nil
		})
	}).Named("decrypt")
}

// Encode replaces values with their encoding by codec.
// Components of variadic groups encode individually.
func Encode(codec Codec) *Hack {
	var enc func(v any) (any, error)
	enc = func(v any) (any, error) {
		switch x := v.(type) {
		case []any:
			out := make([]any, len(x))
			for i, e := range x {
				d, err := enc(e)
				if err != nil {
					return nil, err
				}
				out[i] = d
			}
			return out, nil
		case Kwargs:
			out := make(Kwargs, len(x))
			for i, kw := range x {
				d, err := enc(kw.Value)
				if err != nil {
					return nil, err
				}
				out[i] = Kwarg{Name: kw.Name, Value: d}
			}
			return out, nil
		}
		data, err := codec.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransform, codec.ContentType(), err)
		}
		return data, nil
	}
	return Hacker(enc).Named("encode:" + codec.ContentType())
}

// Decode decodes encoded values with codec. Values decode into the
// parameter's resolved reflect.Type when it has one, and into a generic
// value otherwise. Components of variadic groups decode individually.
func Decode(codec Codec) *Hack {
	return SpecHacker(func(_ *Signature, arg *Arg) (any, error) {
		var target reflect.Type
		if a, ok := arg.Param.Annotation.Get(); ok {
			target, _ = a.(reflect.Type)
		}
		return decodeValue(codec, target, arg.Value)
	}).Named("decode:" + codec.ContentType())
}

func decodeValue(codec Codec, target reflect.Type, v any) (any, error) {
	var data []byte
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = x
	case string:
		data = []byte(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := decodeValue(codec, target, e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case Kwargs:
		out := make(Kwargs, len(x))
		for i, kw := range x {
			d, err := decodeValue(codec, target, kw.Value)
			if err != nil {
				return nil, err
			}
			out[i] = Kwarg{Name: kw.Name, Value: d}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot decode %T", ErrTransform, v)
	}

	if target == nil {
		var out any
		if err := codec.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransform, codec.ContentType(), err)
		}
		return out, nil
	}
	out := reflect.New(target)
	if err := codec.Unmarshal(data, out.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransform, codec.ContentType(), err)
	}
	return out.Elem().Interface(), nil
}
