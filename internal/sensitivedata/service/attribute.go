package service

import (
	"reflect"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// AttributeDefinition declares one encrypted attribute of a record kind. It is
// created once and bound to each record instance with Bind.
type AttributeDefinition[T any] struct {
	name   string
	policy sensitivedataDomain.AttributePolicy
}

// NewAttributeDefinition creates a definition. The policy is normalized.
func NewAttributeDefinition[T any](
	name string,
	policy sensitivedataDomain.AttributePolicy,
) AttributeDefinition[T] {
	return AttributeDefinition[T]{name: name, policy: policy.Normalize()}
}

// Name returns the attribute name.
func (d AttributeDefinition[T]) Name() string {
	return d.name
}

// Policy returns the normalized policy.
func (d AttributeDefinition[T]) Policy() sensitivedataDomain.AttributePolicy {
	return d.policy
}

// Bind attaches the definition to one record instance.
func (d AttributeDefinition[T]) Bind(
	store sensitivedataDomain.FieldStore,
	cipher FieldCipher,
) *EncryptedAttribute[T] {
	return &EncryptedAttribute[T]{def: d, store: store, cipher: cipher}
}

// EncryptedAttribute is one encrypted attribute bound to one record instance.
//
// Nil is a nil *T. The empty value is the zero value of T, or any zero-length
// string, map or slice. Decrypted values are cached until Reset; the cache
// can hold nil and empty values. Values crossing the cache are copied, with
// nested map[string]any and []any cloned recursively; other reference types
// inside T are shared.
//
// Not safe for concurrent use.
type EncryptedAttribute[T any] struct {
	def    AttributeDefinition[T]
	store  sensitivedataDomain.FieldStore
	cipher FieldCipher

	cached bool
	value  *T
}

// Name returns the attribute name.
func (a *EncryptedAttribute[T]) Name() string {
	return a.def.name
}

// Get returns the plaintext value.
//
// Stored nil and empty sentinels are returned without decryption. A stored
// nil reads as the empty value when TreatNilAsEmpty is set.
func (a *EncryptedAttribute[T]) Get() (*T, error) {
	if a.cached {
		return a.copyValue(), nil
	}

	field := a.store.Field(a.def.name)
	switch field.State() {
	case sensitivedataDomain.FieldStateNil:
		if a.def.policy.TreatNilAsEmpty {
			a.cache(zeroOf[T]())
		} else {
			a.cache(nil)
		}
		return a.copyValue(), nil
	case sensitivedataDomain.FieldStateEmpty:
		a.cache(zeroOf[T]())
		return a.copyValue(), nil
	}

	var out *T
	if err := a.cipher.Open(a.store, field, &out); err != nil {
		return nil, err
	}
	if out == nil && a.def.policy.TreatNilAsEmpty {
		out = zeroOf[T]()
	}

	a.cache(out)
	return a.copyValue(), nil
}

// Set writes v to the backing field, as a sentinel when the policy makes its
// shape visible, encrypted otherwise. On error the field and cache are unchanged.
func (a *EncryptedAttribute[T]) Set(v *T) error {
	policy := a.def.policy
	isNil := v == nil
	empty := !isNil && isEmptyValue(*v)

	switch {
	case policy.NilVisibleInDB && isNil && !policy.TreatNilAsEmpty:
		a.store.SetField(a.def.name, sensitivedataDomain.NilField())
		a.cache(nil)
		return nil
	case policy.EmptyVisibleInDB && (empty || isNil && policy.TreatNilAsEmpty):
		a.store.SetField(a.def.name, sensitivedataDomain.EmptyField())
		a.cache(zeroOf[T]())
		return nil
	}

	if isNil && policy.TreatNilAsEmpty {
		v = zeroOf[T]()
	}

	field, err := a.cipher.Seal(a.store, v)
	if err != nil {
		return err
	}

	a.store.SetField(a.def.name, field)
	if v == nil {
		a.cache(nil)
	} else {
		a.cache(cloneOf(v))
	}
	return nil
}

// Reset drops the cached plaintext. Call it after the record is reloaded.
func (a *EncryptedAttribute[T]) Reset() {
	a.cached = false
	a.value = nil
}

// cachedValue returns the cached value without touching storage.
func (a *EncryptedAttribute[T]) cachedValue() (value *T, ok bool) {
	if !a.cached {
		return nil, false
	}
	return a.copyValue(), true
}

func (a *EncryptedAttribute[T]) cache(v *T) {
	a.cached = true
	a.value = v
}

func (a *EncryptedAttribute[T]) copyValue() *T {
	if a.value == nil {
		return nil
	}
	return cloneOf(a.value)
}

func cloneOf[T any](v *T) *T {
	value := *v
	if cloned, ok := cloneJSON(any(value)).(T); ok {
		value = cloned
	}
	return &value
}

// cloneJSON deep-copies the containers produced by JSON decoding.
func cloneJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = cloneJSON(elem)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cloneJSON(elem)
		}
		return out
	default:
		return v
	}
}

func zeroOf[T any]() *T {
	return new(T)
}

func isEmptyValue[T any](v T) bool {
	rv := reflect.ValueOf(&v).Elem()
	switch rv.Kind() {
	case reflect.String, reflect.Map, reflect.Slice:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
