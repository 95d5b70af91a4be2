package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var fieldNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Schema declares the scalar encrypted attributes of a record kind and the
// name of its multiplexed sensitive data field.
type Schema struct {
	BlobField string
	fields    map[string]AttributePolicy
}

// NewSchema builds a schema from a field-to-policy map. Policies are normalized.
func NewSchema(blobField string, fields map[string]AttributePolicy) (*Schema, error) {
	if err := validateFieldName(blobField); err != nil {
		return nil, err
	}

	s := &Schema{BlobField: blobField, fields: make(map[string]AttributePolicy, len(fields))}
	for name, policy := range fields {
		if err := validateFieldName(name); err != nil {
			return nil, err
		}
		if name == blobField {
			return nil, fmt.Errorf("%w: %q is reserved for sensitive data", ErrInvalidSchema, name)
		}
		s.fields[name] = policy.Normalize()
	}
	return s, nil
}

// ParseSchema parses a declaration such as
// "ssn:nil_visible,notes:treat_nil_as_empty+empty_visible,tax_id".
// A field without flags is always encrypted.
func ParseSchema(blobField, declaration string) (*Schema, error) {
	fields := make(map[string]AttributePolicy)

	for _, entry := range strings.Split(declaration, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, flags, _ := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("%w: field %q declared twice", ErrInvalidSchema, name)
		}

		policy, err := ParsePolicy(flags)
		if err != nil {
			return nil, err
		}
		fields[name] = policy
	}

	return NewSchema(blobField, fields)
}

// Policy returns the policy of a scalar field.
func (s *Schema) Policy(name string) (AttributePolicy, error) {
	policy, ok := s.fields[name]
	if !ok {
		return AttributePolicy{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return policy, nil
}

// Has reports whether name is a declared scalar field or the blob field.
func (s *Schema) Has(name string) bool {
	if name == s.BlobField {
		return true
	}
	_, ok := s.fields[name]
	return ok
}

// FieldNames lists the declared scalar fields, sorted.
func (s *Schema) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateFieldName(name string) error {
	if !fieldNamePattern.MatchString(name) {
		return fmt.Errorf("%w: invalid field name %q", ErrInvalidSchema, name)
	}
	if strings.HasSuffix(name, ivSuffix) {
		return fmt.Errorf("%w: field name %q must not end in %q", ErrInvalidSchema, name, ivSuffix)
	}
	for logical, alias := range storageAliases {
		if name == alias && name != logical {
			return fmt.Errorf("%w: field name %q is a reserved storage alias", ErrInvalidSchema, name)
		}
	}
	return nil
}
