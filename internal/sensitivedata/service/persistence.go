package service

import (
	"fmt"

	sensitivedataDomain "github.com/definescope/definerails-sensitivedata/internal/sensitivedata/domain"
)

// PrepareForPersistence must be called before every write of store. It checks
// the shape of every field and then makes sure a salt is established.
//
// On a shape error nothing is modified.
func PrepareForPersistence(
	store sensitivedataDomain.FieldStore,
	salts *SaltPolicy,
) (saltGenerated bool, err error) {
	for _, name := range store.FieldNames() {
		if err := store.Field(name).Validate(); err != nil {
			return false, fmt.Errorf("field %q: %w", name, err)
		}
	}
	return salts.EnsureSalt(store)
}
