package auth

import (
	"github.com/Nithya675/Consultant---Tracker/internal/registry"
)

// One account collection per role. All three carry the same indexes: a
// unique email and an is_active filter index.
const (
	adminsCollection      = "admins"
	recruitersCollection  = "recruiters"
	consultantsCollection = "consultants"
)

func schemas() []*registry.CollectionSchema {
	names := []string{adminsCollection, recruitersCollection, consultantsCollection}
	out := make([]*registry.CollectionSchema, 0, len(names))
	for _, name := range names {
		out = append(out, &registry.CollectionSchema{
			Collection: name,
			Indexes: []registry.IndexSpec{
				{Keys: []registry.IndexKey{{Field: "email", Order: 1}}, Unique: true},
				{Keys: []registry.IndexKey{{Field: "is_active", Order: 1}}},
			},
		})
	}
	return out
}
