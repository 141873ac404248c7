package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// optionsFind keeps the sort order of a find call.
type optionsFind struct {
	sort bson.D
}

func sortBy(keys ...bson.E) *optionsFind {
	return &optionsFind{sort: bson.D(keys)}
}

func toFindOptions(opts []*optionsFind) []*options.FindOptions {
	var out []*options.FindOptions
	for _, o := range opts {
		if o != nil && len(o.sort) > 0 {
			out = append(out, options.Find().SetSort(o.sort))
		}
	}
	return out
}
