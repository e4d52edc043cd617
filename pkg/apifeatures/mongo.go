package apifeatures

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFilter merges the conditions into a find filter. Several operators on
// the same field end up in the same sub-document; a plain value next to
// operators becomes $eq.
func (f *APIFeatures) MongoFilter() bson.M {
	filter := bson.M{}
	for _, cond := range f.conditions {
		existing, seen := filter[cond.Column]
		if !seen {
			if cond.Operator == Eq {
				filter[cond.Column] = cond.Value
			} else {
				filter[cond.Column] = bson.M{"$" + string(cond.Operator): cond.Value}
			}
			continue
		}
		ops, ok := existing.(bson.M)
		if !ok {
			ops = bson.M{"$eq": existing}
			filter[cond.Column] = ops
		}
		ops["$"+string(cond.Operator)] = cond.Value
	}
	return filter
}

// MongoFindOptions returns sort, projection, skip and limit.
func (f *APIFeatures) MongoFindOptions() *options.FindOptions {
	opts := options.Find().SetSkip(f.Skip()).SetLimit(f.limit)

	if len(f.sortKeys) > 0 {
		sort := bson.D{}
		for _, key := range f.sortKeys {
			dir := 1
			if key.Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: key.Column, Value: dir})
		}
		opts.SetSort(sort)
	}

	if len(f.include) > 0 || len(f.exclude) > 0 {
		projection := bson.D{}
		for _, column := range f.include {
			projection = append(projection, bson.E{Key: column, Value: 1})
		}
		for _, column := range f.exclude {
			projection = append(projection, bson.E{Key: column, Value: 0})
		}
		opts.SetProjection(projection)
	}
	return opts
}
