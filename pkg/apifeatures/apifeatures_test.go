package apifeatures

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/anonto42/chirp/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSchema = Schema{
	"createdAt":    {Column: "createdAt", Kind: Time},
	"createdById":  {Column: "createdById", Kind: Int},
	"likesCount":   {Column: "likesCount", Kind: Int},
	"isPublic":     {Column: "isPublic", Kind: Bool},
	"text":         {Column: "text", Kind: String},
	"quotedPostId": {Column: "quotedPostId", Kind: ObjectID},
}

func build(t *testing.T, query string) *APIFeatures {
	t.Helper()
	params, err := url.ParseQuery(query)
	require.NoError(t, err)
	return New(params, testSchema).Filter().Sort().LimitFields().Paginate()
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	f := build(t, "")
	require.NoError(t, f.Err())

	assert.Empty(f.MongoFilter())
	assert.Equal([]SortKey{{Column: "createdAt", Descending: true}, {Column: "_id"}}, f.SortKeys())
	assert.EqualValues(1, f.Page())
	assert.EqualValues(100, f.Limit())
	assert.EqualValues(0, f.Skip())

	opts := f.MongoFindOptions()
	assert.Equal(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, opts.Sort)
	assert.Nil(opts.Projection)
}

func TestFilterOperatorsAndCasting(t *testing.T) {
	assert := assert.New(t)
	id := primitive.NewObjectID()
	f := build(t, "likesCount[gte]=5&likesCount[lt]=10&isPublic=true&createdById=7&quotedPostId="+id.Hex()+"&page=2&unknown=1")
	require.NoError(t, f.Err())

	assert.Equal(bson.M{
		"likesCount":   bson.M{"$gte": int64(5), "$lt": int64(10)},
		"isPublic":     true,
		"createdById":  int64(7),
		"quotedPostId": id,
	}, f.MongoFilter())
}

func TestFilterTime(t *testing.T) {
	f := build(t, "createdAt[gt]=2024-01-02T03:04:05Z")
	require.NoError(t, f.Err())
	cond := f.MongoFilter()["createdAt"].(bson.M)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), cond["$gt"])
}

func TestFilterCastError(t *testing.T) {
	f := build(t, "likesCount=many")
	require.Error(t, f.Err())
	var castErr *apperror.CastError
	require.ErrorAs(t, f.Err(), &castErr)
	assert.Equal(t, "likesCount", castErr.Path)
	assert.Equal(t, "Invalid likesCount: many.", apperror.Normalize(f.Err()).Message)
}

func TestSortAndFields(t *testing.T) {
	assert := assert.New(t)
	f := build(t, "sort=-likesCount,text&fields=text,likesCount")
	require.NoError(t, f.Err())

	opts := f.MongoFindOptions()
	assert.Equal(bson.D{{Key: "likesCount", Value: -1}, {Key: "text", Value: 1}}, opts.Sort)
	assert.Equal(bson.D{{Key: "text", Value: 1}, {Key: "likesCount", Value: 1}}, opts.Projection)
}

func TestExcludedFields(t *testing.T) {
	f := build(t, "fields=-text")
	require.NoError(t, f.Err())
	assert.Equal(t, bson.D{{Key: "text", Value: 0}}, f.MongoFindOptions().Projection)
}

func TestUnknownSortField(t *testing.T) {
	f := build(t, "sort=password")
	require.Error(t, f.Err())
	assert.Equal(t, http.StatusBadRequest, apperror.Normalize(f.Err()).StatusCode)
}

func TestMixedProjection(t *testing.T) {
	f := build(t, "fields=text,-likesCount")
	require.Error(t, f.Err())
}

func TestPagination(t *testing.T) {
	assert := assert.New(t)
	f := build(t, "page=3&limit=20")
	require.NoError(t, f.Err())
	assert.EqualValues(40, f.Skip())
	opts := f.MongoFindOptions()
	assert.EqualValues(40, *opts.Skip)
	assert.EqualValues(20, *opts.Limit)

	f = build(t, "page=0&limit=-5")
	require.NoError(t, f.Err())
	assert.EqualValues(1, f.Page())
	assert.EqualValues(100, f.Limit())

	f = build(t, "page=two")
	require.Error(t, f.Err())
}

func TestFirstErrorShortCircuits(t *testing.T) {
	f := build(t, "likesCount=x&sort=nope")
	var castErr *apperror.CastError
	assert.ErrorAs(t, f.Err(), &castErr)
	assert.Empty(t, f.SortKeys())
}

func TestPageOverflow(t *testing.T) {
	f := build(t, "page=9223372036854775807&limit=2")
	require.Error(t, f.Err())
	appErr := apperror.Normalize(f.Err())
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid page: 9223372036854775807.", appErr.Message)

	f = build(t, "page=4611686018427387904&limit=2")
	require.NoError(t, f.Err())
	assert.GreaterOrEqual(t, f.Skip(), int64(0))
}

func TestEqualityNextToOperators(t *testing.T) {
	want := bson.M{"likesCount": bson.M{"$eq": int64(5), "$gte": int64(3)}}
	for i := 0; i < 50; i++ {
		f := build(t, "likesCount=5&likesCount[gte]=3")
		require.NoError(t, f.Err())
		assert.Equal(t, want, f.MongoFilter())

		f = build(t, "likesCount[gte]=3&likesCount=5")
		require.NoError(t, f.Err())
		assert.Equal(t, want, f.MongoFilter())
	}
}
