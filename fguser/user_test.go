package fguser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

func userToJSON(t *testing.T, u User) string {
	w := jwriter.NewWriter()
	u.WriteToJSONWriter(&w)
	require.NoError(t, w.Error())
	return string(w.Bytes())
}

func TestNewUserHasOnlyKey(t *testing.T) {
	u := NewUser("my-key")
	assert.Equal(t, "my-key", u.Key())
	_, ok := u.CustomIDValue("org")
	assert.False(t, ok)
}

func TestBuilderSetsCustomIDs(t *testing.T) {
	u := NewUserBuilder("my-key").
		CustomID("org", "acme").
		CustomID("team", "red").
		Build()

	v, ok := u.CustomIDValue("org")
	assert.True(t, ok)
	assert.Equal(t, "acme", v)
	v, _ = u.CustomIDValue("team")
	assert.Equal(t, "red", v)
}

func TestBuilderReplacesDuplicateNamespace(t *testing.T) {
	u := NewUserBuilder("my-key").
		CustomID("org", "acme").
		CustomID("org", "globex").
		Build()

	v, _ := u.CustomIDValue("org")
	assert.Equal(t, "globex", v)
	assert.JSONEq(t, `{"userID": "my-key", "customIDs": {"org": "globex"}}`, userToJSON(t, u))
}

func TestBuilderCanBeReused(t *testing.T) {
	b := NewUserBuilder("my-key").CustomID("org", "acme")
	u1 := b.Build()
	b.CustomID("org", "globex")
	u2 := b.Build()

	v, _ := u1.CustomIDValue("org")
	assert.Equal(t, "acme", v)
	v, _ = u2.CustomIDValue("org")
	assert.Equal(t, "globex", v)
}

func TestEqualIgnoresCustomIDOrder(t *testing.T) {
	u1 := NewUserBuilder("k").CustomID("a", "1").CustomID("b", "2").Build()
	u2 := NewUserBuilder("k").CustomID("b", "2").CustomID("a", "1").Build()
	assert.True(t, u1.Equal(u2))
	assert.True(t, u2.Equal(u1))
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := NewUserBuilder("k").CustomID("a", "1").Build()
	assert.False(t, base.Equal(NewUser("k")))
	assert.False(t, base.Equal(NewUser("other")))
	assert.False(t, base.Equal(NewUserBuilder("k").CustomID("a", "2").Build()))
	assert.False(t, base.Equal(NewUserBuilder("k").CustomID("b", "1").Build()))
	assert.False(t, base.Equal(NewUserBuilder("k").CustomID("a", "1").CustomID("b", "2").Build()))
}

func TestCacheKeyIsStableAcrossCustomIDOrder(t *testing.T) {
	u1 := NewUserBuilder("k").CustomID("a", "1").CustomID("b", "2").Build()
	u2 := NewUserBuilder("k").CustomID("b", "2").CustomID("a", "1").Build()
	assert.Equal(t, u1.CacheKey(), u2.CacheKey())
}

func TestCacheKeyDistinguishesIdentities(t *testing.T) {
	keys := map[string]bool{}
	for _, u := range []User{
		NewUser("k"),
		NewUser("k2"),
		NewUserBuilder("k").CustomID("a", "1").Build(),
		NewUserBuilder("k").CustomID("a", "2").Build(),
		// ambiguity between key and namespace separators must not collide
		NewUser("k;a=1"),
	} {
		keys[u.CacheKey()] = true
	}
	assert.Len(t, keys, 5)
}

func TestWriteToJSONWriterOmitsEmptyCustomIDs(t *testing.T) {
	assert.JSONEq(t, `{"userID": "my-key"}`, userToJSON(t, NewUser("my-key")))
}
