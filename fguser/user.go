package fguser

import (
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// User is an immutable description of the end user on whose behalf the SDK evaluates
// gates and configs. It consists of a primary key plus any number of custom ID
// namespaces (for instance, a "workID" or "orgID" alongside the primary user key).
//
// Construct a User with NewUser or NewUserBuilder. The zero value is a user with an
// empty key, which the service treats as an anonymous user identified only by the
// device's stable ID.
type User struct {
	key       string
	customIDs []customID
}

type customID struct {
	namespace string
	value     string
}

// NewUser creates a User with only a primary key and no custom IDs.
func NewUser(key string) User {
	return User{key: key}
}

// UserBuilder is a mutable builder for User. Create one with NewUserBuilder.
type UserBuilder struct {
	key       string
	customIDs []customID
}

// NewUserBuilder creates a UserBuilder with the given primary key.
func NewUserBuilder(key string) *UserBuilder {
	return &UserBuilder{key: key}
}

// CustomID adds or replaces a custom ID namespace. Insertion order is preserved in
// request payloads; it does not affect identity equality or the cache key.
func (b *UserBuilder) CustomID(namespace, value string) *UserBuilder {
	for i, c := range b.customIDs {
		if c.namespace == namespace {
			b.customIDs[i].value = value
			return b
		}
	}
	b.customIDs = append(b.customIDs, customID{namespace, value})
	return b
}

// Build constructs the User. The builder may be reused afterward.
func (b *UserBuilder) Build() User {
	ids := make([]customID, len(b.customIDs))
	copy(ids, b.customIDs)
	return User{key: b.key, customIDs: ids}
}

// Key returns the primary user key.
func (u User) Key() string {
	return u.key
}

// CustomIDValue returns the value for a custom ID namespace, if one was set.
func (u User) CustomIDValue(namespace string) (string, bool) {
	for _, c := range u.customIDs {
		if c.namespace == namespace {
			return c.value, true
		}
	}
	return "", false
}

// Equal tests identity equality: two Users are equal if and only if the primary key
// and every custom ID pair match.
func (u User) Equal(other User) bool {
	if u.key != other.key || len(u.customIDs) != len(other.customIDs) {
		return false
	}
	for _, c := range u.customIDs {
		v, ok := other.CustomIDValue(c.namespace)
		if !ok || v != c.value {
			return false
		}
	}
	return true
}

// CacheKey returns a deterministic hash of the canonicalized identity, used to key
// persisted snapshots. Equal Users always produce the same CacheKey regardless of
// the order in which custom IDs were added.
func (u User) CacheKey() string {
	// Each component is length-prefixed so that no choice of key or custom ID
	// values can make two distinct identities canonicalize identically.
	var sb strings.Builder
	writeComponent := func(s string) {
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
	writeComponent(u.key)
	sorted := make([]customID, len(u.customIDs))
	copy(sorted, u.customIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].namespace < sorted[j].namespace })
	for _, c := range sorted {
		writeComponent(c.namespace)
		writeComponent(c.value)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// WriteToJSONWriter writes the user in the request payload representation.
func (u User) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("userID").String(u.key)
	if len(u.customIDs) > 0 {
		idsObj := obj.Name("customIDs").Object()
		for _, c := range u.customIDs {
			idsObj.Name(c.namespace).String(c.value)
		}
		idsObj.End()
	}
	obj.End()
}
