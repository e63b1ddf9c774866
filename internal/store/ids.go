package store

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
)

// Id prefixes per entity kind.
const (
	PrefixUser      = "usr"
	PrefixWorkspace = "ws"
	PrefixCategory  = "cat"
	PrefixStatus    = "st"
	PrefixPriority  = "pri"
	PrefixTag       = "tag"
	PrefixTask      = "task"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NextID returns a fresh id for prefix that does not collide with any id already in db.
func (s Store) NextID(db *DB, prefix string) (string, error) {
	return NewID(db, prefix)
}

func NewID(db *DB, prefix string) (string, error) {
	for range 8 {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique id")
}

func idExists(db *DB, id string) bool {
	if db == nil {
		return false
	}
	if _, ok := db.FindUser(id); ok {
		return true
	}
	if _, ok := db.FindWorkspace(id); ok {
		return true
	}
	if _, ok := db.FindCategory(id); ok {
		return true
	}
	if _, ok := db.FindStatus(id); ok {
		return true
	}
	if _, ok := db.FindPriority(id); ok {
		return true
	}
	if _, ok := db.FindTag(id); ok {
		return true
	}
	_, ok := db.FindTask(id)
	return ok
}
