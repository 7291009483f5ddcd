// GramAlert - Village Disease Surveillance and Reporting
// Copyright 2026 GramAlert Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gramalert/gramalert

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// userKeyPrefix namespaces directory entries inside the shared BadgerDB.
const userKeyPrefix = "user:"

// BadgerDirectory implements Directory using BadgerDB for durable local
// storage. This is the self-hosted mode: the deployment owns its own
// directory instead of delegating to a hosted provider.
type BadgerDirectory struct {
	db *badger.DB
}

// NewBadgerDirectory creates a new BadgerDB-backed directory.
func NewBadgerDirectory(db *badger.DB) *BadgerDirectory {
	return &BadgerDirectory{db: db}
}

// GetUser fetches a directory entry by subject.
func (d *BadgerDirectory) GetUser(_ context.Context, subject string) (*User, error) {
	var user User

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + subject))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SetRole replaces the subject's role attribute, creating the entry if
// the subject is unknown. The read-modify-write runs inside a single
// badger transaction.
func (d *BadgerDirectory) SetRole(_ context.Context, subject string, role Role) error {
	return d.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + subject)

		user := User{Subject: subject}
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			// New entry
		case err != nil:
			return fmt.Errorf("get user: %w", err)
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return fmt.Errorf("decode user: %w", err)
			}
		}

		user.Attributes = user.Attributes.WithRole(role)

		data, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		return txn.Set(key, data)
	})
}

// SeedUser writes a full directory entry. Used at startup to provision
// the initial admin account and in tests.
func (d *BadgerDirectory) SeedUser(_ context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(userKeyPrefix+user.Subject), data)
	})
}
