// Copyright (c) 2026 The Slimcache Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package slimerr provides the coded error kinds shared by the cuckoo
// storage engine and the memcache command processor.
package slimerr

import "github.com/agilira/go-errors"

// Error codes for the per-command failure kinds the storage engine and
// command processor raise.
const (
	CodeNotFound         errors.ErrorCode = "SLIMCACHE_NOT_FOUND"
	CodeNotStored        errors.ErrorCode = "SLIMCACHE_NOT_STORED"
	CodeCasMismatch      errors.ErrorCode = "SLIMCACHE_CAS_MISMATCH"
	CodeValueTooLarge    errors.ErrorCode = "SLIMCACHE_VALUE_TOO_LARGE"
	CodeTypeMismatch     errors.ErrorCode = "SLIMCACHE_TYPE_MISMATCH"
	CodeConnectionClosed errors.ErrorCode = "SLIMCACHE_CONNECTION_CLOSED"
)

// NewNotFound reports that key was absent at operation time.
func NewNotFound(key string) error {
	return errors.NewWithField(CodeNotFound, "key not found", "key", key)
}

// NewNotStored reports a failed add/replace precondition.
func NewNotStored(key, reason string) error {
	return errors.NewWithContext(CodeNotStored, "not stored", map[string]interface{}{
		"key":    key,
		"reason": reason,
	})
}

// NewCasMismatch reports that the supplied CAS token did not match
// the stored one.
func NewCasMismatch(key string, want, got uint64) error {
	return errors.NewWithContext(CodeCasMismatch, "cas mismatch", map[string]interface{}{
		"key":      key,
		"expected": want,
		"supplied": got,
	})
}

// NewValueTooLarge reports that a value does not fit the configured
// slot footprint; the caller must leave the prior item (if any)
// unchanged.
func NewValueTooLarge(key string, size, max int) error {
	return errors.NewWithContext(CodeValueTooLarge, "value too large for slot", map[string]interface{}{
		"key":      key,
		"size":     size,
		"val_max":  max,
		"overflow": size - max,
	}).AsRetryable()
}

// NewTypeMismatch reports an incr/decr attempted on a non-integer
// value.
func NewTypeMismatch(key string) error {
	return errors.NewWithField(CodeTypeMismatch, "value is not an integer", "key", key)
}

// NewConnectionClosed wraps a response-buffer write failure, surfaced
// to the caller so it tears the connection down.
func NewConnectionClosed(cause error) error {
	return errors.Wrap(cause, CodeConnectionClosed, "connection closed during response write")
}

// IsNotFound reports whether err is a CodeNotFound error.
func IsNotFound(err error) bool { return errors.HasCode(err, CodeNotFound) }

// IsNotStored reports whether err is a CodeNotStored error.
func IsNotStored(err error) bool { return errors.HasCode(err, CodeNotStored) }

// IsCasMismatch reports whether err is a CodeCasMismatch error.
func IsCasMismatch(err error) bool { return errors.HasCode(err, CodeCasMismatch) }

// IsValueTooLarge reports whether err is a CodeValueTooLarge error.
func IsValueTooLarge(err error) bool { return errors.HasCode(err, CodeValueTooLarge) }

// IsTypeMismatch reports whether err is a CodeTypeMismatch error.
func IsTypeMismatch(err error) bool { return errors.HasCode(err, CodeTypeMismatch) }
