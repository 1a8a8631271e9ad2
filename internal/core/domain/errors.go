/*
 * Copyright (c) 2025 ElectroPrime
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2028-08-31
 * Change License: AGPL-3.0
 */

package domain

import "errors"

var (
	// ErrNotFound is returned when a product business id has no match.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when the admin token is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamUnavailable is returned when a write cannot reach the
	// database. Reads never surface it; they degrade to fallback content.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrImageTooLarge is returned for uploads above the size limit.
	ErrImageTooLarge = errors.New("image exceeds maximum size")

	// ErrUnsupportedImageType is returned for uploads outside the allow-list.
	ErrUnsupportedImageType = errors.New("unsupported image format")

	// ErrStorageUnavailable is returned when the object store rejects an
	// otherwise valid upload.
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// ErrInternal is returned when an unexpected error occurs.
	ErrInternal = errors.New("internal error")
)
