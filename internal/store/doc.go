// Package store defines the repository interfaces the farm registry persists
// through, together with the shared pieces every implementation relies on:
// store error kinds, transaction helpers and the pagination engine used by
// all listings.
package store
