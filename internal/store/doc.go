// Package store defines the persistence interfaces consumed by the service
// layer, along with shared persistence error values and the filter/pagination
// types of the task list contract. Concrete implementations live in
// internal/platform/postgres.
package store
