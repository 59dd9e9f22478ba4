// Package repository contains the raw-SQL persistence layer. Sentinel
// errors defined here let handlers and the auth service distinguish
// failure kinds without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned by UserRepo.Create on a duplicate username.
var ErrUsernameExists = errors.New("username already exists")

// ErrTopicExists is returned by TopicRepo.Create on a duplicate topic name.
var ErrTopicExists = errors.New("topic already exists")
