package domain

import (
	"fmt"

	"github.com/rs/zerolog"
)

// User is the single record type managed by the service. Username is the
// storage key.
//
// Age and Streak are 32-bit; larger values are rejected at the API boundary
// instead of being truncated in storage.
//
// Password is stored and returned as supplied by the caller. It is kept out of
// String and log output but is part of the JSON representation.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Age      int32  `json:"age"`
	Streak   int32  `json:"streak"`
}

// NewUser builds a User with every field set.
func NewUser(username, password, name string, age, streak int32) User {
	return User{
		Username: username,
		Password: password,
		Name:     name,
		Age:      age,
		Streak:   streak,
	}
}

// NewUserWithoutAge builds a User whose Age is left at zero.
func NewUserWithoutAge(username, password, name string, streak int32) User {
	return User{
		Username: username,
		Password: password,
		Name:     name,
		Streak:   streak,
	}
}

// Key returns the value the record is stored under.
func (u User) Key() string {
	return u.Username
}

func (u User) String() string {
	return fmt.Sprintf("User{username='%s', password='[PROTECTED]'}", u.Username)
}

// MarshalZerologObject lets a User be attached to log events with
// zerolog.Event.Object without leaking the password.
func (u User) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", u.Username).
		Str("name", u.Name).
		Int32("age", u.Age).
		Int32("streak", u.Streak)
}
