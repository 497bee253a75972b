package model

// User is a registered account. Username is the unique key in the
// credential store; users are never mutated or deleted once registered.
type User struct {
	Username string `json:"username" cbor:"username"`
	Password string `json:"password" cbor:"password"`
}
