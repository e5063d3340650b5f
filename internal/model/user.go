package model

import "time"

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// Administrators are ordinary users with the IsAdmin flag set;
// the flag gates access to the /v1/admin routes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Handle       – unique login handle.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  Email        – contact email address.
//  Phone        – contact phone number.
//  IsAdmin      – whether the user may access admin operations.
//  Picture      – optional reference to a stored avatar.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Handle       string    // users.handle
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Email        string    // users.email
	Phone        string    // users.phone
	IsAdmin      bool      // users.is_admin
	Picture      string    // users.picture
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
