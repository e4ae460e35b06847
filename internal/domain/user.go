package domain

// DefaultAvatar is stored when a user has not uploaded a picture.
const DefaultAvatar = "default.png"

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Username string `db:"username"`
	Hash     string `db:"password_hash"`
	Role     string `db:"role"` // USER | ADMIN
	Avatar   string `db:"avatar"`
}
