package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"mercadito/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, name, username, password_hash, role, avatar`

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(username)=LOWER(?)`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	if u.Avatar == "" {
		u.Avatar = domain.DefaultAvatar
	}
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,name,username,password_hash,role,avatar)
	  VALUES(?,?,?,?,?,?)
	`, u.ID, u.Name, u.Username, u.Hash, u.Role, u.Avatar)
	return err
}

// UpdateProfile edits display name and avatar; username and role are fixed
// here, password changes are not supported.
func (r *UserRepo) UpdateProfile(id, name, avatar string) error {
	res, err := r.DB.Exec(`UPDATE users SET name=?, avatar=? WHERE id=?`, name, avatar, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) UpdateRole(id, role string) error {
	res, err := r.DB.Exec(`UPDATE users SET role=? WHERE id=?`, role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all non-admin users for the admin panel.
func (r *UserRepo) List() ([]domain.User, error) {
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE role != 'ADMIN' ORDER BY username`)
	return out, err
}

// Delete removes a user and their sessions. Sales keep the historical buyer
// string and are untouched.
func (r *UserRepo) Delete(id string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM sessions WHERE user_id=?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ---------- Session binding (sid cookie) ----------

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.name,u.username,u.password_hash,u.role,u.avatar
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
