package library

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

// Directory owns member and staff records. Neither has any domain logic of
// its own beyond the permissive membership-class policy: bad class input
// falls back to a sensible value instead of erroring, keeping data entry
// frictionless.
type Directory struct {
	db *Database
}

// ------------------ Members ------------------

// AddMember inserts a member and returns the generated id. An invalid or
// empty membership class becomes Regular.
func (dir *Directory) AddMember(m Member) (int64, error) {
	if m.Name == "" {
		return 0, fmt.Errorf("member name must not be empty: %w", ErrInvalidArgument)
	}
	class, _ := ParseMembershipClass(string(m.Class))

	res, err := dir.db.addMemberStmt.Exec(m.Name, m.Phone, m.Email, class)
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return id, nil
}

// GetMember fetches a single member.
func (dir *Directory) GetMember(id int64) (*Member, error) {
	return getMember(dir.db.db, id)
}

func getMember(q sqlx.Queryer, id int64) (*Member, error) {
	var m Member
	err := sqlx.Get(q, &m,
		`SELECT member_id,name,phone,email,membership_type FROM members WHERE member_id=?`, id)
	if isNoRows(err) {
		return nil, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &m, nil
}

// UpdateMember applies a partial update; nil fields keep the previous value,
// and an invalid class keeps the previous class rather than erroring.
func (dir *Directory) UpdateMember(id int64, upd MemberUpdate) error {
	return dir.db.withTx(func(tx *sqlx.Tx) error {
		m, err := getMember(tx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			m.Name = *upd.Name
		}
		if upd.Phone != nil {
			m.Phone = *upd.Phone
		}
		if upd.Email != nil {
			m.Email = *upd.Email
		}
		if upd.Class != nil {
			if class, ok := ParseMembershipClass(*upd.Class); ok {
				m.Class = class
			}
		}

		_, err = tx.Exec(
			`UPDATE members SET name=?, phone=?, email=?, membership_type=? WHERE member_id=?`,
			m.Name, m.Phone, m.Email, m.Class, id)
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		return nil
	})
}

// DeleteMember removes a member record.
func (dir *Directory) DeleteMember(id int64) error {
	res, err := dir.db.db.Exec(`DELETE FROM members WHERE member_id=?`, id)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListMembers returns all members ordered by id.
func (dir *Directory) ListMembers() ([]Member, error) {
	ds := dialect.From("members").
		Select("member_id", "name", "phone", "email", "membership_type").
		Order(goqu.C("member_id").Asc())

	var members []Member
	if err := dir.db.selectSQL(&members, ds); err != nil {
		return nil, err
	}
	return members, nil
}

// ------------------ Staff ------------------

// AddStaff inserts a staff record and returns the generated id.
func (dir *Directory) AddStaff(s Staff) (int64, error) {
	if s.Name == "" {
		return 0, fmt.Errorf("staff name must not be empty: %w", ErrInvalidArgument)
	}
	res, err := dir.db.addStaffStmt.Exec(s.Name, s.Role, s.Phone)
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return id, nil
}

// GetStaff fetches a single staff record.
func (dir *Directory) GetStaff(id int64) (*Staff, error) {
	var s Staff
	err := dir.db.db.Get(&s, `SELECT staff_id,name,role,phone FROM staff WHERE staff_id=?`, id)
	if isNoRows(err) {
		return nil, fmt.Errorf("staff %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &s, nil
}

// UpdateStaff applies a partial update; nil fields keep the previous value.
func (dir *Directory) UpdateStaff(id int64, upd StaffUpdate) error {
	return dir.db.withTx(func(tx *sqlx.Tx) error {
		var s Staff
		err := sqlx.Get(tx, &s, `SELECT staff_id,name,role,phone FROM staff WHERE staff_id=?`, id)
		if isNoRows(err) {
			return fmt.Errorf("staff %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		if upd.Name != nil {
			s.Name = *upd.Name
		}
		if upd.Role != nil {
			s.Role = *upd.Role
		}
		if upd.Phone != nil {
			s.Phone = *upd.Phone
		}

		_, err = tx.Exec(`UPDATE staff SET name=?, role=?, phone=? WHERE staff_id=?`,
			s.Name, s.Role, s.Phone, id)
		if err != nil {
			return errors.Join(ErrStoreUnavailable, err)
		}
		return nil
	})
}

// DeleteStaff removes a staff record.
func (dir *Directory) DeleteStaff(id int64) error {
	res, err := dir.db.db.Exec(`DELETE FROM staff WHERE staff_id=?`, id)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("staff %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListStaff returns all staff ordered by id.
func (dir *Directory) ListStaff() ([]Staff, error) {
	ds := dialect.From("staff").
		Select("staff_id", "name", "role", "phone").
		Order(goqu.C("staff_id").Asc())

	var staff []Staff
	if err := dir.db.selectSQL(&staff, ds); err != nil {
		return nil, err
	}
	return staff, nil
}
