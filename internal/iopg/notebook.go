package iopg

import (
	"context"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (p *pgStore) CreateUser(ctx context.Context, u *store.User) error {
	row := userRow{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Email:        store.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    p.now().UTC(),
	}
	err := p.gdb.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return store.ErrDuplicate
	}
	if err != nil {
		return err
	}
	*u = row.toUser()
	return nil
}

func (p *pgStore) UserByEmail(ctx context.Context, email string) (store.User, error) {
	var row userRow
	err := p.gdb.WithContext(ctx).
		Where("email = ?", store.NormalizeEmail(email)).
		First(&row).Error
	if err != nil {
		return store.User{}, notFound(err)
	}
	return row.toUser(), nil
}

func (p *pgStore) CreateNote(ctx context.Context, n *store.Note) error {
	if err := checkID(n.UserID); err != nil {
		return err
	}

	now := p.now().UTC()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.UpdatedAt = now
	row := toNoteRow(*n)
	return p.gdb.WithContext(ctx).Create(&row).Error
}

func (p *pgStore) Notes(ctx context.Context, userID string) ([]store.Note, error) {
	tx := p.gdb.WithContext(ctx).Order("created_at DESC")
	if userID != "" {
		if err := checkID(userID); err != nil {
			return nil, err
		}
		tx = tx.Where("user_id = ?", userID)
	}

	var rows []noteRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	res := make([]store.Note, 0, len(rows))
	for _, v := range rows {
		res = append(res, v.toNote())
	}
	return res, nil
}

func (p *pgStore) UpdateNote(
	ctx context.Context,
	id string,
	upd store.NoteUpdate,
) (store.Note, error) {
	if err := checkID(id); err != nil {
		return store.Note{}, err
	}

	var res store.Note
	err := p.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row noteRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return notFound(err)
		}
		res = row.toNote()
		res.Apply(upd, p.now().UTC())
		row = toNoteRow(res)
		return tx.Save(&row).Error
	})
	if err != nil {
		return store.Note{}, err
	}
	return res, nil
}

func (p *pgStore) DeleteNote(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	tx := p.gdb.WithContext(ctx).Where("id = ?", id).Delete(&noteRow{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
