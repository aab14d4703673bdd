// Package authz decides what a caller may see and change. Every function
// takes the caller explicitly; nothing here reads request state.
package authz

import (
	"errors"

	"github.com/vishwam-chepuri/matching-app/internal/models"
	"gorm.io/gorm"
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Scope is the set of profiles a caller may act on.
type Scope struct {
	All    bool
	UserID uint
}

// ScopeFor returns every profile for admins and only owned profiles otherwise.
func ScopeFor(user *models.User) Scope {
	if user.IsAdmin {
		return Scope{All: true}
	}
	return Scope{UserID: user.ID}
}

// Profiles is a gorm scope restricting a query on the profiles table.
func (s Scope) Profiles(db *gorm.DB) *gorm.DB {
	if s.All {
		return db
	}
	return db.Where("profiles.user_id = ?", s.UserID)
}

func RequireAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}

// CanDeleteUser blocks an admin from deleting their own account.
func CanDeleteUser(actor *models.User, targetID uint) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return ErrInvalidOperation
	}
	return nil
}

// CanStar allows only the owner to change a profile's starred flag, admins
// included.
func CanStar(user *models.User, p *models.Profile) error {
	if p.UserID != user.ID {
		return ErrForbidden
	}
	return nil
}
