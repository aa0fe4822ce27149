package auth

import (
	"fmt"

	"cookiegate/entity"
)

type Store interface {
	Users() (map[string]*entity.User, error)
	Admins() ([]string, error)
}

type Auth struct {
	store Store
}

func New(store Store) *Auth {
	return &Auth{store: store}
}

// IsAdmin reports whether the identity appears in the admins config.
// Membership is exact string equality.
func (a *Auth) IsAdmin(identity string) (bool, error) {
	if a.store == nil {
		return false, fmt.Errorf("store not connected")
	}
	admins, err := a.store.Admins()
	if err != nil {
		return false, err
	}
	for _, admin := range admins {
		if admin == identity {
			return true, nil
		}
	}
	return false, nil
}

// IsAuthorized reports whether the identity has redeemed a code.
func (a *Auth) IsAuthorized(identity string) (bool, error) {
	if a.store == nil {
		return false, fmt.Errorf("store not connected")
	}
	users, err := a.store.Users()
	if err != nil {
		return false, err
	}
	_, ok := users[identity]
	return ok, nil
}
