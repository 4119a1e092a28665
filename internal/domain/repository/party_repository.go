package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// PartyRepository is the read-only customer/supplier lookup port, used to
// validate references and describe finance records.
type PartyRepository interface {
	GetByID(id string) (*entity.Party, error)
}
