package service

import "github.com/google/uuid"

// CheckOwnership связывает аутентифицированную идентичность с владельцем
// ресурса. Совпадение требуется точное: ни админского обхода, ни
// совместного владения нет.
func CheckOwnership(requesterID, ownerID uuid.UUID) error {
	if requesterID != ownerID {
		return NewForbidden()
	}
	return nil
}
