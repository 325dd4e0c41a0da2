package gorm

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
)

// Ensure CredentialsStore implements the credential interfaces
var (
	_ store.CredentialStore   = (*CredentialsStore)(nil)
	_ store.ProvisioningStore = (*CredentialsStore)(nil)
)

// CredentialsStore implements store.CredentialStore and
// store.ProvisioningStore using GORM
type CredentialsStore struct {
	db *gorm.DB
}

// NewCredentialsStore creates a new CredentialsStore
func NewCredentialsStore(db *gorm.DB) *CredentialsStore {
	return &CredentialsStore{db: db}
}

// FindByNamePassword returns the active credential with the given name if
// password matches.
func (s *CredentialsStore) FindByNamePassword(ctx context.Context, name, password string) (*store.Credential, error) {
	row, err := s.findActive(s.db.WithContext(ctx), "name = ?", name)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(row.Password), []byte(password)) != 1 {
		return nil, store.ErrCredentialNotFound
	}
	return toCredential(row)
}

// FindByName returns the active credential with the given name.
func (s *CredentialsStore) FindByName(ctx context.Context, name string) (*store.Credential, error) {
	row, err := s.findActive(s.db.WithContext(ctx), "name = ?", name)
	if err != nil {
		return nil, err
	}
	return toCredential(row)
}

// FindActiveByOwner returns the active credential issued for owner.
func (s *CredentialsStore) FindActiveByOwner(ctx context.Context, owner model.Owner) (*store.Credential, error) {
	column, id := ownerColumn(owner)
	row, err := s.findActive(s.db.WithContext(ctx), column+" = ?", id)
	if err != nil {
		return nil, err
	}
	return toCredential(row)
}

// CreateCredential stores cred unless owner already has an active
// credential, then ensures grants on whichever credential is active.
func (s *CredentialsStore) CreateCredential(ctx context.Context, cred store.Credential, grants []store.Grant) (*store.Credential, bool, error) {
	var (
		result  *store.Credential
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, cred.Owner); err != nil {
			return err
		}

		column, id := ownerColumn(cred.Owner)
		row, err := s.findActive(tx, column+" = ?", id)
		switch {
		case errors.Is(err, store.ErrCredentialNotFound):
			fresh := model.NewCredential(cred.Name, cred.Password, cred.Owner, cred.CompanyID, cred.IsSuperuser)
			if err := tx.Create(&fresh).Error; err != nil {
				return fmt.Errorf("failed to create credential %s: %w", cred.Name, err)
			}
			row, created = &fresh, true
		case err != nil:
			return err
		}

		for _, g := range grants {
			if _, err := ensurePermission(tx, row.ID, g); err != nil {
				return err
			}
		}

		result, err = toCredential(row)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// CreateDeviceCredential inserts device, its credential and the credential's
// grants in one transaction.
func (s *CredentialsStore) CreateDeviceCredential(ctx context.Context, device *model.Device, newCredential func(*model.Device) (store.Credential, []store.Grant)) (*store.Credential, error) {
	var result *store.Credential

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(device).Error; err != nil {
			return fmt.Errorf("failed to create device %s: %w", device.Name, err)
		}

		cred, grants := newCredential(device)
		row := model.NewCredential(cred.Name, cred.Password, cred.Owner, cred.CompanyID, cred.IsSuperuser)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create credential %s: %w", cred.Name, err)
		}
		for _, g := range grants {
			if _, err := ensurePermission(tx, row.ID, g); err != nil {
				return err
			}
		}

		var err error
		result, err = toCredential(&row)
		return err
	})
	if err != nil {
		device.ID = 0
		return nil, err
	}
	return result, nil
}

// RegenerateCredential replaces the owner's active credential.
func (s *CredentialsStore) RegenerateCredential(ctx context.Context, owner model.Owner, name, password string) (*store.Credential, error) {
	var result *store.Credential

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwner(tx, owner); err != nil {
			return err
		}

		column, id := ownerColumn(owner)
		old, err := s.findActive(tx, column+" = ?", id)
		if err != nil {
			return err
		}

		var perms []model.Permission
		if err := tx.Where("credential_id = ? AND active = ?", old.ID, true).Order("id").Find(&perms).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Credential{}).Where("id = ?", old.ID).Update("active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate credential %d: %w", old.ID, err)
		}

		row := model.NewCredential(name, password, owner, old.CompanyID, old.IsSuperuser)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create credential %s: %w", name, err)
		}
		for _, p := range perms {
			if _, err := ensurePermission(tx, row.ID, store.Grant{Topic: p.Topic, Action: p.Action}); err != nil {
				return err
			}
		}

		result, err = toCredential(&row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CredentialsStore) findActive(db *gorm.DB, query string, args ...interface{}) (*model.Credential, error) {
	var row model.Credential
	tx := db.Where(query, args...).Where("active = ?", true).First(&row)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrCredentialNotFound
		}
		return nil, tx.Error
	}
	return &row, nil
}

// lockOwner serialises credential writes for one owner until the
// transaction ends.
func lockOwner(tx *gorm.DB, owner model.Owner) error {
	key := fmt.Sprintf("iot_credentials:%s:%d", owner.ResourceType(), owner.OwnerID())
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func ownerColumn(owner model.Owner) (string, int64) {
	if owner.ResourceType() == model.ResourceTypeDevice {
		return "device_id", owner.OwnerID()
	}
	return "user_id", owner.OwnerID()
}

func toCredential(row *model.Credential) (*store.Credential, error) {
	owner, err := row.Owner()
	if err != nil {
		return nil, err
	}
	return &store.Credential{
		ID:          row.ID,
		Name:        row.Name,
		Password:    row.Password,
		IsSuperuser: row.IsSuperuser,
		Owner:       owner,
		CompanyID:   row.CompanyID,
	}, nil
}
