package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"itms/internal/models"
)

var (
	ErrAssetNotFound      = errors.New("asset_not_found")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrAssignmentNotFound = errors.New("assignment_not_found")
)

// AssignmentService enforces the one-active-assignment-per-asset rule.
type AssignmentService struct{ DB *gorm.DB }

func NewAssignmentService(db *gorm.DB) *AssignmentService { return &AssignmentService{DB: db} }

// Assign hands an asset to a user. Any currently active assignment for the
// asset is closed first (status Returned, returned_on=today) rather than
// rejected, so reassigning an already-assigned asset silently supersedes
// the previous holder.
//
// The close-then-open sequence runs in one transaction holding a row lock
// on the asset, so two concurrent assigns for the same asset serialize and
// cannot both create an Assigned row.
func (s *AssignmentService) Assign(assetID, userID uint, today time.Time) (*models.Assignment, error) {
	var created models.Assignment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked := tx
		if tx.Dialector.Name() == "postgres" {
			// sqlite serializes writers on its own; the explicit lock
			// matters under postgres concurrency.
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var asset models.Asset
		if err := locked.First(&asset, assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		var prev models.Assignment
		err := tx.Where("asset_id = ? AND status = ?", assetID, models.StatusAssigned).First(&prev).Error
		if err == nil {
			prev.Status = models.StatusReturned
			prev.ReturnedOn = &today
			if err := tx.Save(&prev).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		created = models.Assignment{AssetID: assetID, UserID: userID, AssignedOn: today, Status: models.StatusAssigned}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Return closes an assignment, stamping returned_on=today. Returning an
// already-returned assignment just re-stamps the date; the original
// behaves that way and callers rely on the idempotence.
func (s *AssignmentService) Return(assignmentID uint, today time.Time) (*models.Assignment, error) {
	var assn models.Assignment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&assn, assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		assn.Status = models.StatusReturned
		assn.ReturnedOn = &today
		return tx.Save(&assn).Error
	})
	if err != nil {
		return nil, err
	}
	return &assn, nil
}
