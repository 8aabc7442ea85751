package repositories

import (
	"errors"

	"stickywith_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrDuplicatePair means another writer created the connection for this
	// pair first. Callers re-read and continue from the pending state.
	ErrDuplicatePair = errors.New("connection already exists for this pair")
	// ErrStaleStatus means the conditional status update matched no row; a
	// concurrent writer advanced the connection first.
	ErrStaleStatus = errors.New("connection status changed concurrently")
)

type ConnectionRepository interface {
	// WithTx returns a repository bound to tx so multi-row writes share one
	// transaction.
	WithTx(tx *gorm.DB) ConnectionRepository

	Create(conn *models.Connection) error
	FindByID(id string) (*models.Connection, error)
	// FindByPair looks up the connection for an unordered user pair via the
	// canonical pair key, regardless of who proposed.
	FindByPair(userID, otherID string) (*models.Connection, error)
	// ConfirmPending flips a pending connection to confirmed. Fails with
	// ErrStaleStatus if the row is no longer pending.
	ConfirmPending(connectionID string) error
	// FindConfirmedForUser returns all confirmed connections touching the
	// user, with both users and the meeting log preloaded.
	FindConfirmedForUser(userID string) ([]models.Connection, error)
}

type connectionRepositoryImpl struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepositoryImpl{db: db}
}

func (r *connectionRepositoryImpl) WithTx(tx *gorm.DB) ConnectionRepository {
	return &connectionRepositoryImpl{db: tx}
}

func (r *connectionRepositoryImpl) Create(conn *models.Connection) error {
	if conn.PairKey == "" {
		conn.PairKey = models.PairKey(conn.UserAID, conn.UserBID)
	}
	if err := r.db.Create(conn).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicatePair
		}
		return err
	}
	return nil
}

func (r *connectionRepositoryImpl) FindByID(id string) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.First(&conn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepositoryImpl) FindByPair(userID, otherID string) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.First(&conn, "pair_key = ?", models.PairKey(userID, otherID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepositoryImpl) ConfirmPending(connectionID string) error {
	res := r.db.Model(&models.Connection{}).
		Where("id = ? AND status = ?", connectionID, models.ConnectionStatusPending).
		Update("status", models.ConnectionStatusConfirmed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *connectionRepositoryImpl) FindConfirmedForUser(userID string) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.
		Preload("UserA").
		Preload("UserB").
		Preload("Meetings", func(db *gorm.DB) *gorm.DB {
			return db.Where("met_at IS NOT NULL").Order("met_at desc")
		}).
		Where("status = ? AND (user_a_id = ? OR user_b_id = ?)",
			models.ConnectionStatusConfirmed, userID, userID).
		Find(&conns).Error
	return conns, err
}
