package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ExchangeModel represents the database model for archived exchanges
type ExchangeModel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`

	SessionID uuid.UUID `json:"session_id" gorm:"type:char(36);not null;index"`
	Language  string    `json:"language" gorm:"column:language;size:8"`
	UserText  string    `json:"user_text" gorm:"column:user_text;type:text;not null"`
	Reply     string    `json:"reply" gorm:"column:reply;type:text;not null"`
	Failed    bool      `json:"failed" gorm:"column:failed;default:false"`
}

// TableName sets the table name for GORM
func (ExchangeModel) TableName() string {
	return "concierge_exchanges"
}

func newExchangeModel(ex *Exchange) *ExchangeModel {
	return &ExchangeModel{
		CreatedAt: ex.CreatedAt,
		SessionID: ex.SessionID,
		Language:  ex.Language,
		UserText:  ex.UserText,
		Reply:     ex.Reply,
		Failed:    ex.Failed,
	}
}

// MySqlArchive stores exchanges using GORM
type MySqlArchive struct {
	db *gorm.DB
}

// NewMySqlArchive opens the database and migrates the exchange table
func NewMySqlArchive(databaseURL string) (*MySqlArchive, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	return NewGormArchive(db)
}

// NewGormArchive wraps an already opened connection
func NewGormArchive(db *gorm.DB) (*MySqlArchive, error) {
	if err := db.AutoMigrate(&ExchangeModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate tables")
	}

	return &MySqlArchive{db: db}, nil
}

// Record implements Archive
func (a *MySqlArchive) Record(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return errors.New("exchange cannot be nil")
	}
	if exchange.SessionID == uuid.Nil {
		return errors.New("session_id cannot be empty")
	}

	if err := a.db.WithContext(ctx).Create(newExchangeModel(exchange)).Error; err != nil {
		return errors.Wrap(err, "failed to save exchange")
	}

	return nil
}

// Close closes the database connection
func (a *MySqlArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from gorm.DB")
	}
	return sqlDB.Close()
}
