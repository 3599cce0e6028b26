package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freelancetax/taxdesk/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// userRow is the users table.
type userRow struct {
	ID            string                     `gorm:"type:varchar(64);primaryKey"`
	Name          string                     `gorm:"type:varchar(100);not null"`
	Email         string                     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PANNumber     string                     `gorm:"type:varchar(10)"`
	GSTRegistered bool                       `gorm:"not null;default:false"`
	AccountNumber string                     `gorm:"type:varchar(34)"`
	IFSCCode      string                     `gorm:"type:varchar(11)"`
	BankName      string                     `gorm:"type:varchar(100)"`
	UPIID         string                     `gorm:"type:varchar(100)"`
	Deductions    map[string]decimal.Decimal `gorm:"serializer:json"`
	Expenses      []expenseRow               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (userRow) TableName() string { return "users" }

// expenseRow is the user_expenses table; Position keeps the profile's list order.
type expenseRow struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      string          `gorm:"type:varchar(64);not null;index"`
	Position    int             `gorm:"not null"`
	Category    string          `gorm:"type:varchar(50);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Date        time.Time       `gorm:"type:date"`
	Description string          `gorm:"type:text"`
}

func (expenseRow) TableName() string { return "user_expenses" }

// incomeRow is the incomes table.
type incomeRow struct {
	ID            string          `gorm:"type:varchar(64);primaryKey"`
	UserID        string          `gorm:"type:varchar(64);not null;index"`
	ClientName    string          `gorm:"type:varchar(100);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	TDSDeducted   bool            `gorm:"not null;default:false"`
	GSTApplicable bool            `gorm:"not null;default:false"`
	Notes         string          `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (incomeRow) TableName() string { return "incomes" }

// GormStore is a Store on PostgreSQL through GORM.
type GormStore struct {
	db  *gorm.DB
	Now func() time.Time
}

// OpenGormStore connects to PostgreSQL and migrates the schema
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, unavailable("open database", err)
	}
	if err := db.AutoMigrate(&userRow{}, &expenseRow{}, &incomeRow{}); err != nil {
		return nil, unavailable("migrate database", err)
	}
	return NewGormStore(db), nil
}

// NewGormStore wraps an existing connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, Now: time.Now}
}

func (s *GormStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&row, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user", userID)
	}
	if err != nil {
		return nil, unavailable("get user", err)
	}
	u := fromUserRow(row)
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *domain.User) error {
	user.Normalize()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := user.Validate(); err != nil {
		return err
	}
	var taken int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
		return unavailable("check email", err)
	}
	if taken > 0 {
		return domain.NewValidationError("email", "already registered")
	}
	row := toUserRow(*user)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return createUserError(err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("close database", err)
	}
	if err := sqlDB.Close(); err != nil {
		return unavailable("close database", err)
	}
	return nil
}

// createUserError maps a unique-key violation that slipped past the email
// check (a concurrent insert) to a ValidationError.
func createUserError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewValidationError("email", "already registered")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.HasSuffix(pgErr.ConstraintName, "_pkey") {
			return domain.NewValidationError("id", "already exists")
		}
		return domain.NewValidationError("email", "already registered")
	}
	return unavailable("create user", err)
}

func (s *GormStore) ListIncome(ctx context.Context, userID string) ([]domain.IncomeRecord, error) {
	var rows []incomeRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, unavailable("list income", err)
	}
	out := make([]domain.IncomeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromIncomeRow(r))
	}
	return out, nil
}

func (s *GormStore) GetIncome(ctx context.Context, userID, incomeID string) (*domain.IncomeRecord, error) {
	var row incomeRow
	err := s.db.WithContext(ctx).First(&row, "id = ? AND user_id = ?", incomeID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("income", incomeID)
	}
	if err != nil {
		return nil, unavailable("get income", err)
	}
	rec := fromIncomeRow(row)
	return &rec, nil
}

func (s *GormStore) InsertIncome(ctx context.Context, rec *domain.IncomeRecord) error {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = s.Now()
	}
	if _, err := s.GetUser(ctx, rec.UserID); err != nil {
		return err
	}
	row := toIncomeRow(*rec)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return unavailable("insert income", err)
	}
	return nil
}

// UpdateIncome replaces every mutable field of an existing record.
func (s *GormStore) UpdateIncome(ctx context.Context, rec *domain.IncomeRecord) error {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}
	existing, err := s.GetIncome(ctx, rec.UserID, rec.ID)
	if err != nil {
		return err
	}
	if rec.Date.IsZero() {
		rec.Date = existing.Date
	}
	row := toIncomeRow(*rec)
	res := s.db.WithContext(ctx).Model(&incomeRow{}).
		Where("id = ? AND user_id = ?", rec.ID, rec.UserID).
		Select("client_name", "amount", "date", "tds_deducted", "gst_applicable", "notes").
		Updates(&row)
	if res.Error != nil {
		return unavailable("update income", res.Error)
	}
	return nil
}

// DeleteIncome permanently removes a record.
func (s *GormStore) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", incomeID, userID).Delete(&incomeRow{})
	if res.Error != nil {
		return unavailable("delete income", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("income", incomeID)
	}
	return nil
}

func toUserRow(u domain.User) userRow {
	row := userRow{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		PANNumber:     u.PANNumber,
		GSTRegistered: u.GSTRegistered,
		AccountNumber: u.BankDetails.AccountNumber,
		IFSCCode:      u.BankDetails.IFSCCode,
		BankName:      u.BankDetails.BankName,
		UPIID:         u.BankDetails.UPIID,
		Deductions:    u.Deductions,
	}
	for i, e := range u.Expenses {
		row.Expenses = append(row.Expenses, expenseRow{
			UserID:      u.ID,
			Position:    i,
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: e.Description,
		})
	}
	return row
}

func fromUserRow(row userRow) domain.User {
	u := domain.User{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		PANNumber:     row.PANNumber,
		GSTRegistered: row.GSTRegistered,
		BankDetails: domain.BankDetails{
			AccountNumber: row.AccountNumber,
			IFSCCode:      row.IFSCCode,
			BankName:      row.BankName,
			UPIID:         row.UPIID,
		},
		Deductions: row.Deductions,
	}
	for _, e := range row.Expenses {
		u.Expenses = append(u.Expenses, domain.Expense{
			Category:    e.Category,
			Amount:      e.Amount,
			Date:        e.Date,
			Description: e.Description,
		})
	}
	return u
}

func toIncomeRow(r domain.IncomeRecord) incomeRow {
	return incomeRow{
		ID:            r.ID,
		UserID:        r.UserID,
		ClientName:    r.ClientName,
		Amount:        r.Amount,
		Date:          r.Date,
		TDSDeducted:   r.TDSDeducted,
		GSTApplicable: r.GSTApplicable,
		Notes:         r.Notes,
	}
}

func fromIncomeRow(row incomeRow) domain.IncomeRecord {
	return domain.IncomeRecord{
		ID:            row.ID,
		UserID:        row.UserID,
		ClientName:    row.ClientName,
		Amount:        row.Amount,
		Date:          row.Date,
		TDSDeducted:   row.TDSDeducted,
		GSTApplicable: row.GSTApplicable,
		Notes:         row.Notes,
	}
}
