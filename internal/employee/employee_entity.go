package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PayTypeHourly   = "HOURLY"
	PayTypeSalaried = "SALARIED"
)

const (
	FrequencyWeekly      = "WEEKLY"
	FrequencyBiweekly    = "BIWEEKLY"
	FrequencySemiMonthly = "SEMI_MONTHLY"
	FrequencyMonthly     = "MONTHLY"
)

// Employee is reference data for the pipeline: owned by the HR master-data
// system and consumed read-only here. PayType is an explicit attribute, so
// rate resolution never guesses from which rate column happens to be set.
type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeNumber string     `gorm:"type:varchar(30);not null"`
	FullName       string     `gorm:"column:full_name;type:varchar(120);not null"`
	Email          string     `gorm:"type:varchar(120)"`
	Active         bool       `gorm:"not null;default:true"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`

	PayType            string           `gorm:"type:varchar(10);not null;default:'HOURLY'"`
	HourlyRate         *decimal.Decimal `gorm:"type:numeric(12,2)"`
	AnnualSalary       *decimal.Decimal `gorm:"type:numeric(14,2)"`
	PayFrequency       string           `gorm:"type:varchar(15);not null;default:'MONTHLY'"`
	WorkingDaysPerWeek int              `gorm:"not null;default:5"`

	AttendanceRuleID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
