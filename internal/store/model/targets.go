package model

import (
	"time"

	"github.com/google/uuid"
)

// Target tables an approved preview can be reconciled into.
const (
	TargetLicenses          = "licenses"
	TargetEmissionSources   = "emission_sources"
	TargetActivityData      = "activity_data"
	TargetWasteLogs         = "waste_logs"
	TargetEnergyConsumption = "energy_consumption"
	TargetWaterConsumption  = "water_consumption"
	TargetSuppliers         = "suppliers"
)

type License struct {
	ID               uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID            string    `gorm:"not null;type:VARCHAR(255)"`
	LicenseName      string    `gorm:"not null;type:TEXT"`
	LicenseType      string    `gorm:"not null;type:VARCHAR(100)"`
	LicenseNumber    *string   `gorm:"type:VARCHAR(100)"`
	IssuingAuthority *string   `gorm:"type:TEXT"`
	IssueDate        string    `gorm:"not null;type:DATE"`
	ExpirationDate   string    `gorm:"not null;type:DATE"`
	Status           *string   `gorm:"type:VARCHAR(50)"`
	Conditions       *string   `gorm:"type:TEXT"`
	CreatedAt        time.Time `gorm:"not null"`
}

type EmissionSource struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID       string    `gorm:"not null;type:VARCHAR(255)"`
	SourceName  string    `gorm:"not null;type:TEXT"`
	Scope       string    `gorm:"not null;type:VARCHAR(20)"`
	Category    string    `gorm:"not null;type:VARCHAR(100)"`
	Description *string   `gorm:"type:TEXT"`
	CreatedAt   time.Time `gorm:"not null"`
}

type ActivityData struct {
	ID               uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID            string    `gorm:"not null;type:VARCHAR(255)"`
	EmissionSourceID string    `gorm:"not null;type:VARCHAR(255)"`
	Quantity         float64   `gorm:"not null;type:NUMERIC"`
	Unit             string    `gorm:"not null;type:VARCHAR(50)"`
	PeriodStartDate  string    `gorm:"not null;type:DATE"`
	PeriodEndDate    string    `gorm:"not null;type:DATE"`
	SourceDocument   *string   `gorm:"type:TEXT"`
	CreatedAt        time.Time `gorm:"not null"`
}

func (ActivityData) TableName() string { return TargetActivityData }

type WasteLog struct {
	ID               uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID            string    `gorm:"not null;type:VARCHAR(255)"`
	WasteType        string    `gorm:"not null;type:VARCHAR(100)"`
	Quantity         float64   `gorm:"not null;type:NUMERIC"`
	Unit             string    `gorm:"not null;type:VARCHAR(50)"`
	LogDate          string    `gorm:"not null;type:DATE"`
	FinalDestination *string   `gorm:"type:TEXT"`
	MtrNumber        *string   `gorm:"type:VARCHAR(100)"`
	CreatedAt        time.Time `gorm:"not null"`
}

type EnergyConsumption struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID           string    `gorm:"not null;type:VARCHAR(255)"`
	EnergySource    string    `gorm:"not null;type:VARCHAR(100)"`
	Quantity        float64   `gorm:"not null;type:NUMERIC"`
	Unit            string    `gorm:"not null;type:VARCHAR(50)"`
	PeriodStartDate string    `gorm:"not null;type:DATE"`
	PeriodEndDate   *string   `gorm:"type:DATE"`
	Cost            *float64  `gorm:"type:NUMERIC"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (EnergyConsumption) TableName() string { return TargetEnergyConsumption }

type WaterConsumption struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID           string    `gorm:"not null;type:VARCHAR(255)"`
	WaterSource     string    `gorm:"not null;type:VARCHAR(100)"`
	Quantity        float64   `gorm:"not null;type:NUMERIC"`
	Unit            string    `gorm:"not null;type:VARCHAR(50)"`
	PeriodStartDate string    `gorm:"not null;type:DATE"`
	PeriodEndDate   *string   `gorm:"type:DATE"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (WaterConsumption) TableName() string { return TargetWaterConsumption }

type Supplier struct {
	ID             uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID          string    `gorm:"not null;type:VARCHAR(255)"`
	Name           string    `gorm:"not null;type:TEXT"`
	DocumentNumber string    `gorm:"not null;type:VARCHAR(50)"`
	Category       string    `gorm:"not null;type:VARCHAR(100)"`
	ContactEmail   *string   `gorm:"type:VARCHAR(255)"`
	Status         *string   `gorm:"type:VARCHAR(50)"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TargetModels maps each reconcilable table to its schema model.
func TargetModels() map[string]any {
	return map[string]any{
		TargetLicenses:          &License{},
		TargetEmissionSources:   &EmissionSource{},
		TargetActivityData:      &ActivityData{},
		TargetWasteLogs:         &WasteLog{},
		TargetEnergyConsumption: &EnergyConsumption{},
		TargetWaterConsumption:  &WaterConsumption{},
		TargetSuppliers:         &Supplier{},
	}
}
