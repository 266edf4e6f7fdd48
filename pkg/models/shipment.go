package models

import (
	"strings"
	"time"

	"github.com/flaboy/aira-freight/pkg/database"
	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
)

type Shipment struct {
	ID                uint   `gorm:"primaryKey"`
	TrackingID        string `gorm:"size:64;index"`
	ResponseID        string `gorm:"size:64;index"`
	ConsignmentNumber string `gorm:"size:32"`
	PickingRef        string `gorm:"size:64;index"` // 来源单据（拣货单/订单）
	CredentialID      uint   `gorm:"index"`

	Status      utils.ShipmentStatus `gorm:"size:20;index;default:'created'"`
	ServiceCode string               `gorm:"size:8"`

	WeightKg     int
	Pallets      int
	BillUnitType string `gorm:"size:8"`

	// 承运商侧状态明细
	CarrierStatusCode string `gorm:"size:16"`
	CarrierStatusDesc string `gorm:"size:255"`

	// 原始响应，仅用于审计与排查
	LastResponse string `gorm:"type:text"`
	Notes        string `gorm:"type:text"`

	LabelPDF []byte `gorm:"type:bytea"`
	PodPDF   []byte `gorm:"type:bytea"`

	CollectionDate       *time.Time
	PromisedDeliveryDate *time.Time
	ActualDeliveryAt     *time.Time
	LastSyncAt           *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Shipment) TableName() string {
	return "ar_shipments"
}

// IsTest TEST- 前缀的跟踪号是测试模式下本地合成的
func (s *Shipment) IsTest() bool {
	return strings.HasPrefix(s.TrackingID, "TEST-")
}

func init() {
	database.RegisterAutoMigrateModels(&Shipment{})
}
